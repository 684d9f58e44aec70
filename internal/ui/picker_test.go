package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomsquest/foxmark/internal/index"
)

func testPicker(items []index.Item) *Picker {
	idx := index.New()
	idx.Install(items)

	p := NewPicker(idx, index.NewRefresher(idx, func() index.RunConfig {
		return index.RunConfig{}
	}))
	p.width = 80
	p.height = 24
	p.reload()
	p.refreshing = false
	return p
}

func sampleItems() []index.Item {
	return []index.Item{
		{ID: "1", Text: "Example", Subtext: "http://example.com", URL: "http://example.com",
			Icon: index.Icon{Kind: index.IconGlyph, Glyph: index.GlyphBookmark},
			Search: "example http://example.com"},
		{ID: "2", Text: "Other", Subtext: "http://other.com", URL: "http://other.com",
			Icon: index.Icon{Kind: index.IconGlyph, Glyph: index.GlyphHistory},
			Search: "other http://other.com"},
	}
}

func TestPickerEmptyQueryShowsAll(t *testing.T) {
	p := testPicker(sampleItems())
	assert.Len(t, p.results, 2)
}

func TestPickerFilter(t *testing.T) {
	p := testPicker(sampleItems())

	p.input.SetValue("example")
	p.filter()

	require.Len(t, p.results, 1)
	assert.Equal(t, "1", p.results[0].ID)
}

func TestPickerFilterIsCaseInsensitive(t *testing.T) {
	p := testPicker(sampleItems())

	p.input.SetValue("EXAMPLE")
	p.filter()

	require.Len(t, p.results, 1)
	assert.Equal(t, "1", p.results[0].ID)
}

func TestPickerCursorResetsWhenResultsShrink(t *testing.T) {
	p := testPicker(sampleItems())
	p.cursor = 1

	p.input.SetValue("example")
	p.filter()

	assert.Equal(t, 0, p.cursor)
}

func TestPickerCursorMovement(t *testing.T) {
	p := testPicker(sampleItems())

	model, _ := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p = model.(*Picker)
	assert.Equal(t, 1, p.cursor)

	// clamped at the end
	model, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p = model.(*Picker)
	assert.Equal(t, 1, p.cursor)

	model, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p = model.(*Picker)
	assert.Equal(t, 0, p.cursor)
}

func TestPickerViewRendersItemsAndStatus(t *testing.T) {
	p := testPicker(sampleItems())

	view := p.View()
	assert.Contains(t, view, "Example")
	assert.Contains(t, view, "http://other.com")
	assert.Contains(t, view, "2 items")
}

func TestPickerViewWhileIndexing(t *testing.T) {
	p := testPicker(nil)
	p.refreshing = true

	assert.Contains(t, p.View(), "indexing")
}

func TestPickerPollPicksUpNewGeneration(t *testing.T) {
	idx := index.New()
	p := NewPicker(idx, index.NewRefresher(idx, func() index.RunConfig {
		return index.RunConfig{}
	}))
	p.reload()
	assert.Empty(t, p.results)

	idx.Install(sampleItems())

	model, _ := p.Update(pollMsg{})
	p = model.(*Picker)
	assert.Len(t, p.results, 2)
}

func TestItemSource(t *testing.T) {
	src := itemSource(sampleItems())
	assert.Equal(t, 2, src.Len())
	assert.True(t, strings.Contains(src.String(0), "example"))
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ResolveTheme("dark"))
	assert.Equal(t, ThemeLight, ResolveTheme("light"))

	// "system" resolves to one of the two, never panics headless
	got := ResolveTheme("system")
	assert.Contains(t, []Theme{ThemeDark, ThemeLight}, got)
}
