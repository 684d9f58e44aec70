package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
	"golang.org/x/time/rate"

	"github.com/tomsquest/foxmark/internal/index"
	"github.com/tomsquest/foxmark/internal/logging"
)

var uiLog = logging.ForComponent(logging.CompUI)

// pollEvery is how often the picker checks whether a background refresh
// swapped the index.
const pollEvery = time.Second

// maxVisible caps the rendered result rows.
const maxVisible = 15

type pollMsg struct{}

type refreshDoneMsg struct{}

type actionDoneMsg struct {
	label string
	err   error
}

// itemSource adapts index items to sahilm/fuzzy.
type itemSource []index.Item

func (s itemSource) Len() int            { return len(s) }
func (s itemSource) String(i int) string { return s[i].Search }

// Picker is the interactive search UI over the installed index.
type Picker struct {
	input     textinput.Model
	idx       *index.Index
	refresher *index.Refresher

	items   []index.Item
	results []index.Item
	cursor  int
	gen     uint64

	width  int
	height int
	status string

	refreshing   bool
	refreshLimit *rate.Limiter
}

// NewPicker creates the picker. The first refresh is expected to already be
// in flight; the picker shows "indexing" until it lands.
func NewPicker(idx *index.Index, refresher *index.Refresher) *Picker {
	ti := textinput.New()
	ti.Placeholder = "Search bookmarks..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50

	return &Picker{
		input:      ti,
		idx:        idx,
		refresher:  refresher,
		refreshing: true,
		// Manual refresh is expensive (copies the db); one per 2s is plenty.
		refreshLimit: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

func (p *Picker) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, p.waitForRefresh(), pollTick())
}

func pollTick() tea.Cmd {
	return tea.Tick(pollEvery, func(time.Time) tea.Msg { return pollMsg{} })
}

// waitForRefresh joins the in-flight refresh run off the UI goroutine.
func (p *Picker) waitForRefresh() tea.Cmd {
	return func() tea.Msg {
		p.refresher.Wait()
		return refreshDoneMsg{}
	}
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case refreshDoneMsg:
		p.refreshing = false
		p.reload()
		return p, nil

	case pollMsg:
		if g := p.idx.Generation(); g != p.gen {
			p.reload()
		}
		return p, pollTick()

	case actionDoneMsg:
		if msg.err != nil {
			p.status = fmt.Sprintf("%s failed: %v", msg.label, msg.err)
		} else {
			p.status = msg.label
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return p, tea.Quit

		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		case "down", "ctrl+n":
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case "enter":
			return p, p.runAction(0)

		case "ctrl+y":
			return p, p.runAction(1)

		case "ctrl+r":
			if !p.refreshLimit.Allow() {
				p.status = "refresh already requested"
				return p, nil
			}
			p.refreshing = true
			p.status = ""
			p.refresher.Trigger()
			return p, p.waitForRefresh()
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.filter()
	return p, cmd
}

// runAction executes the selected item's action (0 = open, 1 = copy)
// off the UI goroutine.
func (p *Picker) runAction(n int) tea.Cmd {
	if p.cursor >= len(p.results) {
		return nil
	}
	it := p.results[p.cursor]
	actions := it.Actions()
	if n >= len(actions) {
		return nil
	}
	act := actions[n]
	return func() tea.Msg {
		err := act.Run()
		if err != nil {
			uiLog.Warn("action_failed",
				slog.String("action", act.ID),
				slog.String("url", it.URL),
				slog.String("error", err.Error()))
		}
		return actionDoneMsg{label: act.Label, err: err}
	}
}

// reload pulls the current item list from the index and refilters.
func (p *Picker) reload() {
	p.items = p.idx.Items()
	p.gen = p.idx.Generation()
	p.filter()
}

// filter recomputes results for the current query. Empty query lists
// everything in index order; otherwise sahilm/fuzzy ranks the matches
// against the lowercase search strings.
func (p *Picker) filter() {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		p.results = p.items
	} else {
		matches := fuzzy.FindFrom(strings.ToLower(query), itemSource(p.items))
		results := make([]index.Item, 0, len(matches))
		for _, m := range matches {
			results = append(results, p.items[m.Index])
		}
		p.results = results
	}

	if p.cursor >= len(p.results) {
		p.cursor = 0
	}
}

func (p *Picker) View() string {
	var b strings.Builder

	b.WriteString(searchBoxStyle.Render(p.input.View()))
	b.WriteString("\n")

	visible := p.results
	offset := 0
	if p.cursor >= maxVisible {
		offset = p.cursor - maxVisible + 1
	}
	if offset > 0 {
		visible = visible[offset:]
	}
	if len(visible) > maxVisible {
		visible = visible[:maxVisible]
	}

	for i, it := range visible {
		line := p.renderItem(it)
		if offset+i == p.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(p.renderStatus())
	return b.String()
}

func (p *Picker) renderItem(it index.Item) string {
	glyph := it.Icon.Glyph
	if it.Icon.Kind == index.IconFavicon {
		glyph = index.GlyphBookmark
	}

	width := p.width - 8
	if width < 20 {
		width = 60
	}
	text := runewidth.Truncate(it.Text, width/2, "…")
	sub := runewidth.Truncate(it.Subtext, width/2, "…")

	return fmt.Sprintf("%s %s  %s", glyph, text, subtextStyle.Render(sub))
}

func (p *Picker) renderStatus() string {
	var parts []string
	if p.refreshing {
		parts = append(parts, "indexing…")
	} else {
		parts = append(parts, fmt.Sprintf("%d items", len(p.results)))
	}
	if p.status != "" {
		parts = append(parts, p.status)
	}
	parts = append(parts, "enter open · ctrl+y copy · ctrl+r refresh · esc quit")

	return statusStyle.Render(strings.Join(parts, "  |  "))
}

// Run starts the picker program and blocks until it exits.
func Run(idx *index.Index, refresher *index.Refresher) error {
	prog := tea.NewProgram(NewPicker(idx, refresher), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

var _ tea.Model = (*Picker)(nil)
