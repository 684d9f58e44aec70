// Package index turns extracted Firefox records into the searchable item
// list and keeps it refreshed in the background.
package index

import (
	"github.com/pkg/browser"

	"github.com/tomsquest/foxmark/internal/clipboard"
)

// IconKind discriminates the icon variants an item can carry.
type IconKind int

const (
	// IconGlyph renders a fallback glyph (globe for bookmarks, clock for
	// history) composed over the browser brand icon.
	IconGlyph IconKind = iota

	// IconFavicon renders a favicon image file from the cache directory.
	IconFavicon
)

// Glyphs used when no favicon is available.
const (
	GlyphBookmark = "🌐"
	GlyphHistory  = "🕘"
)

// Icon is the resolved icon source for one item, decided once at build time.
type Icon struct {
	Kind  IconKind
	Glyph string // set for IconGlyph
	Path  string // set for IconFavicon
}

// Item is one searchable, actionable entry.
type Item struct {
	// ID is the stable identifier (the moz_places/moz_bookmarks guid).
	ID string

	// Text is the display line: the title, or the URL when untitled.
	Text string

	// Subtext is always the URL.
	Subtext string

	URL  string
	Icon Icon

	// Search is the lowercase match string "{title} {url}".
	Search string
}

// Action is one user-invokable side effect on an item.
type Action struct {
	ID    string
	Label string
	Run   func() error
}

// Actions returns the actions for the item: open in the browser and copy
// the URL to the clipboard.
func (it Item) Actions() []Action {
	url := it.URL
	return []Action{
		{
			ID:    "open",
			Label: "Open in Firefox",
			Run:   func() error { return browser.OpenURL(url) },
		},
		{
			ID:    "copy",
			Label: "Copy URL",
			Run: func() error {
				_, err := clipboard.Copy(url)
				return err
			},
		},
	}
}
