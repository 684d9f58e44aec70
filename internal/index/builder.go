package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomsquest/foxmark/internal/firefox"
	"github.com/tomsquest/foxmark/internal/logging"
)

var indexLog = logging.ForComponent(logging.CompIndex)

// BuildInput carries one refresh's extractor outputs into the builder.
type BuildInput struct {
	Bookmarks []firefox.Bookmark
	History   []firefox.HistoryEntry

	// Favicons maps url_hash to icon bytes. Sparse: most pages miss.
	Favicons map[int64][]byte

	// IndexHistory includes history entries after the bookmarks.
	IndexHistory bool

	// FaviconDir is the cache directory for favicon files. It is cleared
	// and repopulated on every build. Empty disables favicon files and
	// every item falls back to a glyph icon.
	FaviconDir string
}

// Build merges extractor outputs into the replacement item list.
// URLs are deduplicated in source order, bookmarks before history, so a
// bookmarked URL never reappears as a history item.
func Build(in BuildInput) []Item {
	if in.FaviconDir != "" {
		clearFaviconCache(in.FaviconDir)
	}

	seen := make(map[string]struct{})
	items := make([]Item, 0, len(in.Bookmarks))

	for _, b := range in.Bookmarks {
		if _, dup := seen[b.URL]; dup {
			continue
		}
		seen[b.URL] = struct{}{}

		items = append(items, Item{
			ID:      b.GUID,
			Text:    displayText(b.Title, b.URL),
			Subtext: b.URL,
			URL:     b.URL,
			Icon:    resolveIcon(b, in),
			Search:  searchString(b.Title, b.URL),
		})
	}

	if in.IndexHistory {
		for _, h := range in.History {
			if _, dup := seen[h.URL]; dup {
				continue
			}
			seen[h.URL] = struct{}{}

			items = append(items, Item{
				ID:      h.GUID,
				Text:    displayText(h.Title, h.URL),
				Subtext: h.URL,
				URL:     h.URL,
				Icon:    Icon{Kind: IconGlyph, Glyph: GlyphHistory},
				Search:  searchString(h.Title, h.URL),
			})
		}
	}

	return items
}

// resolveIcon decides the icon variant for a bookmark: its favicon written
// to the cache when one exists, otherwise the globe glyph.
func resolveIcon(b firefox.Bookmark, in BuildInput) Icon {
	if in.FaviconDir != "" {
		if data, ok := in.Favicons[b.URLHash]; ok && len(data) > 0 {
			path := filepath.Join(in.FaviconDir, "favicon_"+b.GUID+".png")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				indexLog.Warn("favicon_write_failed",
					slog.String("path", path),
					slog.String("error", err.Error()))
			} else {
				return Icon{Kind: IconFavicon, Path: path}
			}
		}
	}
	return Icon{Kind: IconGlyph, Glyph: GlyphBookmark}
}

// clearFaviconCache drops every previously cached favicon so the cache
// cannot grow across refreshes.
func clearFaviconCache(dir string) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		indexLog.Warn("favicon_dir_create_failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		indexLog.Warn("favicon_dir_read_failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		_ = os.Remove(filepath.Join(dir, e.Name()))
	}
}

func displayText(title, url string) string {
	if title != "" {
		return title
	}
	return url
}

func searchString(title, url string) string {
	return strings.ToLower(title + " " + url)
}
