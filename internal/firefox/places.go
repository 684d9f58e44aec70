package firefox

import (
	"database/sql"
	"log/slog"

	"github.com/tomsquest/foxmark/internal/logging"
)

var placesLog = logging.ForComponent(logging.CompPlaces)

// Bookmark is one bookmark row joined with its place entry. URLHash keys
// into the favicons database.
type Bookmark struct {
	GUID    string
	Title   string
	URL     string
	URLHash int64
}

// HistoryEntry is one visited place that is not also a bookmark.
type HistoryEntry struct {
	GUID  string
	Title string
	URL   string
}

// Bookmarks reads all bookmarks from the places database. Database errors
// are logged and yield an empty slice; a failed bookmarks read must not
// abort the refresh.
func Bookmarks(placesDB string, strategy Strategy) []Bookmark {
	var bookmarks []Bookmark

	err := WithConnection(placesDB, strategy, func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT bookmark.guid, bookmark.title, place.url, place.url_hash
			FROM moz_bookmarks bookmark
			  JOIN moz_places place ON place.id = bookmark.fk
			WHERE bookmark.type = 1 -- 1 = bookmark, 2 = folder, 3 = separator
			  AND place.hidden = 0
			  AND place.url IS NOT NULL
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var b Bookmark
			var title sql.NullString
			if err := rows.Scan(&b.GUID, &title, &b.URL, &b.URLHash); err != nil {
				return err
			}
			b.Title = title.String
			bookmarks = append(bookmarks, b)
		}
		return rows.Err()
	})
	if err != nil {
		placesLog.Error("bookmarks_read_failed",
			slog.String("db", placesDB),
			slog.String("error", err.Error()))
		return nil
	}

	return bookmarks
}

// History reads all history entries from the places database, excluding
// places that are bookmarked. Same error contract as Bookmarks.
func History(placesDB string, strategy Strategy) []HistoryEntry {
	var entries []HistoryEntry

	err := WithConnection(placesDB, strategy, func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT place.guid, place.title, place.url
			FROM moz_places place
			  LEFT JOIN moz_bookmarks bookmark ON place.id = bookmark.fk
			WHERE place.hidden = 0
			  AND place.url IS NOT NULL
			  AND bookmark.id IS NULL
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e HistoryEntry
			var title sql.NullString
			if err := rows.Scan(&e.GUID, &title, &e.URL); err != nil {
				return err
			}
			e.Title = title.String
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		placesLog.Error("history_read_failed",
			slog.String("db", placesDB),
			slog.String("error", err.Error()))
		return nil
	}

	return entries
}

// Favicons reads the url_hash → icon bytes mapping from the favicons
// database. The mapping is sparse: pages without icons simply have no key.
// Favicon failures are cosmetic, so they only warn.
func Favicons(faviconsDB string, strategy Strategy) map[int64][]byte {
	icons := make(map[int64][]byte)

	err := WithConnection(faviconsDB, strategy, func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT moz_pages_w_icons.page_url_hash, moz_icons.data
			FROM moz_icons
			  INNER JOIN moz_icons_to_pages ON moz_icons.id = moz_icons_to_pages.icon_id
			  INNER JOIN moz_pages_w_icons ON moz_icons_to_pages.page_id = moz_pages_w_icons.id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var hash int64
			var data []byte
			if err := rows.Scan(&hash, &data); err != nil {
				return err
			}
			icons[hash] = data
		}
		return rows.Err()
	})
	if err != nil {
		placesLog.Warn("favicons_read_failed",
			slog.String("db", faviconsDB),
			slog.String("error", err.Error()))
		return map[int64][]byte{}
	}

	return icons
}
