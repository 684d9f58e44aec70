package firefox

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// createPlacesDB builds a places.sqlite with the moz_places/moz_bookmarks
// schema in dir and returns its path.
func createPlacesDB(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, PlacesFile)
	db := openFixture(t, path)
	defer db.Close()

	mustExec(t, db, `
		CREATE TABLE moz_places (
			id       INTEGER PRIMARY KEY,
			guid     TEXT,
			title    TEXT,
			url      TEXT,
			url_hash INTEGER NOT NULL DEFAULT 0,
			hidden   INTEGER NOT NULL DEFAULT 0
		)
	`)
	mustExec(t, db, `
		CREATE TABLE moz_bookmarks (
			id    INTEGER PRIMARY KEY,
			guid  TEXT,
			title TEXT,
			fk    INTEGER,
			type  INTEGER
		)
	`)
	return path
}

// createFaviconsDB builds a favicons.sqlite with the three icon tables.
func createFaviconsDB(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, FaviconsFile)
	db := openFixture(t, path)
	defer db.Close()

	mustExec(t, db, `
		CREATE TABLE moz_icons (
			id   INTEGER PRIMARY KEY,
			data BLOB
		)
	`)
	mustExec(t, db, `
		CREATE TABLE moz_icons_to_pages (
			page_id INTEGER,
			icon_id INTEGER
		)
	`)
	mustExec(t, db, `
		CREATE TABLE moz_pages_w_icons (
			id            INTEGER PRIMARY KEY,
			page_url_hash INTEGER
		)
	`)
	return path
}

// addPlace inserts a moz_places row and returns its id.
func addPlace(t *testing.T, path, guid string, title any, url string, urlHash int64, hidden int) int64 {
	t.Helper()

	db := openFixture(t, path)
	defer db.Close()

	res, err := db.Exec(
		"INSERT INTO moz_places (guid, title, url, url_hash, hidden) VALUES (?, ?, ?, ?, ?)",
		guid, title, url, urlHash, hidden,
	)
	if err != nil {
		t.Fatalf("insert place: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("place id: %v", err)
	}
	return id
}

// addBookmark inserts a moz_bookmarks row pointing at placeID.
func addBookmark(t *testing.T, path, guid string, title any, placeID int64, typ int) {
	t.Helper()

	db := openFixture(t, path)
	defer db.Close()

	if _, err := db.Exec(
		"INSERT INTO moz_bookmarks (guid, title, fk, type) VALUES (?, ?, ?, ?)",
		guid, title, placeID, typ,
	); err != nil {
		t.Fatalf("insert bookmark: %v", err)
	}
}

// addFavicon links icon bytes to a page url hash.
func addFavicon(t *testing.T, path string, urlHash int64, data []byte) {
	t.Helper()

	db := openFixture(t, path)
	defer db.Close()

	res, err := db.Exec("INSERT INTO moz_icons (data) VALUES (?)", data)
	if err != nil {
		t.Fatalf("insert icon: %v", err)
	}
	iconID, _ := res.LastInsertId()

	res, err = db.Exec("INSERT INTO moz_pages_w_icons (page_url_hash) VALUES (?)", urlHash)
	if err != nil {
		t.Fatalf("insert page: %v", err)
	}
	pageID, _ := res.LastInsertId()

	if _, err := db.Exec(
		"INSERT INTO moz_icons_to_pages (page_id, icon_id) VALUES (?, ?)", pageID, iconID,
	); err != nil {
		t.Fatalf("link icon: %v", err)
	}
}

func openFixture(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture %s: %v", path, err)
	}
	return db
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()

	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

// writeProfilesINI writes a profiles.ini under root.
func writeProfilesINI(t *testing.T, root, content string) {
	t.Helper()

	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "profiles.ini"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
