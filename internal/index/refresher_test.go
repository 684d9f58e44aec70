package index

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/tomsquest/foxmark/internal/firefox"
)

// makeProfile creates root/<name>/places.sqlite with one bookmark and one
// history place, and returns the root.
func makeProfile(t *testing.T, name string) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	db, err := sql.Open("sqlite", filepath.Join(dir, firefox.PlacesFile))
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE moz_places (
			id INTEGER PRIMARY KEY, guid TEXT, title TEXT, url TEXT,
			url_hash INTEGER NOT NULL DEFAULT 0, hidden INTEGER NOT NULL DEFAULT 0)`,
		`CREATE TABLE moz_bookmarks (
			id INTEGER PRIMARY KEY, guid TEXT, title TEXT, fk INTEGER, type INTEGER)`,
		`INSERT INTO moz_places (id, guid, title, url) VALUES
			(1, 'p1', 'Example', 'http://example.com'),
			(2, 'p2', 'Visited', 'http://visited.com')`,
		`INSERT INTO moz_bookmarks (guid, title, fk, type) VALUES ('b1', 'Example', 1, 1)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	return root
}

func runConfigFor(root, profile string, history bool) RunConfig {
	return RunConfig{
		FirefoxRoot:  root,
		Profile:      firefox.Profile{Path: profile},
		HasProfile:   true,
		IndexHistory: history,
		Strategy:     firefox.StrategyCopy,
	}
}

func TestRefresherBuildsIndex(t *testing.T) {
	root := makeProfile(t, "abc.default")

	idx := New()
	r := NewRefresher(idx, func() RunConfig {
		return runConfigFor(root, "abc.default", false)
	})

	r.Trigger()
	r.Wait()

	items := idx.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b1", items[0].ID)
	assert.Equal(t, "Example", items[0].Text)
	assert.Equal(t, "http://example.com", items[0].Subtext)
}

func TestRefresherReadsConfigAtRunStart(t *testing.T) {
	root := makeProfile(t, "abc.default")

	var mu sync.Mutex
	history := false

	idx := New()
	r := NewRefresher(idx, func() RunConfig {
		mu.Lock()
		defer mu.Unlock()
		return runConfigFor(root, "abc.default", history)
	})

	// two back-to-back triggers: the second run must observe the flag as
	// it is when that run starts, not as it was when triggered
	r.Trigger()
	mu.Lock()
	history = true
	mu.Unlock()
	r.Trigger()
	r.Wait()

	assert.Equal(t, 2, idx.Len(), "final index must reflect the latest configuration")
}

func TestRefresherSingleFlight(t *testing.T) {
	root := makeProfile(t, "abc.default")

	idx := New()
	var mu sync.Mutex
	starts := 0

	r := NewRefresher(idx, func() RunConfig {
		mu.Lock()
		defer mu.Unlock()
		// A run only starts after every previous run has installed its
		// result, so at start k the generation must be exactly k-1.
		if idx.Generation() != uint64(starts) {
			t.Errorf("run %d started before run %d installed", starts+1, starts)
		}
		starts++
		return runConfigFor(root, "abc.default", false)
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Trigger()
		}()
	}
	wg.Wait()
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, starts, "every trigger runs exactly once, serially")
	assert.Equal(t, uint64(5), idx.Generation())
}

func TestRefresherNoProfileLeavesIndexInPlace(t *testing.T) {
	idx := New()
	idx.Install([]Item{{ID: "old"}})

	r := NewRefresher(idx, func() RunConfig {
		return RunConfig{HasProfile: false}
	})

	r.Trigger()
	r.Wait()

	// a failed refresh leaves the previous index installed
	require.Len(t, idx.Items(), 1)
	assert.Equal(t, "old", idx.Items()[0].ID)
}

func TestRefresherWaitWithoutTrigger(t *testing.T) {
	r := NewRefresher(New(), func() RunConfig { return RunConfig{} })
	r.Wait() // must not block or panic when idle
}
