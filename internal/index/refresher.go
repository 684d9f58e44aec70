package index

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tomsquest/foxmark/internal/firefox"
	"github.com/tomsquest/foxmark/internal/logging"
)

var refreshLog = logging.ForComponent(logging.CompRefresh)

// RunConfig is the configuration one refresh run operates on. It is
// produced by the config source at run start, not at trigger time, so
// coalesced triggers always act on the latest settings.
type RunConfig struct {
	FirefoxRoot  string
	Profile      firefox.Profile
	HasProfile   bool
	IndexHistory bool
	Strategy     firefox.Strategy
	FaviconDir   string
}

// Refresher rebuilds the index on a background goroutine, single-flight:
// a trigger first joins any in-flight run, then starts exactly one new run.
// Superseded runs are never cancelled; their result is simply overwritten.
type Refresher struct {
	index      *Index
	loadConfig func() RunConfig

	mu   sync.Mutex
	done chan struct{} // closed when the current run finishes; nil when idle
}

// NewRefresher returns a refresher that installs into index and reads its
// configuration through loadConfig at the start of every run.
func NewRefresher(index *Index, loadConfig func() RunConfig) *Refresher {
	return &Refresher{index: index, loadConfig: loadConfig}
}

// Trigger starts a refresh run. If a run is in flight it blocks until that
// run finishes, then launches the new one. At most one run is ever active.
func (r *Refresher) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		<-r.done
	}

	done := make(chan struct{})
	r.done = done
	go func() {
		defer close(done)
		r.run()
	}()
}

// Wait blocks until the most recently started run has finished.
func (r *Refresher) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done != nil {
		<-done
	}
}

// run executes one refresh: read config, extract, build, install.
// Extraction failures surface as empty extractor results, so the worst
// outcome is an emptier index plus a log entry; a run never panics the
// caller and never leaves the index half-built.
func (r *Refresher) run() {
	cfg := r.loadConfig()

	if !cfg.HasProfile {
		refreshLog.Error("no_profile_available",
			slog.String("root", cfg.FirefoxRoot))
		return
	}

	placesDB := cfg.Profile.PlacesPath(cfg.FirefoxRoot)
	faviconsDB := cfg.Profile.FaviconsPath(cfg.FirefoxRoot)

	var (
		bookmarks []firefox.Bookmark
		history   []firefox.HistoryEntry
		favicons  map[int64][]byte
	)

	// The three extractors are independent reads against separate
	// connections, each with its own temp copy, so they can run in
	// parallel. Extractors never return errors; they log and go empty.
	var g errgroup.Group
	g.Go(func() error {
		bookmarks = firefox.Bookmarks(placesDB, cfg.Strategy)
		return nil
	})
	if cfg.IndexHistory {
		g.Go(func() error {
			history = firefox.History(placesDB, cfg.Strategy)
			return nil
		})
	}
	if cfg.Profile.HasFavicons && cfg.FaviconDir != "" {
		g.Go(func() error {
			favicons = firefox.Favicons(faviconsDB, cfg.Strategy)
			return nil
		})
	}
	_ = g.Wait()

	refreshLog.Info("extracted",
		slog.String("profile", cfg.Profile.Path),
		slog.Int("bookmarks", len(bookmarks)),
		slog.Int("history", len(history)),
		slog.Int("favicons", len(favicons)))

	items := Build(BuildInput{
		Bookmarks:    bookmarks,
		History:      history,
		Favicons:     favicons,
		IndexHistory: cfg.IndexHistory,
		FaviconDir:   cfg.FaviconDir,
	})

	r.index.Install(items)

	refreshLog.Info("index_installed", slog.Int("items", len(items)))
}
