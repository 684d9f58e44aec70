package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomsquest/foxmark/internal/config"
	"github.com/tomsquest/foxmark/internal/firefox"
	"github.com/tomsquest/foxmark/internal/index"
	"github.com/tomsquest/foxmark/internal/logging"
	"github.com/tomsquest/foxmark/internal/platform"
	"github.com/tomsquest/foxmark/internal/ui"
)

const Version = "1.0.0"

// init sets up the color profile for consistent terminal colors
func init() {
	initColorProfile()
}

// initColorProfile configures the lipgloss color profile.
// FOXMARK_COLOR overrides detection: truecolor, 256, 16, none.
func initColorProfile() {
	if colorEnv := os.Getenv("FOXMARK_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	if colorTerm := os.Getenv("COLORTERM"); colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		runPicker()
		return
	}

	switch args[0] {
	case "version", "--version", "-v":
		fmt.Printf("foxmark v%s\n", Version)

	case "help", "--help", "-h":
		printUsage()

	case "search":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: foxmark search <query>")
			os.Exit(1)
		}
		runSearch(strings.Join(args[1:], " "))

	case "profiles":
		runProfiles()

	case "refresh":
		runRefresh()

	case "config":
		runConfig()

	case "logs":
		runLogs()

	default:
		fmt.Fprintf(os.Stderr, "foxmark: unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`foxmark - search Firefox bookmarks and history

Usage:
  foxmark              Interactive picker
  foxmark search <q>   Print matching entries
  foxmark profiles     List Firefox profiles
  foxmark refresh      Rebuild the index once and report counts
  foxmark config       Show configuration
  foxmark logs         Show the log file path
  foxmark version      Show version

Keys in the picker:
  enter    open in Firefox
  ctrl+y   copy URL
  ctrl+r   refresh the index
  esc      quit`)
}

// app wires config, locator and refresher together.
type app struct {
	dataDir    string
	configPath string
	root       string
	idx        *index.Index
	refresher  *index.Refresher
}

// setup resolves directories, initializes logging, persists a default
// profile selection when none is configured, and builds the refresher.
func setup() (*app, error) {
	dataDir, err := platform.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	configPath, err := config.Path()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v (using defaults)\n", err)
	}

	logging.Init(logging.Config{
		LogDir:     dataDir,
		Level:      cfg.Logs.Level,
		Format:     cfg.Logs.Format,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		Compress:   cfg.Logs.Compress,
	})

	root, err := platform.FirefoxRoot()
	if err != nil {
		return nil, fmt.Errorf("resolve Firefox root: %w", err)
	}

	// Pick the first profile as default when none is configured or the
	// configured one no longer exists. Persisted before the config
	// watcher starts so the save doesn't trigger a refresh of its own.
	profiles := firefox.AvailableProfiles(root)
	if _, ok := firefox.FindProfile(profiles, cfg.Profile); !ok && len(profiles) > 0 {
		cfg.Profile = profiles[0].Path
		if err := config.Save(configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "foxmark: save config: %v\n", err)
		}
	}

	a := &app{
		dataDir:    dataDir,
		configPath: configPath,
		root:       root,
		idx:        index.New(),
	}
	a.refresher = index.NewRefresher(a.idx, a.loadRunConfig)

	ui.InitTheme(ui.ResolveTheme(cfg.Theme))
	return a, nil
}

// loadRunConfig is called by the refresher at the start of every run, so
// a run always sees the configuration as it is right then.
func (a *app) loadRunConfig() index.RunConfig {
	cfg, _ := config.Load(a.configPath)

	profiles := firefox.AvailableProfiles(a.root)
	profile, ok := firefox.FindProfile(profiles, cfg.Profile)
	if !ok && len(profiles) > 0 {
		profile = profiles[0]
		ok = true
	}

	strategy := firefox.StrategyCopy
	if cfg.Reader == config.ReaderImmutable {
		strategy = firefox.StrategyImmutable
	}

	return index.RunConfig{
		FirefoxRoot:  a.root,
		Profile:      profile,
		HasProfile:   ok,
		IndexHistory: cfg.IndexHistory,
		Strategy:     strategy,
		FaviconDir:   filepath.Join(a.dataDir, "favicons"),
	}
}

func runPicker() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "foxmark: stdout is not a terminal; use 'foxmark search <query>'")
		os.Exit(1)
	}

	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
		os.Exit(1)
	}
	defer logging.Shutdown()

	a.refresher.Trigger()

	// Config edits (profile switch, history flag) retrigger the refresh;
	// the run reads the file itself, so no state is passed here.
	watcher, err := config.NewWatcher(a.configPath, a.refresher.Trigger)
	if err == nil {
		if err := watcher.Start(); err == nil {
			defer watcher.Stop()
		}
	}

	if err := ui.Run(a.idx, a.refresher); err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
		os.Exit(1)
	}
}

func runSearch(query string) {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
		os.Exit(1)
	}
	defer logging.Shutdown()

	a.refresher.Trigger()
	a.refresher.Wait()

	for _, it := range a.idx.Search(query) {
		fmt.Printf("%s\t%s\n", it.Text, it.URL)
	}
}

func runProfiles() {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
		os.Exit(1)
	}
	defer logging.Shutdown()

	cfg, _ := config.Load(a.configPath)
	profiles := firefox.AvailableProfiles(a.root)
	if len(profiles) == 0 {
		fmt.Fprintf(os.Stderr, "foxmark: no Firefox profiles found under %s\n", a.root)
		os.Exit(1)
	}

	for _, p := range profiles {
		marker := " "
		if p.Path == cfg.Profile {
			marker = "*"
		}
		note := ""
		if !p.HasFavicons {
			note = " (no favicons)"
		}
		fmt.Printf("%s %s%s\n", marker, p.Path, note)
	}
}

func runRefresh() {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
		os.Exit(1)
	}
	defer logging.Shutdown()

	a.refresher.Trigger()
	a.refresher.Wait()

	fmt.Printf("indexed %d items\n", a.idx.Len())
}

func runConfig() {
	configPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
	}

	fmt.Printf("config:        %s\n", configPath)
	fmt.Printf("profile:       %s\n", cfg.Profile)
	fmt.Printf("index_history: %t\n", cfg.IndexHistory)
	fmt.Printf("reader:        %s\n", cfg.Reader)
	fmt.Printf("theme:         %s\n", cfg.Theme)
}

func runLogs() {
	dataDir, err := platform.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foxmark: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(filepath.Join(dataDir, "foxmark.log"))
}
