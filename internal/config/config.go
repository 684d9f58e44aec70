package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tomsquest/foxmark/internal/platform"
)

// FileName is the TOML config file under the foxmark data directory.
const FileName = "config.toml"

// Reader strategy names for the places/favicons databases.
const (
	ReaderCopy      = "copy"      // copy db + WAL sidecars, checkpoint the copy
	ReaderImmutable = "immutable" // open the live file with immutable=1
)

// Config represents user-facing configuration in TOML format.
type Config struct {
	// Profile is the Firefox profile path relative to the Firefox root,
	// as declared in profiles.ini (e.g. "abc123.default-release").
	// Empty means "first available profile".
	Profile string `toml:"profile"`

	// IndexHistory enables indexing of browsing history alongside bookmarks.
	IndexHistory bool `toml:"index_history"`

	// Reader selects how the live SQLite files are opened: "copy" (default,
	// WAL-safe) or "immutable" (no copy, possibly stale view).
	Reader string `toml:"reader"`

	// Theme sets the color scheme: "dark", "light", or "system" (default)
	Theme string `toml:"theme"`

	// Logs defines log output settings
	Logs LogSettings `toml:"logs"`
}

// LogSettings defines log file management settings.
type LogSettings struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// Format is "json" (default) or "text"
	Format string `toml:"format"`

	// MaxSizeMB is the max log size in MB before rotation
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep
	MaxBackups int `toml:"max_backups"`

	// MaxAgeDays is days to keep rotated files
	MaxAgeDays int `toml:"max_age_days"`

	// Compress rotated files
	Compress bool `toml:"compress"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Reader: ReaderCopy,
		Theme:  "system",
		Logs: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// Path returns the config file path (~/.foxmark/config.toml).
func Path() (string, error) {
	dir, err := platform.DataDir()
	if err != nil {
		return "", fmt.Errorf("config: data dir: %w", err)
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file at path, filling in defaults for missing
// fields. A missing file is not an error and yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Reader != ReaderCopy && cfg.Reader != ReaderImmutable {
		cfg.Reader = ReaderCopy
	}
	return cfg, nil
}

// Save writes the config atomically: encode in memory, write a temp file,
// rename over the target. A crash mid-save never leaves a torn file.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# foxmark configuration\n")
	buf.WriteString("# Edit this file or use the picker settings keys\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("config: write temp: %w", err)
	}
	if f, err := os.Open(tmpPath); err == nil {
		_ = f.Sync()
		_ = f.Close()
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("config: finalize save: %w", err)
	}
	return nil
}
