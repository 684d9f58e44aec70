// Package firefox reads Firefox profile data: profile discovery via
// profiles.ini, lock-safe access to the SQLite stores, and the bookmark,
// history and favicon queries.
package firefox

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/tomsquest/foxmark/internal/logging"
)

// Database file names inside a profile directory.
const (
	PlacesFile   = "places.sqlite"
	FaviconsFile = "favicons.sqlite"
)

var locatorLog = logging.ForComponent(logging.CompLocator)

// Profile is one profile declared in profiles.ini that holds a places
// database. Path is relative to the Firefox root, as declared.
type Profile struct {
	Path        string
	HasFavicons bool
}

// PlacesPath returns the absolute path of the places database.
func (p Profile) PlacesPath(root string) string {
	return filepath.Join(root, p.Path, PlacesFile)
}

// FaviconsPath returns the absolute path of the favicons database.
func (p Profile) FaviconsPath(root string) string {
	return filepath.Join(root, p.Path, FaviconsFile)
}

// AvailableProfiles discovers usable profiles under the Firefox root.
// It parses profiles.ini and keeps, in declaration order, every [Profile*]
// section whose Path points at a directory containing places.sqlite.
// A missing root or an unparseable ini yields an empty list, never an error.
func AvailableProfiles(root string) []Profile {
	var profiles []Profile

	if _, err := os.Stat(root); err != nil {
		return profiles
	}

	iniPath := filepath.Join(root, "profiles.ini")
	cfg, err := ini.Load(iniPath)
	if err != nil {
		locatorLog.Warn("profiles_ini_unreadable",
			slog.String("path", iniPath),
			slog.String("error", err.Error()))
		return profiles
	}

	for _, section := range cfg.Sections() {
		if !strings.HasPrefix(section.Name(), "Profile") {
			continue
		}
		if !section.HasKey("Path") {
			continue
		}
		relPath := section.Key("Path").String()
		if relPath == "" {
			continue
		}

		dir := filepath.Join(root, relPath)
		if _, err := os.Stat(filepath.Join(dir, PlacesFile)); err != nil {
			continue
		}

		_, faviconsErr := os.Stat(filepath.Join(dir, FaviconsFile))
		profiles = append(profiles, Profile{
			Path:        relPath,
			HasFavicons: faviconsErr == nil,
		})
	}

	return profiles
}

// FindProfile returns the profile matching path, or false when it is not
// among the available ones.
func FindProfile(profiles []Profile, path string) (Profile, bool) {
	for _, p := range profiles {
		if p.Path == path {
			return p, true
		}
	}
	return Profile{}, false
}
