package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform represents the detected platform
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformWSL     Platform = "wsl"
	PlatformUnknown Platform = "unknown"
)

// cached detection result
var detectedPlatform Platform
var detectionDone bool

// Detect returns the current platform, caching the result
func Detect() Platform {
	if detectionDone {
		return detectedPlatform
	}

	detectedPlatform = detectPlatform()
	detectionDone = true
	return detectedPlatform
}

func detectPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMacOS
	case "linux":
		if isWSL() {
			return PlatformWSL
		}
		return PlatformLinux
	default:
		return PlatformUnknown
	}
}

// isWSL checks for WSL signatures. WSL matters here because clipboard
// integration goes through clip.exe instead of xclip/wl-copy.
func isWSL() bool {
	if os.Getenv("WSL_DISTRO_NAME") != "" {
		return true
	}
	procVersion, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(procVersion)), "microsoft")
}

// String returns a human-readable platform name
func (p Platform) String() string {
	switch p {
	case PlatformMacOS:
		return "macOS"
	case PlatformLinux:
		return "Linux"
	case PlatformWSL:
		return "WSL"
	default:
		return "Unknown"
	}
}

// FirefoxRoot returns the directory holding profiles.ini for the current
// platform. Firefox keeps its profiles under ~/.mozilla/firefox on Linux
// (WSL included) and under Application Support on macOS.
func FirefoxRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch Detect() {
	case PlatformMacOS:
		return filepath.Join(home, "Library", "Application Support", "Firefox"), nil
	default:
		return filepath.Join(home, ".mozilla", "firefox"), nil
	}
}

// DataDir returns the foxmark data directory (~/.foxmark), creating it if
// needed. Config, logs and the favicon cache all live under it.
func DataDir() (string, error) {
	if override := os.Getenv("FOXMARK_HOME"); override != "" {
		if err := os.MkdirAll(override, 0700); err != nil {
			return "", err
		}
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".foxmark")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
