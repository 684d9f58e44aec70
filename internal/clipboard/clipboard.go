// Package clipboard copies text to the system clipboard using whatever the
// platform offers, falling back to the OSC 52 terminal escape sequence.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tomsquest/foxmark/internal/platform"
)

// Copy copies text to the system clipboard and returns the method used
// (e.g. "pbcopy", "xclip", "osc52"). The fallback chain is: native
// clipboard tool, then OSC 52.
func Copy(text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("no content to copy")
	}

	method, err := copyNative(text)
	if err == nil {
		return method, nil
	}

	if err := copyOSC52(text); err != nil {
		return "", fmt.Errorf("clipboard unavailable (install xclip, xsel or wl-copy): %w", err)
	}
	return "osc52", nil
}

// copyNative attempts a platform-native clipboard command.
func copyNative(text string) (string, error) {
	switch platform.Detect() {
	case platform.PlatformMacOS:
		return "pbcopy", runClipCmd("pbcopy", nil, text)

	case platform.PlatformWSL:
		return "clip.exe", runClipCmd("clip.exe", nil, text)

	case platform.PlatformLinux:
		// Wayland takes priority over X11
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			if path, err := exec.LookPath("wl-copy"); err == nil {
				return "wl-copy", runClipCmd(path, nil, text)
			}
		}
		if path, err := exec.LookPath("xclip"); err == nil {
			return "xclip", runClipCmd(path, []string{"-selection", "clipboard"}, text)
		}
		if path, err := exec.LookPath("xsel"); err == nil {
			return "xsel", runClipCmd(path, []string{"--clipboard", "--input"}, text)
		}
		return "", fmt.Errorf("no clipboard command found on Linux")

	default:
		return "", fmt.Errorf("unsupported platform: %s", platform.Detect())
	}
}

func runClipCmd(name string, args []string, text string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// copyOSC52 writes the OSC 52 escape sequence to the controlling terminal,
// wrapped in a DCS passthrough when running inside tmux.
func copyOSC52(text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	seq := "\x1b]52;c;" + encoded + "\x07"
	if os.Getenv("TMUX") != "" {
		seq = "\x1bPtmux;\x1b" + seq + "\x1b\\"
	}

	// /dev/tty bypasses any stdout redirection
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("cannot open /dev/tty: %w", err)
	}
	defer tty.Close()

	_, err = tty.WriteString(seq)
	return err
}
