package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToLogFile(t *testing.T) {
	dir := t.TempDir()

	Init(Config{LogDir: dir, Level: "debug", Format: "text"})
	defer Shutdown()

	Logger().Info("hello", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, "foxmark.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestForComponentBindsLate(t *testing.T) {
	// component logger created before Init must still reach the real handler
	log := ForComponent(CompIndex)

	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "info", Format: "json"})
	defer Shutdown()

	log.Info("late_bound")

	data, err := os.ReadFile(filepath.Join(dir, "foxmark.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "late_bound") {
		t.Errorf("missing message: %s", out)
	}
	if !strings.Contains(out, `"component":"index"`) {
		t.Errorf("missing component attr: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()

	Init(Config{LogDir: dir, Level: "warn", Format: "text"})
	defer Shutdown()

	Logger().Info("quiet")
	Logger().Warn("loud")

	data, _ := os.ReadFile(filepath.Join(dir, "foxmark.log"))
	out := string(data)
	if strings.Contains(out, "quiet") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn message should be logged")
	}
}

func TestLoggerBeforeInit(t *testing.T) {
	Shutdown()
	// must not panic, logs are discarded
	Logger().Info("into the void")
	ForComponent(CompReader).Debug("also discarded")
}
