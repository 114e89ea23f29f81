package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"proxyswitch/internal/logger"
)

func TestInit_LogFile(t *testing.T) {
	prev := logger.Log
	t.Cleanup(func() { logger.Log = prev })

	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	logger.Init(false, path)
	logger.Log.Debug("hidden")
	logger.Log.Info("switched profile")
	logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(raw)
	if strings.Contains(out, "stale") || strings.Contains(out, "hidden") {
		t.Errorf("log file should be truncated and info-level: %q", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "switched profile") {
		t.Errorf("missing entry: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("file output must not carry color codes: %q", out)
	}
}
