package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMain_BuildErrorIsLoggedAndReturned(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "leadbot.log")

	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GOOGLE_CX", "cx")
	t.Setenv("DORK_PATTERNS_FILE", filepath.Join(dir, "missing.yaml"))
	t.Setenv("LOG_FILE", logFile)

	if code := runMain(); code != 1 {
		t.Fatalf("runMain() = %d, want 1", code)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "leadbot stopped with error") {
		t.Errorf("log file misses the stop error:\n%s", data)
	}
	if !strings.Contains(string(data), "read dork catalog") {
		t.Errorf("log file misses the cause:\n%s", data)
	}
}
