// Package testutil provides testing utilities for tessel tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path. The test fails if the file cannot be written.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteConfig writes a tessel config file logging at debug level into
// dir/logs and returns the config path and the log directory.
func WriteConfig(t *testing.T, dir string) (cfgPath, logDir string) {
	t.Helper()

	logDir = filepath.Join(dir, "logs")
	cfgPath = WriteFile(t, dir, "config.yaml", "logging:\n  level: debug\n  dir: "+logDir+"\n")
	return cfgPath, logDir
}

// Receive waits up to timeout for a value on ch.
func Receive[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		t.Fatalf("nothing received within %v", timeout)
		var zero T
		return zero
	}
}
