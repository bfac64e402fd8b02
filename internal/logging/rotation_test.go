package logging

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRotatingWriter(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

		rw, err := NewRotatingWriter(path, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		defer rw.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("log file not created: %v", err)
		}
		if rw.FilePath() != path {
			t.Errorf("FilePath() = %q, want %q", rw.FilePath(), path)
		}
	})

	t.Run("picks up existing size", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
			t.Fatal(err)
		}

		rw, err := NewRotatingWriter(path, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		defer rw.Close()

		if rw.CurrentSize() != 10 {
			t.Errorf("CurrentSize() = %d, want 10", rw.CurrentSize())
		}
	})
}

func TestRotatingWriterRotation(t *testing.T) {
	t.Run("rotates when size exceeds max", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")

		rw, err := NewRotatingWriter(path, RotationConfig{MaxBackups: 3})
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		rw.maxBytes = 100

		for iter := 0; iter < 5; iter++ {
			_, _ = rw.Write([]byte("this is a test message that will trigger rotation\n"))
		}
		_ = rw.Close()

		if _, err := os.Stat(path + ".1"); os.IsNotExist(err) {
			t.Error("backup file .1 was not created")
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Error("current log file does not exist after rotation")
		}
	})

	t.Run("keeps only MaxBackups files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")

		rw, err := NewRotatingWriter(path, RotationConfig{MaxBackups: 2})
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		rw.maxBytes = 50

		for iter := 0; iter < 10; iter++ {
			_, _ = rw.Write([]byte("this message will trigger rotation\n"))
		}
		_ = rw.Close()

		for _, suffix := range []string{".1", ".2"} {
			if _, err := os.Stat(path + suffix); os.IsNotExist(err) {
				t.Errorf("backup file %s should exist", suffix)
			}
		}
		if _, err := os.Stat(path + ".3"); err == nil {
			t.Error("backup file .3 should not exist")
		}
	})

	t.Run("disabled when max size is zero", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")

		rw, err := NewRotatingWriter(path, RotationConfig{MaxBackups: 3})
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		for iter := 0; iter < 100; iter++ {
			_, _ = rw.Write([]byte("test message that would trigger rotation if enabled\n"))
		}
		_ = rw.Close()

		if _, err := os.Stat(path + ".1"); err == nil {
			t.Error("backup file should not exist when rotation is disabled")
		}
	})
}

func TestRotatingWriterCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(path, RotationConfig{MaxBackups: 2, Compress: true})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	rw.maxBytes = 40

	_, _ = rw.Write([]byte("first line that fills the file up\n"))
	_, _ = rw.Write([]byte("second line forces rotation\n"))
	_ = rw.Close()

	f, err := os.Open(path + ".1.gz")
	if err != nil {
		t.Fatalf("compressed backup missing: %v", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read compressed backup: %v", err)
	}
	if !strings.Contains(string(data), "first line") {
		t.Errorf("compressed backup content = %q", data)
	}
	if _, err := os.Stat(path + ".1"); err == nil {
		t.Error("uncompressed backup should be removed after compression")
	}
}

func TestRotatingWriterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	rw, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	if err := rw.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
	if err := rw.Sync(); err != nil {
		t.Errorf("Sync after Close = %v, want nil", err)
	}
}

func TestNewLoggerWithRotation(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLoggerWithRotation(dir, LevelDebug, RotationConfig{MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("NewLoggerWithRotation failed: %v", err)
	}
	logger.WithSurface("s-1").Debug("hello")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	lines := readLines(t, filepath.Join(dir, LogFileName))
	if len(lines) != 1 || lines[0]["surface_id"] != "s-1" {
		t.Errorf("unexpected log content: %v", lines)
	}
}

func TestDefaultRotationConfig(t *testing.T) {
	rc := DefaultRotationConfig()
	if rc.MaxSizeMB != 10 || rc.MaxBackups != 3 || rc.Compress {
		t.Errorf("DefaultRotationConfig() = %+v", rc)
	}
}
