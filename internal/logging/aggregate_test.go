package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLog = `{"time":"2026-01-02T10:00:02Z","level":"WARN","msg":"signal ignored","component":"shell","surface_id":"a","signal":"map"}
not json at all
{"time":"2026-01-02T10:00:01Z","level":"DEBUG","msg":"new toplevel","component":"shell","surface_id":"a","view_id":"v-1"}

{"time":"2026-01-02T10:00:03Z","level":"ERROR","msg":"allocation failed","component":"shell","surface_id":"b"}
`

func TestAggregateLogs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LogFileName), []byte(sampleLog), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := AggregateLogs(dir)
	if err != nil {
		t.Fatalf("AggregateLogs failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "new toplevel" {
		t.Errorf("entries not sorted by time: first = %q", entries[0].Message)
	}
	if entries[0].ViewID != "v-1" || entries[0].SurfaceID != "a" {
		t.Errorf("context fields not parsed: %+v", entries[0])
	}
	if entries[1].Attrs["signal"] != "map" {
		t.Errorf("extra attrs not collected: %+v", entries[1].Attrs)
	}
	if _, ok := entries[1].Attrs["component"]; ok {
		t.Error("standard fields must not be copied into Attrs")
	}
}

func TestAggregateLogs_MissingFile(t *testing.T) {
	if _, err := AggregateLogs(t.TempDir()); err == nil {
		t.Error("expected error for missing debug.log")
	}
}

func TestFilterLogs(t *testing.T) {
	entries, err := ParseLogs(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("ParseLogs failed: %v", err)
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   int
	}{
		{"empty filter", LogFilter{}, 3},
		{"level warn", LogFilter{Level: "warn"}, 2},
		{"surface a", LogFilter{SurfaceID: "a"}, 2},
		{"view", LogFilter{ViewID: "v-1"}, 1},
		{"component", LogFilter{Component: "tree"}, 0},
		{"message", LogFilter{MessageContains: "allocation"}, 1},
		{"combined", LogFilter{SurfaceID: "a", Level: "WARN"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(FilterLogs(entries, tt.filter)); got != tt.want {
				t.Errorf("FilterLogs() returned %d entries, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	entries, err := ParseLogs(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, entries[:2]); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "DEBUG - new toplevel (surface=a, view=v-1, component=shell)") {
		t.Errorf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `{"signal":"map"}`) {
		t.Errorf("attrs missing from second line: %s", lines[1])
	}
}
