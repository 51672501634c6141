package replay_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/backend/replay"
)

func writeRecording(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReplayServesRecordingsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "01-first.json", `{"counts": {"00": 600, "11": 400}, "shots": 1000}`)
	writeRecording(t, dir, "02-second.json", `{"counts": {"01": 10}}`)

	a, err := replay.Open(dir, 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.QubitCount() != 2 {
		t.Errorf("QubitCount: got %d, want 2", a.QubitCount())
	}
	if a.Remaining() != 2 {
		t.Errorf("Remaining: got %d, want 2", a.Remaining())
	}

	prog, err := a.NewProgram(2, 2)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	first, err := a.Run(context.Background(), prog, 1000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first.Counts["00"] != 600 || first.Shots != 1000 {
		t.Errorf("first recording: got %+v", first)
	}

	second, err := a.Run(context.Background(), prog, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Without an explicit shots field the counts total is used.
	if second.Shots != 10 || second.Counts["01"] != 10 {
		t.Errorf("second recording: got %+v", second)
	}
}

func TestCountsFileTotalShots(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "explicit.json", `{"counts": {"00": 600, "11": 300}, "shots": 1000}`)
	writeRecording(t, dir, "implicit.json", `{"counts": {"010": 900, "101": 900, "000": 200}}`)

	explicit, err := replay.LoadCountsFile(filepath.Join(dir, "explicit.json"))
	if err != nil {
		t.Fatalf("LoadCountsFile: %v", err)
	}
	if got := explicit.TotalShots(); got != 1000 {
		t.Errorf("explicit shots: got %d, want 1000", got)
	}

	// A recording without a shots field falls back to the counts total,
	// so downstream scoring never sees a zero denominator.
	implicit, err := replay.LoadCountsFile(filepath.Join(dir, "implicit.json"))
	if err != nil {
		t.Fatalf("LoadCountsFile: %v", err)
	}
	if got := implicit.TotalShots(); got != 2000 {
		t.Errorf("implicit shots: got %d, want 2000", got)
	}
}

func TestReplayExhaustionIsExecutionError(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "only.json", `{"counts": {"0": 5}}`)

	a, err := replay.Open(dir, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	prog, _ := a.NewProgram(1, 1)
	if _, err := a.Run(context.Background(), prog, 5); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, err = a.Run(context.Background(), prog, 5)
	var execErr *backend.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("got %v, want *backend.ExecutionError", err)
	}
}

func TestReplayRejectsEmptyDirAndBadFiles(t *testing.T) {
	if _, err := replay.Open(t.TempDir(), 1); err == nil {
		t.Error("expected error for empty dir")
	}

	dir := t.TempDir()
	writeRecording(t, dir, "bad.json", `{"counts": {}}`)
	if _, err := replay.Open(dir, 1); err == nil {
		t.Error("expected error for empty counts")
	}
}

func TestReplayCoherenceIsIdeal(t *testing.T) {
	dir := t.TempDir()
	writeRecording(t, dir, "r.json", `{"counts": {"00": 1}}`)
	a, err := replay.Open(dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	t1s := a.T1s()
	if len(t1s) != 2 {
		t.Fatalf("T1s: got %d entries", len(t1s))
	}
	for q, v := range t1s {
		if !isInf(v) {
			t.Errorf("qubit %d: T1 = %v, want +Inf", q, v)
		}
	}
}

func isInf(f float64) bool { return f > 1e308 }
