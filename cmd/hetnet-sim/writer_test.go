package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hetnet-sim/internal/sim"
	"hetnet-sim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	aw, mw, sw, cleanup, err := newWriters(nil, true, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := aw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", aw)
	}
	if _, ok := mw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected migration writer *sim.JSONStdoutWriter, got %T", mw)
	}
	if _, ok := sw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected state writer *sim.JSONStdoutWriter, got %T", sw)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	aw, _, _, cleanup, err := newWriters(nil, false, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := aw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", aw)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attachments.log")
	aw, mw, sw, cleanup, err := newWriters(nil, true, false, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := aw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", aw)
	}
	if _, ok := mw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected migration writer *sim.MultiWriter, got %T", mw)
	}

	row := telemetry.AttachmentRow{RunID: "run-01", TerminalID: "t1", Tick: 1, CellID: "c1", Timestamp: time.Now()}
	if err := aw.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	st := telemetry.TickStateRow{RunID: "run-01", Tick: 1, Attached: 1, TotalEnergy: 66, Timestamp: time.Now()}
	if err := sw.WriteState(st); err != nil {
		t.Fatalf("write state failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
	stateInfo, err := os.Stat(path + ".state")
	if err != nil {
		t.Fatalf("stat state failed: %v", err)
	}
	if stateInfo.Size() == 0 {
		t.Fatalf("expected state file to be non-empty")
	}
}

func TestNewAttachmentWriterPrintOnly(t *testing.T) {
	w, err := newAttachmentWriter(true)
	if err != nil {
		t.Fatalf("newAttachmentWriter returned error: %v", err)
	}
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}
