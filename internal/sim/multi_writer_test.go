package sim

import (
	"testing"

	"hetnet-sim/internal/telemetry"
)

type batchCapturingWriter struct {
	rows    []telemetry.AttachmentRow
	batches int
}

func (w *batchCapturingWriter) Write(row telemetry.AttachmentRow) error {
	w.rows = append(w.rows, row)
	return nil
}

func (w *batchCapturingWriter) WriteBatch(rows []telemetry.AttachmentRow) error {
	w.batches++
	w.rows = append(w.rows, rows...)
	return nil
}

func TestMultiWriter_FansOutToAllWriters(t *testing.T) {
	a := &MockWriter{}
	b := &MockWriter{}
	mw := NewMultiWriter([]AttachmentWriter{a, b}, nil, nil)

	if err := mw.Write(sampleRow(1)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(a.Rows) != 1 || len(b.Rows) != 1 {
		t.Errorf("fan-out failed: %d, %d rows", len(a.Rows), len(b.Rows))
	}
}

func TestMultiWriter_UsesBatchWhenSupported(t *testing.T) {
	plain := &MockWriter{}
	batch := &batchCapturingWriter{}
	mw := NewMultiWriter([]AttachmentWriter{plain, batch}, nil, nil)

	rows := []telemetry.AttachmentRow{sampleRow(1), sampleRow(2)}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(plain.Rows) != 2 {
		t.Errorf("plain writer got %d rows, want 2", len(plain.Rows))
	}
	if batch.batches != 1 || len(batch.rows) != 2 {
		t.Errorf("batch writer got %d batches with %d rows, want 1/2", batch.batches, len(batch.rows))
	}
}

func TestMultiWriter_MigrationAndState(t *testing.T) {
	mig := &MockMigrationWriter{}
	state := &MockStateWriter{}
	mw := NewMultiWriter(nil, []MigrationWriter{mig}, []StateWriter{state})

	if err := mw.WriteMigrations([]telemetry.MigrationRow{{TerminalID: "ue-1"}, {TerminalID: "ue-2"}}); err != nil {
		t.Fatalf("WriteMigrations: %v", err)
	}
	if len(mig.Migrations) != 2 {
		t.Errorf("migration writer got %d rows, want 2", len(mig.Migrations))
	}
	if err := mw.WriteState(telemetry.TickStateRow{Tick: 1}); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	if len(state.States) != 1 {
		t.Errorf("state writer got %d rows, want 1", len(state.States))
	}
}
