package sim

import "hetnet-sim/internal/telemetry"

// MultiWriter fans out attachment, migration, and state rows to multiple
// writers.
type MultiWriter struct {
	attachWriters []AttachmentWriter
	migWriters    []MigrationWriter
	stateWriters  []StateWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(aws []AttachmentWriter, mws []MigrationWriter, sws []StateWriter) *MultiWriter {
	return &MultiWriter{attachWriters: aws, migWriters: mws, stateWriters: sws}
}

// Write sends an attachment row to all writers.
func (mw *MultiWriter) Write(row telemetry.AttachmentRow) error {
	for _, w := range mw.attachWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple attachment rows to all writers, using batch if
// supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.AttachmentRow) error {
	for _, w := range mw.attachWriters {
		if bw, ok := w.(batchAttachmentWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteMigration sends a migration row to all migration writers.
func (mw *MultiWriter) WriteMigration(row telemetry.MigrationRow) error {
	for _, w := range mw.migWriters {
		if err := w.WriteMigration(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteMigrations sends multiple migrations to all migration writers, using
// batch if supported.
func (mw *MultiWriter) WriteMigrations(rows []telemetry.MigrationRow) error {
	for _, w := range mw.migWriters {
		if bw, ok := w.(batchMigrationWriter); ok {
			if err := bw.WriteMigrations(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteMigration(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteState sends a tick state row to all state writers.
func (mw *MultiWriter) WriteState(row telemetry.TickStateRow) error {
	for _, w := range mw.stateWriters {
		if err := w.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteStates sends multiple state rows to all state writers, using batch if
// supported.
func (mw *MultiWriter) WriteStates(rows []telemetry.TickStateRow) error {
	for _, w := range mw.stateWriters {
		if bw, ok := w.(batchStateWriter); ok {
			if err := bw.WriteStates(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteState(r); err != nil {
				return err
			}
		}
	}
	return nil
}
