package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hetnet-sim/internal/telemetry"
)

// JSONStdoutWriter prints attachment, migration, and state rows as JSON lines.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs an attachment row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.AttachmentRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple attachment rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.AttachmentRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteMigration outputs a migration event in JSON format.
func (w *JSONStdoutWriter) WriteMigration(m telemetry.MigrationRow) error {
	data, _ := json.Marshal(m)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteMigrations outputs multiple migration events in JSON format.
func (w *JSONStdoutWriter) WriteMigrations(rows []telemetry.MigrationRow) error {
	for _, m := range rows {
		_ = w.WriteMigration(m)
	}
	return nil
}

// WriteState outputs a tick state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.TickStateRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}
