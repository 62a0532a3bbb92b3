package sim

import (
	"encoding/json"
	"os"

	"hetnet-sim/internal/telemetry"
)

// FileWriter writes attachment, migration, and state rows to JSONL files.
type FileWriter struct {
	attachFile *os.File
	migFile    *os.File
	stateFile  *os.File
	attachEnc  *json.Encoder
	migEnc     *json.Encoder
	stateEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. migrationPath or statePath may be empty
// to skip those logs.
func NewFileWriter(attachmentPath, migrationPath, statePath string) (*FileWriter, error) {
	af, err := os.Create(attachmentPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{attachFile: af, attachEnc: json.NewEncoder(af)}
	if migrationPath != "" {
		mf, err := os.Create(migrationPath)
		if err != nil {
			af.Close()
			return nil, err
		}
		fw.migFile = mf
		fw.migEnc = json.NewEncoder(mf)
	}
	if statePath != "" {
		sf, err := os.Create(statePath)
		if err != nil {
			if fw.migFile != nil {
				fw.migFile.Close()
			}
			af.Close()
			return nil, err
		}
		fw.stateFile = sf
		fw.stateEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// Write logs a single attachment row.
func (f *FileWriter) Write(row telemetry.AttachmentRow) error {
	return f.attachEnc.Encode(row)
}

// WriteBatch logs multiple attachment rows.
func (f *FileWriter) WriteBatch(rows []telemetry.AttachmentRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteMigration logs a single migration row, if enabled.
func (f *FileWriter) WriteMigration(m telemetry.MigrationRow) error {
	if f.migEnc == nil {
		return nil
	}
	return f.migEnc.Encode(m)
}

// WriteMigrations logs multiple migration rows.
func (f *FileWriter) WriteMigrations(rows []telemetry.MigrationRow) error {
	for _, m := range rows {
		if err := f.WriteMigration(m); err != nil {
			return err
		}
	}
	return nil
}

// WriteState logs a tick state row, if enabled.
func (f *FileWriter) WriteState(row telemetry.TickStateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// WriteStates logs multiple tick state rows.
func (f *FileWriter) WriteStates(rows []telemetry.TickStateRow) error {
	for _, r := range rows {
		if err := f.WriteState(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.attachFile != nil {
		if e := f.attachFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.migFile != nil {
		if e := f.migFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
