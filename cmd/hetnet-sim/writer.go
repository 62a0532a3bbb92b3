package main

import (
	"os"

	"golang.org/x/term"

	"hetnet-sim/internal/config"
	"hetnet-sim/internal/sim"
)

// newWriters sets up attachment, migration, and state writers based on flags
// and env vars. It returns the writers and a cleanup function to close any
// resources.
func newWriters(cfg *config.SimulationConfig, printOnly, useTUI bool, logFile string) (sim.AttachmentWriter, sim.MigrationWriter, sim.StateWriter, func(), error) {
	cleanup := func() {}

	var (
		writer      sim.AttachmentWriter
		migWriter   sim.MigrationWriter
		stateWriter sim.StateWriter
	)
	if useTUI {
		tw := sim.NewTUIWriter(cfg)
		writer, migWriter, stateWriter = tw, tw, tw
		cleanup = tw.Close
	} else {
		var err error
		writer, migWriter, stateWriter, err = baseWriters(cfg, printOnly)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	if logFile == "" {
		return writer, migWriter, stateWriter, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".migrations", logFile+".state")
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.AttachmentWriter{writer, fw},
		[]sim.MigrationWriter{migWriter, fw},
		[]sim.StateWriter{stateWriter, fw},
	)
	inner := cleanup
	cleanup = func() {
		inner()
		fw.Close()
	}
	return mw, mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on the printOnly flag and
// env vars. On a non-terminal STDOUT the plain JSON writer is used so piped
// output stays machine-readable.
func baseWriters(cfg *config.SimulationConfig, printOnly bool) (sim.AttachmentWriter, sim.MigrationWriter, sim.StateWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			aw, mw := sim.NewStdoutWriters(cfg)
			return aw, mw, aw.(sim.StateWriter), nil
		}
		jw := sim.NewJSONStdoutWriter()
		return jw, jw, jw, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	attachTable := os.Getenv("GREPTIMEDB_TABLE")
	migTable := os.Getenv("MIGRATION_TABLE")
	stateTable := os.Getenv("TICK_STATE_TABLE")
	w, err := sim.NewGreptimeDBWriter(endpoint, "public", attachTable, migTable, stateTable)
	if err != nil {
		return nil, nil, nil, err
	}
	return w, w, w, nil
}

// newAttachmentWriter creates an attachment writer without migration or state
// handling, used by replay.
func newAttachmentWriter(printOnly bool) (sim.AttachmentWriter, error) {
	w, _, _, err := baseWriters(nil, printOnly)
	return w, err
}
