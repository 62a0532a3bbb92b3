package sim

import "hetnet-sim/internal/telemetry"

// StateWriter handles per-tick simulation state rows.
type StateWriter interface {
	WriteState(telemetry.TickStateRow) error
}

// Optional: writers may support batch mode for state rows.
type batchStateWriter interface {
	WriteStates([]telemetry.TickStateRow) error
}
