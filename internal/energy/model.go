// Processing and migration energy accounting
package energy

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter marks malformed energy-model configuration. Fatal at
// setup time: a scenario must not start with these.
var ErrInvalidParameter = errors.New("invalid energy model parameter")

// Params are the static energy-model coefficients, configured once at setup.
type Params struct {
	StaticPower  float64 // power drawn by a serving cell regardless of load
	DynamicPower float64 // power per unit of load ratio (demand/capacity)
	Alpha        float64 // migration energy per unit of migrated data
	Beta         float64 // fixed overhead per migration event
	TickSeconds  float64 // tick duration T
}

// Validate checks the coefficients. Power and migration coefficients may be
// zero but never negative; the tick duration must be strictly positive.
func (p Params) Validate() error {
	if p.StaticPower < 0 {
		return fmt.Errorf("%w: static power %v", ErrInvalidParameter, p.StaticPower)
	}
	if p.DynamicPower < 0 {
		return fmt.Errorf("%w: dynamic power %v", ErrInvalidParameter, p.DynamicPower)
	}
	if p.Alpha < 0 {
		return fmt.Errorf("%w: alpha %v", ErrInvalidParameter, p.Alpha)
	}
	if p.Beta < 0 {
		return fmt.Errorf("%w: beta %v", ErrInvalidParameter, p.Beta)
	}
	if p.TickSeconds <= 0 {
		return fmt.Errorf("%w: tick duration %v", ErrInvalidParameter, p.TickSeconds)
	}
	return nil
}

// Tally accumulates a terminal's energy across all completed ticks.
type Tally struct {
	Processing float64 `json:"processing"`
	Migration  float64 `json:"migration"`
}

// Total returns the combined processing and migration energy.
func (t Tally) Total() float64 {
	return t.Processing + t.Migration
}

// Engine computes per-tick energy figures and keeps running totals. It is a
// deterministic function of its inputs; invalid inputs are errors, never
// clamped.
type Engine struct {
	params  Params
	tallies map[string]*Tally
}

// NewEngine validates the parameters and returns an accounting engine.
func NewEngine(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params, tallies: make(map[string]*Tally)}, nil
}

// Params returns the configured model parameters.
func (e *Engine) Params() Params {
	return e.params
}

// AccountTick charges one tick of energy for a terminal and returns the
// deltas. capacity is the serving cell's capacity; attached=false means the
// terminal is unattached this tick and accrues zero processing energy.
// migrated charges the migration term alpha*dataVolume+beta, which is an
// instantaneous event and not scaled by the tick duration.
func (e *Engine) AccountTick(terminalID string, demand, dataVolume, capacity float64, attached, migrated bool) (processing, migration float64, err error) {
	if demand < 0 {
		return 0, 0, fmt.Errorf("%w: negative demand %v for terminal %q", ErrInvalidParameter, demand, terminalID)
	}
	if dataVolume < 0 {
		return 0, 0, fmt.Errorf("%w: negative data volume %v for terminal %q", ErrInvalidParameter, dataVolume, terminalID)
	}
	if attached {
		if capacity <= 0 {
			return 0, 0, fmt.Errorf("%w: non-positive capacity %v serving terminal %q", ErrInvalidParameter, capacity, terminalID)
		}
		processing = (e.params.StaticPower + e.params.DynamicPower*(demand/capacity)) * e.params.TickSeconds
	}
	if migrated {
		migration = e.params.Alpha*dataVolume + e.params.Beta
	}

	tally := e.tallies[terminalID]
	if tally == nil {
		tally = &Tally{}
		e.tallies[terminalID] = tally
	}
	tally.Processing += processing
	tally.Migration += migration
	return processing, migration, nil
}

// Tally returns the cumulative energy for one terminal.
func (e *Engine) Tally(terminalID string) Tally {
	if t, ok := e.tallies[terminalID]; ok {
		return *t
	}
	return Tally{}
}

// Snapshot returns a copy of all cumulative tallies.
func (e *Engine) Snapshot() map[string]Tally {
	out := make(map[string]Tally, len(e.tallies))
	for id, t := range e.tallies {
		out[id] = *t
	}
	return out
}

// Reset zeroes all tallies.
func (e *Engine) Reset() {
	e.tallies = make(map[string]*Tally)
}
