// Reporting row structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// AttachmentRow is one terminal's per-tick attachment and energy record.
type AttachmentRow struct {
	RunID           string    `json:"run_id"`      // TAG
	TerminalID      string    `json:"terminal_id"` // TAG
	Tick            int       `json:"tick"`
	CellID          string    `json:"cell_id"` // empty when unattached
	Technology      string    `json:"technology"`
	Distance        float64   `json:"distance_m"`
	Demand          float64   `json:"demand"`
	ProcessingDelta float64   `json:"processing_energy"`
	MigrationDelta  float64   `json:"migration_energy"`
	ProcessingTotal float64   `json:"processing_total"`
	MigrationTotal  float64   `json:"migration_total"`
	Degraded        bool      `json:"degraded"` // no capacity available this tick
	Timestamp       time.Time `json:"ts"`       // TIME INDEX
}

// MigrationRow is one serving-cell change, written only on ticks where the
// attachment record actually changed.
type MigrationRow struct {
	RunID      string    `json:"run_id"`
	TerminalID string    `json:"terminal_id"`
	Tick       int       `json:"tick"`
	FromCell   string    `json:"from_cell"`
	ToCell     string    `json:"to_cell"`
	DataVolume float64   `json:"data_volume"`
	Energy     float64   `json:"energy"`
	Timestamp  time.Time `json:"ts"`
}

// TickStateRow captures aggregate per-tick simulator state.
type TickStateRow struct {
	RunID       string    `json:"run_id"`
	Tick        int       `json:"tick"`
	Attached    int       `json:"attached"`
	Unattached  int       `json:"unattached"`
	Migrations  int       `json:"migrations"`
	TotalEnergy float64   `json:"total_energy"`
	SurgeMode   bool      `json:"surge_mode"`
	Timestamp   time.Time `json:"ts"`
}

// AttachmentTableName holds the table name used when writing attachment rows
// to GreptimeDB. It defaults to "cell_attachment" but can be overridden via
// the GREPTIMEDB_TABLE environment variable.
var AttachmentTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "cell_attachment"
}()

// MigrationTableName is the GreptimeDB table for migration rows.
var MigrationTableName = func() string {
	if env := os.Getenv("MIGRATION_TABLE"); env != "" {
		return env
	}
	return "cell_migration"
}()

// TickStateTableName is the GreptimeDB table for tick-state rows.
var TickStateTableName = func() string {
	if env := os.Getenv("TICK_STATE_TABLE"); env != "" {
		return env
	}
	return "simulation_state"
}()

func (AttachmentRow) TableName() string { return AttachmentTableName }
func (MigrationRow) TableName() string  { return MigrationTableName }
func (TickStateRow) TableName() string  { return TickStateTableName }
