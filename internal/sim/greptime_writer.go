package sim

import (
	"context"
	"errors"
	"log"
	"net"
	"strconv"

	"hetnet-sim/internal/telemetry"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes simulation rows to GreptimeDB via the ingester
// client. Tables are created by the server on first write.
type GreptimeDBWriter struct {
	client    greptimeClient
	attachTbl string
	migTbl    string
	stateTbl  string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. endpoint is
// "host" or "host:port"; table names may be empty to use defaults.
func NewGreptimeDBWriter(endpoint, database, attachTable, migTable, stateTable string) (*GreptimeDBWriter, error) {
	host, port := splitEndpoint(endpoint)
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if attachTable == "" {
		attachTable = telemetry.AttachmentTableName
	}
	if migTable == "" {
		migTable = telemetry.MigrationTableName
	}
	if stateTable == "" {
		stateTable = telemetry.TickStateTableName
	}

	return &GreptimeDBWriter{
		client:    client,
		attachTbl: attachTable,
		migTbl:    migTable,
		stateTbl:  stateTable,
	}, nil
}

// splitEndpoint splits "host:port" into its parts; a bare host is returned
// with port 0 so the client default applies.
func splitEndpoint(endpoint string) (string, int) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return endpoint, 0
	}
	return host, port
}

// Write inserts a single attachment row.
func (w *GreptimeDBWriter) Write(row telemetry.AttachmentRow) error {
	return w.WriteBatch([]telemetry.AttachmentRow{row})
}

// WriteBatch inserts multiple attachment rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.AttachmentRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.attachTbl)
	if err != nil {
		return err
	}
	if err := errors.Join(
		tbl.AddTagColumn("run_id", types.STRING),
		tbl.AddTagColumn("terminal_id", types.STRING),
		tbl.AddFieldColumn("tick", types.INT64),
		tbl.AddFieldColumn("cell_id", types.STRING),
		tbl.AddFieldColumn("technology", types.STRING),
		tbl.AddFieldColumn("distance_m", types.FLOAT64),
		tbl.AddFieldColumn("demand", types.FLOAT64),
		tbl.AddFieldColumn("processing_energy", types.FLOAT64),
		tbl.AddFieldColumn("migration_energy", types.FLOAT64),
		tbl.AddFieldColumn("processing_total", types.FLOAT64),
		tbl.AddFieldColumn("migration_total", types.FLOAT64),
		tbl.AddFieldColumn("degraded", types.BOOLEAN),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.TerminalID, int64(r.Tick), r.CellID, r.Technology,
			r.Distance, r.Demand, r.ProcessingDelta, r.MigrationDelta,
			r.ProcessingTotal, r.MigrationTotal, r.Degraded, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] attachment write failed: %v", err)
		return err
	}
	return nil
}

// WriteMigration inserts a single migration row.
func (w *GreptimeDBWriter) WriteMigration(row telemetry.MigrationRow) error {
	return w.WriteMigrations([]telemetry.MigrationRow{row})
}

// WriteMigrations inserts multiple migration rows.
func (w *GreptimeDBWriter) WriteMigrations(rows []telemetry.MigrationRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.migTbl)
	if err != nil {
		return err
	}
	if err := errors.Join(
		tbl.AddTagColumn("run_id", types.STRING),
		tbl.AddTagColumn("terminal_id", types.STRING),
		tbl.AddFieldColumn("tick", types.INT64),
		tbl.AddFieldColumn("from_cell", types.STRING),
		tbl.AddFieldColumn("to_cell", types.STRING),
		tbl.AddFieldColumn("data_volume", types.FLOAT64),
		tbl.AddFieldColumn("energy", types.FLOAT64),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.TerminalID, int64(r.Tick), r.FromCell, r.ToCell,
			r.DataVolume, r.Energy, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] migration write failed: %v", err)
		return err
	}
	return nil
}

// WriteState inserts a single tick state row.
func (w *GreptimeDBWriter) WriteState(row telemetry.TickStateRow) error {
	return w.WriteStates([]telemetry.TickStateRow{row})
}

// WriteStates inserts multiple tick state rows.
func (w *GreptimeDBWriter) WriteStates(rows []telemetry.TickStateRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.stateTbl)
	if err != nil {
		return err
	}
	if err := errors.Join(
		tbl.AddTagColumn("run_id", types.STRING),
		tbl.AddFieldColumn("tick", types.INT64),
		tbl.AddFieldColumn("attached", types.INT64),
		tbl.AddFieldColumn("unattached", types.INT64),
		tbl.AddFieldColumn("migrations", types.INT64),
		tbl.AddFieldColumn("total_energy", types.FLOAT64),
		tbl.AddFieldColumn("surge_mode", types.BOOLEAN),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, int64(r.Tick), int64(r.Attached), int64(r.Unattached),
			int64(r.Migrations), r.TotalEnergy, r.SurgeMode, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] state write failed: %v", err)
		return err
	}
	return nil
}
