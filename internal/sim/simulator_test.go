package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"hetnet-sim/internal/attach"
	"hetnet-sim/internal/config"
	"hetnet-sim/internal/energy"
	"hetnet-sim/internal/telemetry"
	"hetnet-sim/internal/topology"
)

// MockWriter collects attachment rows for validation
type MockWriter struct {
	Rows []telemetry.AttachmentRow
}

func (w *MockWriter) Write(row telemetry.AttachmentRow) error {
	w.Rows = append(w.Rows, row)
	return nil
}

type MockMigrationWriter struct {
	Migrations []telemetry.MigrationRow
}

func (w *MockMigrationWriter) WriteMigration(m telemetry.MigrationRow) error {
	w.Migrations = append(w.Migrations, m)
	return nil
}

type MockStateWriter struct {
	States []telemetry.TickStateRow
}

func (w *MockStateWriter) WriteState(row telemetry.TickStateRow) error {
	w.States = append(w.States, row)
	return nil
}

// staticStepper leaves the topology untouched, pinning positions and workload.
type staticStepper struct{}

func (staticStepper) Step(*topology.Store) error { return nil }

func testConfig() *config.SimulationConfig {
	return &config.SimulationConfig{
		Arena:        config.Arena{WidthM: 100, HeightM: 100},
		Technologies: []config.Technology{{Name: "dense", Cells: 2, Capacity: 5}},
		Terminals:    []config.TerminalGroup{{Name: "ue", Count: 1, SpeedMaxMps: 1, DemandMin: 4, DemandMax: 4, DataVolumeMin: 10, DataVolumeMax: 10}},
		Energy:       config.Energy{StaticPower: 50, DynamicPower: 20, Alpha: 0.5, Beta: 10, TickSeconds: 1},
		Ticks:        2,
		EpsilonM:     0.001,
		SurgeFactor:  2,
		Seed:         1,
	}
}

// exampleSimulator builds the fixed two-cell scenario by hand: one terminal
// at the origin, cell a at (10,0) and cell b at (1,0), both capacity 5.
func exampleSimulator(t *testing.T, writer AttachmentWriter, migWriter MigrationWriter, stateWriter StateWriter) *Simulator {
	t.Helper()
	cfg := testConfig()
	eng, err := energy.NewEngine(energy.Params{StaticPower: 50, DynamicPower: 20, Alpha: 0.5, Beta: 10, TickSeconds: 1})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	store := topology.NewStore()
	if err := store.AddCell(&topology.Cell{ID: "cell-a", Technology: "dense", Position: topology.Position{X: 10, Y: 0}, Capacity: 5}); err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := store.AddCell(&topology.Cell{ID: "cell-b", Technology: "dense", Position: topology.Position{X: 1, Y: 0}, Capacity: 5}); err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := store.AddTerminal(&topology.Terminal{ID: "ue-1", Group: "ue", Position: topology.Position{X: 0, Y: 0}, Demand: 4, DataVolume: 10}); err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	return &Simulator{
		runID:       "run-test",
		cfg:         cfg,
		store:       store,
		mobility:    staticStepper{},
		workload:    staticStepper{},
		resolver:    attach.NewResolver(cfg.EpsilonM, cfg.TechPriority()),
		tracker:     attach.NewTracker(),
		engine:      eng,
		writer:      writer,
		migWriter:   migWriter,
		stateWriter: stateWriter,
		now:         func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestStep_ExampleScenario(t *testing.T) {
	writer := &MockWriter{}
	migWriter := &MockMigrationWriter{}
	stateWriter := &MockStateWriter{}
	s := exampleSimulator(t, writer, migWriter, stateWriter)
	ctx := context.Background()

	// Tick 1: resolves to cell-b (distance 1 < 10); first attachment is a
	// migration from unattached.
	if err := s.step(ctx); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(writer.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(writer.Rows))
	}
	row := writer.Rows[0]
	if row.CellID != "cell-b" {
		t.Errorf("tick 1 cell = %q, want cell-b", row.CellID)
	}
	if math.Abs(row.ProcessingDelta-66) > 1e-9 {
		t.Errorf("tick 1 processing = %v, want 66", row.ProcessingDelta)
	}
	if math.Abs(row.MigrationDelta-15) > 1e-9 {
		t.Errorf("tick 1 migration = %v, want 15", row.MigrationDelta)
	}
	if len(migWriter.Migrations) != 1 {
		t.Fatalf("expected 1 migration event, got %d", len(migWriter.Migrations))
	}
	if ev := migWriter.Migrations[0]; ev.FromCell != "" || ev.ToCell != "cell-b" {
		t.Errorf("unexpected migration: %+v", ev)
	}

	// Tick 2: terminal unmoved, same cell, no migration.
	if err := s.step(ctx); err != nil {
		t.Fatalf("step: %v", err)
	}
	row = writer.Rows[1]
	if row.CellID != "cell-b" {
		t.Errorf("tick 2 cell = %q, want cell-b", row.CellID)
	}
	if math.Abs(row.ProcessingDelta-66) > 1e-9 {
		t.Errorf("tick 2 processing = %v, want 66", row.ProcessingDelta)
	}
	if row.MigrationDelta != 0 {
		t.Errorf("tick 2 migration = %v, want 0", row.MigrationDelta)
	}
	if len(migWriter.Migrations) != 1 {
		t.Errorf("tick 2 produced a spurious migration event")
	}
	if math.Abs(row.ProcessingTotal-132) > 1e-9 || math.Abs(row.MigrationTotal-15) > 1e-9 {
		t.Errorf("totals = (%v, %v), want (132, 15)", row.ProcessingTotal, row.MigrationTotal)
	}

	if len(stateWriter.States) != 2 {
		t.Fatalf("expected 2 state rows, got %d", len(stateWriter.States))
	}
	st := stateWriter.States[1]
	if st.Attached != 1 || st.Unattached != 0 || st.Migrations != 0 {
		t.Errorf("tick 2 state = %+v", st)
	}
}

func TestStep_NoCapacityMarksDegraded(t *testing.T) {
	writer := &MockWriter{}
	s := exampleSimulator(t, writer, nil, nil)
	term, _ := s.store.Terminal("ue-1")
	term.Demand = 50 // exceeds both cells

	if err := s.step(context.Background()); err != nil {
		t.Fatalf("step: %v", err)
	}
	row := writer.Rows[0]
	if !row.Degraded || row.CellID != "" {
		t.Errorf("expected degraded unattached row, got %+v", row)
	}
	if row.ProcessingDelta != 0 {
		t.Errorf("unattached terminal accrued processing energy %v", row.ProcessingDelta)
	}
	if st := s.TickState(); st.Unattached != 1 {
		t.Errorf("state unattached = %d, want 1", st.Unattached)
	}
}

func TestStep_ReplayIsIdempotent(t *testing.T) {
	run := func() []telemetry.AttachmentRow {
		writer := &MockWriter{}
		s := exampleSimulator(t, writer, nil, nil)
		for i := 0; i < 3; i++ {
			if err := s.step(context.Background()); err != nil {
				t.Fatalf("step: %v", err)
			}
		}
		return writer.Rows
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("replay row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("row %d differs after replay: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStep_SurgeModeRaisesDemand(t *testing.T) {
	writer := &MockWriter{}
	s := exampleSimulator(t, writer, nil, nil)
	s.ToggleSurge()

	if err := s.step(context.Background()); err != nil {
		t.Fatalf("step: %v", err)
	}
	// demand 4 * factor 2 = 8 exceeds capacity 5 on both cells
	row := writer.Rows[0]
	if !row.Degraded {
		t.Errorf("surge demand should saturate all cells: %+v", row)
	}
	if !s.TickState().SurgeMode {
		t.Error("state row should carry surge flag")
	}
}

func TestNewSimulator_BuildsTopologyFromConfig(t *testing.T) {
	cfg := testConfig()
	s, err := NewSimulator("run-1", cfg, &MockWriter{}, nil, nil, time.Second, nil, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	cells, terms := s.Topology()
	if len(cells) != 2 {
		t.Errorf("expected 2 cells, got %d", len(cells))
	}
	if len(terms) != 1 {
		t.Errorf("expected 1 terminal, got %d", len(terms))
	}
	for _, c := range cells {
		if c.ID == "" || c.Technology != "dense" {
			t.Errorf("bad cell: %+v", c)
		}
	}
}

func TestNewSimulator_RejectsMalformedConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Energy.TickSeconds = 0
	if _, err := NewSimulator("run-1", cfg, &MockWriter{}, nil, nil, time.Second, nil, nil); err == nil {
		t.Error("expected error for zero tick duration")
	}
}

func TestRun_StopsAfterConfiguredTicks(t *testing.T) {
	cfg := testConfig()
	cfg.Ticks = 3
	writer := &MockWriter{}
	s, err := NewSimulator("run-1", cfg, writer, nil, nil, time.Millisecond, staticStepper{}, staticStepper{})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s.Tick(); got != 3 {
		t.Errorf("completed ticks = %d, want 3", got)
	}
}

func TestAddTerminals(t *testing.T) {
	cfg := testConfig()
	s, err := NewSimulator("run-1", cfg, &MockWriter{}, nil, nil, time.Second, nil, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := s.AddTerminals("ue", 2); err != nil {
		t.Fatalf("AddTerminals: %v", err)
	}
	_, terms := s.Topology()
	if len(terms) != 3 {
		t.Errorf("expected 3 terminals, got %d", len(terms))
	}
	if err := s.AddTerminals("ghost", 1); err == nil {
		t.Error("expected error for unknown group")
	}
}
