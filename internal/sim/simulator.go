// Simulator orchestrating attachment resolution and energy accounting ticks
package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hetnet-sim/internal/attach"
	"hetnet-sim/internal/config"
	"hetnet-sim/internal/energy"
	"hetnet-sim/internal/mobility"
	"hetnet-sim/internal/telemetry"
	"hetnet-sim/internal/topology"

	"github.com/google/uuid"
)

// AttachmentWriter is an interface to support different output writers.
type AttachmentWriter interface {
	Write(telemetry.AttachmentRow) error
}

// MigrationWriter handles serving-cell change events.
type MigrationWriter interface {
	WriteMigration(telemetry.MigrationRow) error
}

// Optional: writers may support batch mode
type batchAttachmentWriter interface {
	WriteBatch([]telemetry.AttachmentRow) error
}

// Optional: migration writers may support batch mode
type batchMigrationWriter interface {
	WriteMigrations([]telemetry.MigrationRow) error
}

// Mobility advances external per-tick terminal state (positions or workload)
// in the topology store.
type Mobility interface {
	Step(*topology.Store) error
}

// Simulator drives the per-tick pipeline: mobility, attachment resolution,
// migration tracking, energy accounting, reporting.
type Simulator struct {
	runID        string
	cfg          *config.SimulationConfig
	store        *topology.Store
	mobility     Mobility
	workload     Mobility
	resolver     *attach.Resolver
	tracker      *attach.Tracker
	engine       *energy.Engine
	writer       AttachmentWriter
	migWriter    MigrationWriter
	stateWriter  StateWriter
	tickInterval time.Duration
	tick         int
	surgeMode    bool
	lastState    telemetry.TickStateRow
	mu           sync.Mutex
	now          func() time.Time
	rand         *rand.Rand
}

// NewSimulator builds the topology from config and wires the pipeline.
// mob and workload may be nil, which installs the default random-walk and
// workload-jitter collaborators.
func NewSimulator(runID string, cfg *config.SimulationConfig, writer AttachmentWriter, migWriter MigrationWriter, stateWriter StateWriter, tickInterval time.Duration, mob, workload Mobility) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	engine, err := energy.NewEngine(energy.Params{
		StaticPower:  cfg.Energy.StaticPower,
		DynamicPower: cfg.Energy.DynamicPower,
		Alpha:        cfg.Energy.Alpha,
		Beta:         cfg.Energy.Beta,
		TickSeconds:  cfg.Energy.TickSeconds,
	})
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	arena := mobility.Arena{Width: cfg.Arena.WidthM, Height: cfg.Arena.HeightM}

	store := topology.NewStore()
	for _, tech := range cfg.Technologies {
		for i := 0; i < tech.Cells; i++ {
			cell := &topology.Cell{
				ID:         generateID(tech.Name, i),
				Technology: tech.Name,
				Position:   mobility.RandomPosition(rng, arena),
				Capacity:   tech.Capacity,
			}
			if err := store.AddCell(cell); err != nil {
				return nil, err
			}
		}
	}
	profiles := make(map[string]mobility.Profile, len(cfg.Terminals))
	for _, group := range cfg.Terminals {
		profiles[group.Name] = mobility.Profile{
			SpeedMin:      group.SpeedMinMps,
			SpeedMax:      group.SpeedMaxMps,
			DemandMin:     group.DemandMin,
			DemandMax:     group.DemandMax,
			DataVolumeMin: group.DataVolumeMin,
			DataVolumeMax: group.DataVolumeMax,
		}
		for i := 0; i < group.Count; i++ {
			term := &topology.Terminal{
				ID:         generateID(group.Name, i),
				Group:      group.Name,
				Position:   mobility.RandomPosition(rng, arena),
				Demand:     group.DemandMin,
				DataVolume: group.DataVolumeMin,
			}
			if err := store.AddTerminal(term); err != nil {
				return nil, err
			}
		}
	}

	if mob == nil {
		mob = mobility.NewRandomWalk(arena, profiles, cfg.Energy.TickSeconds, rng)
	}
	if workload == nil {
		workload = mobility.NewWorkloadJitter(profiles, rng)
	}

	return &Simulator{
		runID:        runID,
		cfg:          cfg,
		store:        store,
		mobility:     mob,
		workload:     workload,
		resolver:     attach.NewResolver(cfg.EpsilonM, cfg.TechPriority()),
		tracker:      attach.NewTracker(),
		engine:       engine,
		writer:       writer,
		migWriter:    migWriter,
		stateWriter:  stateWriter,
		tickInterval: tickInterval,
		now:          time.Now,
		rand:         rng,
	}, nil
}

// Tick returns the number of completed ticks.
func (s *Simulator) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// ToggleSurge flips demand-surge mode on or off and returns the new state.
// Surge multiplies every terminal's demand, forcing capacity pressure and
// migrations.
func (s *Simulator) ToggleSurge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surgeMode = !s.surgeMode
	return s.surgeMode
}

// Surge returns whether demand-surge mode is active.
func (s *Simulator) Surge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surgeMode
}

// AddTerminals spawns additional terminals of an existing group at runtime.
func (s *Simulator) AddTerminals(group string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cfgGroup *config.TerminalGroup
	for i := range s.cfg.Terminals {
		if s.cfg.Terminals[i].Name == group {
			cfgGroup = &s.cfg.Terminals[i]
			break
		}
	}
	if cfgGroup == nil {
		return fmt.Errorf("add terminals: unknown group %q", group)
	}
	arena := mobility.Arena{Width: s.cfg.Arena.WidthM, Height: s.cfg.Arena.HeightM}
	for i := 0; i < count; i++ {
		term := &topology.Terminal{
			ID:         generateID(group, cfgGroup.Count+i),
			Group:      group,
			Position:   mobility.RandomPosition(s.rand, arena),
			Demand:     cfgGroup.DemandMin,
			DataVolume: cfgGroup.DataVolumeMin,
		}
		if err := s.store.AddTerminal(term); err != nil {
			return err
		}
	}
	cfgGroup.Count += count
	return nil
}

// GroupHealth summarizes attachment state per terminal group.
type GroupHealth struct {
	Group    string `json:"group"`
	Total    int    `json:"total"`
	Attached int    `json:"attached"`
	Degraded int    `json:"degraded"`
}

// Health returns aggregated attachment health for all terminal groups.
func (s *Simulator) Health() []GroupHealth {
	s.mu.Lock()
	defer s.mu.Unlock()
	byGroup := make(map[string]*GroupHealth)
	var order []string
	for _, term := range s.store.Terminals() {
		h := byGroup[term.Group]
		if h == nil {
			h = &GroupHealth{Group: term.Group}
			byGroup[term.Group] = h
			order = append(order, term.Group)
		}
		h.Total++
		if s.tracker.Record(term.ID) != attach.NoCell {
			h.Attached++
		} else if s.tick > 0 {
			h.Degraded++
		}
	}
	result := make([]GroupHealth, 0, len(order))
	for _, g := range order {
		result = append(result, *byGroup[g])
	}
	return result
}

// AttachmentSnapshot returns the current terminal -> serving cell map.
func (s *Simulator) AttachmentSnapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Records()
}

// EnergySnapshot returns cumulative per-terminal energy tallies.
func (s *Simulator) EnergySnapshot() map[string]energy.Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// TickState returns the aggregate state row of the last completed tick.
func (s *Simulator) TickState() telemetry.TickStateRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastState
}

// Topology returns copies of all cells and terminals for reporting.
func (s *Simulator) Topology() ([]topology.Cell, []topology.Terminal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cells []topology.Cell
	for _, c := range s.store.Cells() {
		cells = append(cells, *c)
	}
	var terms []topology.Terminal
	for _, t := range s.store.Terminals() {
		terms = append(terms, *t)
	}
	return cells, terms
}

// GetConfig returns the simulation configuration.
func (s *Simulator) GetConfig() *config.SimulationConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func generateID(prefix string, index int) string {
	// Include the index along with a UUID to guarantee uniqueness
	return fmt.Sprintf("%s-%d-%s", prefix, index, uuid.New().String())
}
