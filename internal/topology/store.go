package topology

import (
	"fmt"
	"sort"
)

// Store holds the current positions and identities of all cells and terminals
// for the current tick. It is owned by the scenario driver and passed by
// handle to the resolver and the reporting layer.
type Store struct {
	cells     map[string]*Cell
	terminals map[string]*Terminal

	cellOrder     []string
	terminalOrder []string
}

// NewStore returns an empty topology store.
func NewStore() *Store {
	return &Store{
		cells:     make(map[string]*Cell),
		terminals: make(map[string]*Terminal),
	}
}

// AddCell registers a cell at setup time.
func (s *Store) AddCell(c *Cell) error {
	if c.ID == "" {
		return fmt.Errorf("add cell: empty id")
	}
	if _, ok := s.cells[c.ID]; ok {
		return fmt.Errorf("add cell: duplicate id %q", c.ID)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("add cell %q: capacity must be positive, got %v", c.ID, c.Capacity)
	}
	s.cells[c.ID] = c
	s.cellOrder = append(s.cellOrder, c.ID)
	sort.Strings(s.cellOrder)
	return nil
}

// AddTerminal registers a terminal at setup time.
func (s *Store) AddTerminal(t *Terminal) error {
	if t.ID == "" {
		return fmt.Errorf("add terminal: empty id")
	}
	if _, ok := s.terminals[t.ID]; ok {
		return fmt.Errorf("add terminal: duplicate id %q", t.ID)
	}
	s.terminals[t.ID] = t
	s.terminalOrder = append(s.terminalOrder, t.ID)
	sort.Strings(s.terminalOrder)
	return nil
}

// Cell looks up a cell by id.
func (s *Store) Cell(id string) (*Cell, bool) {
	c, ok := s.cells[id]
	return c, ok
}

// Terminal looks up a terminal by id.
func (s *Store) Terminal(id string) (*Terminal, bool) {
	t, ok := s.terminals[id]
	return t, ok
}

// Cells returns all cells in sorted id order. Iteration order is stable so
// that runs with identical inputs resolve identically.
func (s *Store) Cells() []*Cell {
	out := make([]*Cell, 0, len(s.cellOrder))
	for _, id := range s.cellOrder {
		out = append(out, s.cells[id])
	}
	return out
}

// Terminals returns all terminals in sorted id order.
func (s *Store) Terminals() []*Terminal {
	out := make([]*Terminal, 0, len(s.terminalOrder))
	for _, id := range s.terminalOrder {
		out = append(out, s.terminals[id])
	}
	return out
}

// MoveTerminal updates a terminal's position. An unknown id indicates a
// setup/integration defect in the mobility collaborator and is fatal.
func (s *Store) MoveTerminal(id string, pos Position) error {
	t, ok := s.terminals[id]
	if !ok {
		return fmt.Errorf("move terminal: %w", UnknownTerminalError(id))
	}
	t.Position = pos
	return nil
}

// SetWorkload updates a terminal's demand and data-state volume for the tick.
func (s *Store) SetWorkload(id string, demand, dataVolume float64) error {
	t, ok := s.terminals[id]
	if !ok {
		return fmt.Errorf("set workload: %w", UnknownTerminalError(id))
	}
	if demand < 0 {
		return fmt.Errorf("set workload for %q: negative demand %v", id, demand)
	}
	if dataVolume < 0 {
		return fmt.Errorf("set workload for %q: negative data volume %v", id, dataVolume)
	}
	t.Demand = demand
	t.DataVolume = dataVolume
	return nil
}
