package topology

import (
	"errors"
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Position
		want float64
	}{
		{Position{0, 0}, Position{3, 4}, 5},
		{Position{1, 0}, Position{1, 0}, 0},
		{Position{0, 0}, Position{10, 0}, 10},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Distance(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestStore_AddAndLookup(t *testing.T) {
	s := NewStore()
	if err := s.AddCell(&Cell{ID: "macro-1", Technology: "macro", Capacity: 100}); err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := s.AddTerminal(&Terminal{ID: "ue-1"}); err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	if _, ok := s.Cell("macro-1"); !ok {
		t.Error("cell macro-1 not found after AddCell")
	}
	if _, ok := s.Terminal("ue-1"); !ok {
		t.Error("terminal ue-1 not found after AddTerminal")
	}
}

func TestStore_RejectsDuplicatesAndBadCapacity(t *testing.T) {
	s := NewStore()
	if err := s.AddCell(&Cell{ID: "c1", Capacity: 5}); err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := s.AddCell(&Cell{ID: "c1", Capacity: 5}); err == nil {
		t.Error("expected error for duplicate cell id")
	}
	if err := s.AddCell(&Cell{ID: "c2", Capacity: 0}); err == nil {
		t.Error("expected error for zero capacity")
	}
}

func TestStore_SortedIterationOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		if err := s.AddCell(&Cell{ID: id, Capacity: 1}); err != nil {
			t.Fatalf("AddCell: %v", err)
		}
	}
	cells := s.Cells()
	want := []string{"a", "b", "c"}
	for i, c := range cells {
		if c.ID != want[i] {
			t.Errorf("Cells()[%d].ID = %q, want %q", i, c.ID, want[i])
		}
	}
}

func TestStore_MoveUnknownTerminalIsFatal(t *testing.T) {
	s := NewStore()
	err := s.MoveTerminal("ghost", Position{1, 1})
	if !errors.Is(err, ErrUnknownID) {
		t.Errorf("MoveTerminal unknown id: got %v, want ErrUnknownID", err)
	}
}

func TestStore_SetWorkloadValidation(t *testing.T) {
	s := NewStore()
	if err := s.AddTerminal(&Terminal{ID: "ue-1"}); err != nil {
		t.Fatalf("AddTerminal: %v", err)
	}
	if err := s.SetWorkload("ue-1", -1, 0); err == nil {
		t.Error("expected error for negative demand")
	}
	if err := s.SetWorkload("ue-1", 2, 8); err != nil {
		t.Errorf("SetWorkload valid: %v", err)
	}
	tm, _ := s.Terminal("ue-1")
	if tm.Demand != 2 || tm.DataVolume != 8 {
		t.Errorf("workload not applied: %+v", tm)
	}
}
