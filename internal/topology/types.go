// Core topology types: cells, terminals, positions
package topology

import "math"

// Position is a 2D coordinate in meters within the scenario arena.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}

// Cell is a fixed radio access point of one technology. Cells are created at
// scenario setup and never move or change capacity afterwards.
type Cell struct {
	ID         string
	Technology string
	Position   Position
	Capacity   float64
}

// Terminal is a mobile entity with a workload demand and migratable state.
// Position, Demand, and DataVolume are updated by the mobility and workload
// collaborators at the start of every tick.
type Terminal struct {
	ID         string
	Group      string
	Position   Position
	Demand     float64
	DataVolume float64
}
