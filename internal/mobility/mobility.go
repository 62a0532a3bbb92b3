// Random-walk mobility and workload generators feeding the topology store
package mobility

import (
	"math"
	"math/rand"

	"hetnet-sim/internal/topology"
)

// Arena is the bounded rectangle terminals move in. Cells are placed inside
// it at setup and stay fixed.
type Arena struct {
	Width  float64
	Height float64
}

// Contains reports whether a position lies inside the arena.
func (a Arena) Contains(p topology.Position) bool {
	return p.X >= 0 && p.X <= a.Width && p.Y >= 0 && p.Y <= a.Height
}

// RandomPosition returns a uniformly random position inside the arena.
func RandomPosition(r *rand.Rand, a Arena) topology.Position {
	return topology.Position{X: r.Float64() * a.Width, Y: r.Float64() * a.Height}
}

// Profile holds the per-group movement and workload ranges.
type Profile struct {
	SpeedMin      float64 // meters per second
	SpeedMax      float64
	DemandMin     float64 // workload units
	DemandMax     float64
	DataVolumeMin float64 // migratable state units
	DataVolumeMax float64
}

// RandomWalk moves every terminal one step per tick in a random direction,
// bouncing off the arena edges.
type RandomWalk struct {
	arena       Arena
	profiles    map[string]Profile
	tickSeconds float64
	rand        *rand.Rand
}

// NewRandomWalk builds a walker. profiles maps terminal group names to their
// movement ranges.
func NewRandomWalk(arena Arena, profiles map[string]Profile, tickSeconds float64, r *rand.Rand) *RandomWalk {
	return &RandomWalk{arena: arena, profiles: profiles, tickSeconds: tickSeconds, rand: r}
}

// Step advances every terminal's position by one tick.
func (w *RandomWalk) Step(store *topology.Store) error {
	for _, term := range store.Terminals() {
		p := w.profiles[term.Group]
		heading := w.rand.Float64() * 2 * math.Pi
		speed := p.SpeedMin + w.rand.Float64()*(p.SpeedMax-p.SpeedMin)
		step := speed * w.tickSeconds

		next := topology.Position{
			X: term.Position.X + step*math.Cos(heading),
			Y: term.Position.Y + step*math.Sin(heading),
		}
		next.X = reflect(next.X, w.arena.Width)
		next.Y = reflect(next.Y, w.arena.Height)

		if err := store.MoveTerminal(term.ID, next); err != nil {
			return err
		}
	}
	return nil
}

// reflect bounces a coordinate off the [0, max] boundary.
func reflect(v, max float64) float64 {
	if v < 0 {
		v = -v
	}
	if v > max {
		v = 2*max - v
	}
	return math.Min(math.Max(v, 0), max)
}

// WorkloadJitter redraws every terminal's demand and data volume each tick
// from its group's configured ranges.
type WorkloadJitter struct {
	profiles map[string]Profile
	rand     *rand.Rand
}

// NewWorkloadJitter builds a workload generator over the given group profiles.
func NewWorkloadJitter(profiles map[string]Profile, r *rand.Rand) *WorkloadJitter {
	return &WorkloadJitter{profiles: profiles, rand: r}
}

// Step redraws workload figures for every terminal.
func (g *WorkloadJitter) Step(store *topology.Store) error {
	for _, term := range store.Terminals() {
		p := g.profiles[term.Group]
		demand := p.DemandMin + g.rand.Float64()*(p.DemandMax-p.DemandMin)
		volume := p.DataVolumeMin + g.rand.Float64()*(p.DataVolumeMax-p.DataVolumeMin)
		if err := store.SetWorkload(term.ID, demand, volume); err != nil {
			return err
		}
	}
	return nil
}
