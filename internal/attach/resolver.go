// Nearest-cell attachment resolution with deterministic tie-breaking
package attach

import (
	"sort"

	"hetnet-sim/internal/topology"
)

// NoCell is the sentinel serving-cell id for an unattached terminal.
const NoCell = ""

// Resolver picks the serving cell for a terminal: the nearest cell with spare
// capacity, over all technologies. Ties within epsilon are broken by
// technology priority rank, then by cell id, so identical inputs always
// resolve identically.
type Resolver struct {
	epsilon float64
	rank    map[string]int
}

// NewResolver builds a resolver. techPriority lists technologies from most to
// least preferred; technologies missing from the list rank last.
func NewResolver(epsilon float64, techPriority []string) *Resolver {
	rank := make(map[string]int, len(techPriority))
	for i, t := range techPriority {
		rank[t] = i
	}
	return &Resolver{epsilon: epsilon, rank: rank}
}

func (r *Resolver) techRank(tech string) int {
	if n, ok := r.rank[tech]; ok {
		return n
	}
	return len(r.rank)
}

// Resolve returns the serving cell id for the terminal, or NoCell if no cell
// has spare capacity for its demand. load carries the demand already
// committed to each cell this tick.
func (r *Resolver) Resolve(term *topology.Terminal, cells []*topology.Cell, load map[string]float64) string {
	if len(cells) == 0 {
		return NoCell
	}

	type candidate struct {
		cell *topology.Cell
		dist float64
	}
	cands := make([]candidate, 0, len(cells))
	for _, c := range cells {
		cands = append(cands, candidate{cell: c, dist: topology.Distance(term.Position, c.Position)})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		ri, rj := r.techRank(cands[i].cell.Technology), r.techRank(cands[j].cell.Technology)
		if ri != rj {
			return ri < rj
		}
		return cands[i].cell.ID < cands[j].cell.ID
	})

	// Reorder epsilon ties by technology rank, then id. Each tie band is
	// anchored at the nearest cell not yet in a band, so a chain of pairwise
	// epsilon-close distances cannot pull in cells farther than epsilon from
	// the band's true minimum.
	for start := 0; start < len(cands); {
		end := start + 1
		for end < len(cands) && cands[end].dist-cands[start].dist <= r.epsilon {
			end++
		}
		band := cands[start:end]
		sort.Slice(band, func(i, j int) bool {
			ri, rj := r.techRank(band[i].cell.Technology), r.techRank(band[j].cell.Technology)
			if ri != rj {
				return ri < rj
			}
			return band[i].cell.ID < band[j].cell.ID
		})
		start = end
	}

	// Nearest-first scan; saturated cells fall through to the next-nearest.
	for _, c := range cands {
		if load[c.cell.ID]+term.Demand <= c.cell.Capacity {
			return c.cell.ID
		}
	}
	return NoCell
}
