// Gnuplot label dumps of the current topology
package sim

import (
	"fmt"
	"os"
	"strings"

	"hetnet-sim/internal/topology"
)

var gnuplotCellColors = []string{"blue", "red", "dark-green", "orange", "purple"}

// GnuplotTopology renders "set label" lines for terminals and cells, suitable
// for overlaying on a gnuplot scatter of the arena. Cells are colored per
// technology in priority order; terminals are black.
func GnuplotTopology(cells []topology.Cell, terminals []topology.Terminal, techPriority []string) (cellLabels, terminalLabels string) {
	colorOf := make(map[string]string, len(techPriority))
	for i, tech := range techPriority {
		colorOf[tech] = gnuplotCellColors[i%len(gnuplotCellColors)]
	}

	var cb strings.Builder
	for _, c := range cells {
		color := colorOf[c.Technology]
		if color == "" {
			color = "black"
		}
		fmt.Fprintf(&cb, "set label %q at %g,%g left font \"Helvetica,8\" textcolor rgb %q front point pt 4 ps 0.3 lc rgb %q offset 0,0\n",
			c.ID, c.Position.X, c.Position.Y, color, color)
	}

	var tb strings.Builder
	for _, t := range terminals {
		fmt.Fprintf(&tb, "set label %q at %g,%g left font \"Helvetica,8\" textcolor rgb \"black\" front point pt 1 ps 0.3 lc rgb \"black\" offset 0,0\n",
			t.ID, t.Position.X, t.Position.Y)
	}
	return cb.String(), tb.String()
}

// WriteGnuplotTopology dumps cell and terminal labels to <prefix>_cells.gnuplot
// and <prefix>_terminals.gnuplot.
func WriteGnuplotTopology(prefix string, cells []topology.Cell, terminals []topology.Terminal, techPriority []string) error {
	cellLabels, terminalLabels := GnuplotTopology(cells, terminals, techPriority)
	if err := os.WriteFile(prefix+"_cells.gnuplot", []byte(cellLabels), 0o644); err != nil {
		return err
	}
	return os.WriteFile(prefix+"_terminals.gnuplot", []byte(terminalLabels), 0o644)
}
