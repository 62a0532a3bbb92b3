// ColorStdoutWriter prints human-friendly, colorized attachment rows to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"hetnet-sim/internal/config"
	"hetnet-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

var techPalette = []string{colorBlue, colorRed, colorMagenta, colorCyan, colorYellow, colorGreen}

// ColorStdoutWriter prints attachment rows using ANSI colors, one color per
// technology.
type ColorStdoutWriter struct {
	cfg        *config.SimulationConfig
	out        io.Writer
	once       sync.Once
	techColors map[string]string
	colorIdx   int
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.SimulationConfig) *ColorStdoutWriter {
	w := &ColorStdoutWriter{cfg: cfg, out: os.Stdout, techColors: make(map[string]string)}
	if cfg != nil {
		for _, t := range cfg.Technologies {
			w.getTechColor(t.Name)
		}
	}
	return w
}

func (w *ColorStdoutWriter) getTechColor(tech string) string {
	if c, ok := w.techColors[tech]; ok {
		return c
	}
	c := techPalette[w.colorIdx%len(techPalette)]
	w.techColors[tech] = c
	w.colorIdx++
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Scenario Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Arena (m):\t%.0f x %.0f\n", w.cfg.Arena.WidthM, w.cfg.Arena.HeightM)
	fmt.Fprintf(tw, "Static Power:\t%.1f\n", w.cfg.Energy.StaticPower)
	fmt.Fprintf(tw, "Dynamic Power:\t%.1f\n", w.cfg.Energy.DynamicPower)
	fmt.Fprintf(tw, "Alpha:\t%.2f\n", w.cfg.Energy.Alpha)
	fmt.Fprintf(tw, "Beta:\t%.2f\n", w.cfg.Energy.Beta)
	fmt.Fprintf(tw, "Tick (s):\t%.2f\n", w.cfg.Energy.TickSeconds)
	tw.Flush()

	fmt.Fprintln(w.out, "\nTechnologies:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tCells\tCapacity\n")
	for _, t := range w.cfg.Technologies {
		col := w.getTechColor(t.Name)
		fmt.Fprintf(tw, "%s%s%s\t%d\t%.1f\n", col, t.Name, colorReset, t.Cells, t.Capacity)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single attachment row.
func (w *ColorStdoutWriter) Write(row telemetry.AttachmentRow) error {
	w.once.Do(w.printOverview)

	cell := row.CellID
	cellColor := w.getTechColor(row.Technology)
	if row.Degraded {
		cell = "unattached"
		cellColor = colorRed
	}
	fmt.Fprintf(w.out, "%s[%s]%s tick=%d %sterminal=%s%s %scell=%s%s dist=%.1fm demand=%.2f %sproc=%.2f%s %smig=%.2f%s total=%.2f\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		row.Tick,
		colorGreen, row.TerminalID, colorReset,
		cellColor, cell, colorReset,
		row.Distance, row.Demand,
		colorCyan, row.ProcessingDelta, colorReset,
		colorYellow, row.MigrationDelta, colorReset,
		row.ProcessingTotal+row.MigrationTotal)
	return nil
}

// WriteBatch outputs multiple attachment rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.AttachmentRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteMigration prints a serving-cell change event.
func (w *ColorStdoutWriter) WriteMigration(m telemetry.MigrationRow) error {
	from := m.FromCell
	if from == "" {
		from = "unattached"
	}
	to := m.ToCell
	if to == "" {
		to = "unattached"
	}
	fmt.Fprintf(w.out, "%s[%s]%s tick=%d %sMIGRATION%s terminal=%s %s -> %s volume=%.2f energy=%.2f\n",
		colorGray, m.Timestamp.Format(time.RFC3339), colorReset,
		m.Tick,
		colorMagenta, colorReset,
		m.TerminalID, from, to, m.DataVolume, m.Energy)
	return nil
}

// WriteMigrations prints multiple migration events.
func (w *ColorStdoutWriter) WriteMigrations(rows []telemetry.MigrationRow) error {
	for _, m := range rows {
		_ = w.WriteMigration(m)
	}
	return nil
}

// WriteState prints the aggregate tick state line.
func (w *ColorStdoutWriter) WriteState(row telemetry.TickStateRow) error {
	surge := ""
	if row.SurgeMode {
		surge = colorRed + " SURGE" + colorReset
	}
	fmt.Fprintf(w.out, "%s[%s]%s tick=%d attached=%d unattached=%d migrations=%d energy=%.2f%s\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		row.Tick, row.Attached, row.Unattached, row.Migrations, row.TotalEnergy, surge)
	return nil
}

// NewStdoutWriters returns attachment and migration writers sharing one
// colorized STDOUT printer.
func NewStdoutWriters(cfg *config.SimulationConfig) (AttachmentWriter, MigrationWriter) {
	w := NewColorStdoutWriter(cfg)
	return w, w
}
