// TUI reporting sink rendering attachment and energy state with bubbletea
package sim

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"hetnet-sim/internal/config"
	"hetnet-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// attachmentMsg carries one attachment row update.
type attachmentMsg struct{ telemetry.AttachmentRow }

// migrationMsg carries a migration log line.
type migrationMsg struct{ line string }

// tickStateMsg carries the aggregate tick state.
type tickStateMsg struct{ telemetry.TickStateRow }

const tuiMigrationLogLimit = 200

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tuiStateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tuiSurgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	tuiBorderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// TUIWriter renders simulation rows in a live bubbletea view.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.SimulationConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements AttachmentWriter.
func (w *TUIWriter) Write(row telemetry.AttachmentRow) error {
	w.program.Send(attachmentMsg{row})
	return nil
}

// WriteBatch sends all rows to the TUI.
func (w *TUIWriter) WriteBatch(rows []telemetry.AttachmentRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteMigration implements MigrationWriter.
func (w *TUIWriter) WriteMigration(m telemetry.MigrationRow) error {
	from := m.FromCell
	if from == "" {
		from = "unattached"
	}
	to := m.ToCell
	if to == "" {
		to = "unattached"
	}
	w.program.Send(migrationMsg{line: fmt.Sprintf("[%s] tick=%d %s: %s -> %s (%.2f J)",
		m.Timestamp.Format(time.TimeOnly), m.Tick, m.TerminalID, from, to, m.Energy)})
	return nil
}

// WriteMigrations sends multiple migration events.
func (w *TUIWriter) WriteMigrations(rows []telemetry.MigrationRow) error {
	for _, m := range rows {
		_ = w.WriteMigration(m)
	}
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row telemetry.TickStateRow) error {
	w.program.Send(tickStateMsg{row})
	return nil
}

// Close stops the bubbletea program without signalling the process.
func (w *TUIWriter) Close() {
	w.sendSignal.Store(false)
	if p, ok := w.program.(*tea.Program); ok {
		p.Quit()
		<-w.done
	}
}

type tuiModel struct {
	cfg       *config.SimulationConfig
	terminals map[string]telemetry.AttachmentRow
	state     telemetry.TickStateRow
	tbl       table.Model
	migLog    viewport.Model
	migLines  []string
	width     int
	height    int
}

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	cols := []table.Column{
		{Title: "Terminal", Width: 28},
		{Title: "Cell", Width: 28},
		{Title: "Tech", Width: 8},
		{Title: "Dist (m)", Width: 10},
		{Title: "Proc (J)", Width: 12},
		{Title: "Mig (J)", Width: 12},
	}
	tbl := table.New(table.WithColumns(cols), table.WithHeight(12))
	return tuiModel{
		cfg:       cfg,
		terminals: make(map[string]telemetry.AttachmentRow),
		tbl:       tbl,
		migLog:    viewport.New(80, 8),
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.migLog.Width = msg.Width - 4
		return m, nil
	case attachmentMsg:
		m.terminals[msg.TerminalID] = msg.AttachmentRow
		m.refreshTable()
		return m, nil
	case migrationMsg:
		m.migLines = append(m.migLines, msg.line)
		if len(m.migLines) > tuiMigrationLogLimit {
			m.migLines = m.migLines[len(m.migLines)-tuiMigrationLogLimit:]
		}
		m.migLog.SetContent(wordwrap.String(joinLines(m.migLines), m.migLog.Width))
		m.migLog.GotoBottom()
		return m, nil
	case tickStateMsg:
		m.state = msg.TickStateRow
		return m, nil
	}
	return m, nil
}

func (m *tuiModel) refreshTable() {
	ids := make([]string, 0, len(m.terminals))
	for id := range m.terminals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		r := m.terminals[id]
		cell := r.CellID
		if r.Degraded {
			cell = "unattached"
		}
		rows = append(rows, table.Row{
			r.TerminalID,
			cell,
			r.Technology,
			fmt.Sprintf("%.1f", r.Distance),
			fmt.Sprintf("%.2f", r.ProcessingTotal),
			fmt.Sprintf("%.2f", r.MigrationTotal),
		})
	}
	m.tbl.SetRows(rows)
}

func (m tuiModel) View() string {
	title := tuiTitleStyle.Render("hetnet-sim")
	surge := ""
	if m.state.SurgeMode {
		surge = "  " + tuiSurgeStyle.Render("SURGE")
	}
	status := tuiStateStyle.Render(fmt.Sprintf(
		"tick=%d attached=%d unattached=%d migrations=%d energy=%.2f J",
		m.state.Tick, m.state.Attached, m.state.Unattached, m.state.Migrations, m.state.TotalEnergy)) + surge

	help := tuiStateStyle.Render("q: quit  up/down: scroll terminals")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		status,
		tuiBorderStyle.Render(m.tbl.View()),
		tuiTitleStyle.Render("Migrations"),
		tuiBorderStyle.Render(m.migLog.View()),
		help,
	)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
