package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/robotkit/hal"
	"github.com/robotkit/hal/lifecycle"
	"github.com/robotkit/hal/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#00664F")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type dashboardModel struct {
	mgr    *resource.Manager
	table  table.Model
	period time.Duration

	descFile string
	status   string
	lastErr  error
}

type tickMsg time.Time

func newDashboardModel(descFile string, mgr *resource.Manager, rate uint) *dashboardModel {
	columns := []table.Column{
		{Title: "Component", Width: 16},
		{Title: "Type", Width: 9},
		{Title: "State", Width: 13},
		{Title: "Rate", Width: 5},
		{Title: "Async", Width: 6},
		{Title: "Read avg", Width: 10},
		{Title: "Write avg", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#00664F"))
	t.SetStyles(styles)

	m := &dashboardModel{
		mgr:      mgr,
		table:    t,
		period:   time.Second / time.Duration(rate),
		descFile: descFile,
	}
	m.refreshRows()
	return m
}

func (m *dashboardModel) Init() tea.Cmd {
	return m.tick()
}

func (m *dashboardModel) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if ret, stopped := m.mgr.Read(now, m.period); ret != hal.OK {
			m.status = fmt.Sprintf("read stopped %v", stopped)
		}
		m.mgr.EnforceCommandLimits(m.period)
		if ret, stopped := m.mgr.Write(now, m.period); ret != hal.OK {
			m.status = fmt.Sprintf("write stopped %v", stopped)
		}
		m.refreshRows()
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.transition(lifecycle.Inactive, "configured")
		case "a":
			m.transition(lifecycle.Active, "activated")
		case "d":
			m.transition(lifecycle.Inactive, "deactivated")
		case "u":
			m.transition(lifecycle.Unconfigured, "cleaned up")
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *dashboardModel) selected() string {
	row := m.table.SelectedRow()
	if row == nil {
		return ""
	}
	return row[0]
}

func (m *dashboardModel) transition(target lifecycle.StateID, verb string) {
	name := m.selected()
	if name == "" {
		return
	}
	if err := m.mgr.SetComponentState(name, target); err != nil {
		m.lastErr = err
		m.status = ""
		return
	}
	m.lastErr = nil
	m.status = fmt.Sprintf("%s %s", verb, name)
	m.refreshRows()
}

func (m *dashboardModel) refreshRows() {
	status := m.mgr.ComponentStatus()
	rows := make([]table.Row, 0, len(status))
	for _, name := range m.mgr.ComponentNames() {
		st := status[name]
		rows = append(rows, table.Row{
			st.Name,
			string(st.Type),
			st.State.Label,
			fmt.Sprintf("%d", st.RWRate),
			fmt.Sprintf("%v", st.Async),
			fmtExec(st.ReadExecution),
			fmtExec(st.WriteExecution),
		})
	}
	m.table.SetRows(rows)
}

func (m *dashboardModel) View() string {
	s := titleStyle.Render("halrun")
	s += " " + m.descFile + "\n\n"
	s += m.table.View() + "\n\n"
	if m.lastErr != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.lastErr)) + "\n"
	} else if m.status != "" {
		s += statusStyle.Render(m.status) + "\n"
	}
	s += helpStyle.Render("↑/↓ select • c configure • a activate • d deactivate • u cleanup • q quit")
	return s
}

func runInteractive(descFile string, rate uint) error {
	mgr, err := loadManager(descFile, rate, zap.NewNop())
	if err != nil {
		return err
	}
	defer mgr.Shutdown()

	p := tea.NewProgram(newDashboardModel(descFile, mgr, rate), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
