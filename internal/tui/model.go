// Package tui renders the dashboard in a terminal with bubbletea.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/newthinker/sentinel/internal/view"
)

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	dashboard  view.Dashboard
	updates    <-chan view.Dashboard
	refresh    func()
	refreshing bool
	width      int
	height     int
}

// New creates a model showing initial until the first update arrives.
// refresh is called when the user presses r.
func New(initial view.Dashboard, updates <-chan view.Dashboard, refresh func()) Model {
	if refresh == nil {
		refresh = func() {}
	}
	return Model{dashboard: initial, updates: updates, refresh: refresh}
}

// Dashboard returns the dashboard currently on screen.
func (m Model) Dashboard() view.Dashboard {
	return m.dashboard
}

func waitForDashboard(updates <-chan view.Dashboard) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-updates
		if !ok {
			return feedClosedMsg{}
		}
		return dashboardMsg{dashboard: d}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForDashboard(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardMsg:
		m.dashboard = msg.dashboard
		m.refreshing = false
		return m, waitForDashboard(m.updates)

	case feedClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.refreshing = true
			m.refresh()
			return m, nil
		}
	}
	return m, nil
}

// Run starts the terminal program and blocks until the user quits or ctx is
// done.
func Run(ctx context.Context, initial view.Dashboard, feed *Feed, refresh func()) error {
	p := tea.NewProgram(New(initial, feed.C(), refresh), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running terminal dashboard: %w", err)
	}
	return nil
}
