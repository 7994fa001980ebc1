package tui

import "github.com/newthinker/sentinel/internal/view"

type dashboardMsg struct {
	dashboard view.Dashboard
}

// feedClosedMsg is sent when the dashboard feed is closed.
type feedClosedMsg struct{}
