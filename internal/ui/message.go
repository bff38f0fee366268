package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sptx/internal/tasks"
)

var (
	_ tea.Msg = tickMsg{}
	_ tea.Msg = eventMsg{}
)

// tickMsg drives polling and the progress bar.
type tickMsg time.Time

// eventMsg wraps a finished command reported by the dispatcher.
type eventMsg tasks.Event

// eventsClosedMsg is sent once the dispatcher's event channel is closed.
type eventsClosedMsg struct{}

const tickInterval = time.Second

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the next dispatcher event; Update re-arms it after each one.
func waitForEvent(events <-chan tasks.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}
