package tasks

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sptx/internal/state"
)

// Event reports that a command finished.
//
// The UI uses it to re-render promptly instead of waiting for its next tick.
type Event struct {
	ID      string        // Correlation id, also present in the dispatch log lines
	Kind    CommandKind   // Command that finished
	Err     error         // Error reported by the handler, if any
	Elapsed time.Duration // Time spent in the handler
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed after %s: %v", e.Kind, e.Elapsed.Round(time.Millisecond), e.Err)
	}
	return fmt.Sprintf("%s done in %s", e.Kind, e.Elapsed.Round(time.Millisecond))
}

// Queue is the caller side of the dispatch loop.
//
// Send marks the state as loading before handing the command over; the dispatcher clears it.
type Queue struct {
	commands chan Command
	store    *state.Store
	logger   *log.Logger
}

// NewQueue creates a queue buffering up to size commands.
func NewQueue(store *state.Store, size int, logger *log.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{commands: make(chan Command, size), store: store, logger: logger}
}

// Send enqueues cmd without blocking. It returns false when the queue is full and the command was dropped.
//
// A dropped command leaves IsLoading set: the queued commands ahead of it clear it when they finish.
func (q *Queue) Send(cmd Command) bool {
	q.store.Update(func(a *state.App) { a.IsLoading = true })

	select {
	case q.commands <- cmd:
		return true
	default:
		q.logger.Warn("command queue full, dropping command", "kind", cmd.Kind())
		return false
	}
}

// Commands is the receive side handed to [Dispatcher.Run].
func (q *Queue) Commands() <-chan Command {
	return q.commands
}

// Close stops the dispatch loop once queued commands drain.
func (q *Queue) Close() {
	close(q.commands)
}
