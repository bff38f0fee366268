package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/tasks"
	"github.com/desertthunder/sptx/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	queueSize  = 64
	eventsSize = 64
)

// TUI launches the interactive player.
//
// The dispatcher runs on its own goroutine fed by the queue; the model reads the shared store.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath, err := shared.LogPath()
	if err != nil {
		return fmt.Errorf("failed to resolve log path: %w", err)
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	r.events = make(chan tasks.Event, eventsSize)
	if err := r.connect(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := tasks.NewQueue(r.store, queueSize, r.logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.dispatcher.Run(ctx, queue.Commands())
	}()

	opts := ui.Options{
		Store:        r.store,
		Queue:        queue,
		Events:       r.events,
		Devices:      r.devices,
		PollInterval: r.config.Behavior.PollInterval(),
		Country:      r.country(),
	}
	if r.credentials != nil {
		opts.Credentials = r.credentials
	}

	p := tea.NewProgram(ui.NewModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	queue.Close()
	cancel()
	<-done
	return nil
}
