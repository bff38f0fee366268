package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/sptx/internal/formatter"
	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
	"github.com/desertthunder/sptx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// playback returns a copy of the player snapshot.
func (r *Runner) playback() *models.PlaybackContext {
	var p *models.PlaybackContext
	r.store.View(func(a *state.App) {
		if a.CurrentPlayback != nil {
			cp := *a.CurrentPlayback
			p = &cp
		}
	})
	return p
}

// requirePlayback fetches the player and fails when nothing is loaded.
func (r *Runner) requirePlayback(ctx context.Context) (*models.PlaybackContext, error) {
	if err := r.run(ctx, tasks.GetCurrentPlayback{}); err != nil {
		return nil, err
	}
	p := r.playback()
	if p == nil {
		return nil, fmt.Errorf("%w: nothing is playing", shared.ErrNotFound)
	}
	return p, nil
}

// Status prints the current playback.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	if err := r.run(ctx, tasks.GetCurrentPlayback{}); err != nil {
		return err
	}

	p := r.playback()
	if cmd.Bool("json") {
		return r.writeJSON(p, true)
	}
	return formatter.Playback(r.output, p)
}

// Devices lists playback devices, marking the configured one.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	if err := r.run(ctx, tasks.GetDevices{}); err != nil {
		return err
	}

	var devices []models.Device
	r.store.View(func(a *state.App) { devices = append(devices, a.Devices...) })
	selected, _ := r.devices.DeviceID()

	if len(devices) == 0 {
		return r.writePlain("No devices found. Open Spotify on a device and try again.\n")
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, d := range devices {
		mark := " "
		if d.ID == selected {
			mark = "●"
		}
		r.writePlain("%s %d. %s (%s)\n", mark, i+1, d.Name, d.Type)
		r.writePlain("     ID: %s\n", d.ID)
		if d.IsActive {
			r.writePlain("     Active, volume %d%%\n", d.VolumePercent)
		}
	}
	return nil
}

// DeviceSet persists the device id commands are sent to.
func (r *Runner) DeviceSet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: device id", shared.ErrMissingArgument)
	}

	if err := r.run(ctx, tasks.SetDeviceIDInConfig{DeviceID: id}); err != nil {
		return err
	}
	return r.writePlain("✓ Playback device set to %s\n", id)
}

// Play resumes playback or starts a context or track list.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	start := tasks.StartPlayback{
		ContextURI: cmd.String("context"),
		URIs:       cmd.StringSlice("track"),
	}
	if offset := cmd.Int("offset"); offset >= 0 {
		start.Offset = &offset
	}

	if err := r.run(ctx, start); err != nil {
		return err
	}
	return formatter.Playback(r.output, r.playback())
}

// Pause pauses playback.
func (r *Runner) Pause(ctx context.Context, cmd *cli.Command) error {
	if err := r.run(ctx, tasks.PausePlayback{}); err != nil {
		return err
	}
	return r.writePlain("⏸ Paused\n")
}

// Next skips forward and prints the new track.
func (r *Runner) Next(ctx context.Context, cmd *cli.Command) error {
	if err := r.run(ctx, tasks.NextTrack{}); err != nil {
		return err
	}
	return formatter.Playback(r.output, r.playback())
}

// Previous skips back and prints the new track.
func (r *Runner) Previous(ctx context.Context, cmd *cli.Command) error {
	if err := r.run(ctx, tasks.PreviousTrack{}); err != nil {
		return err
	}
	return formatter.Playback(r.output, r.playback())
}

// parsePosition accepts seconds ("90"), clock time ("1:30", "1:02:03") or a Go duration ("1m30s").
func parsePosition(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: position", shared.ErrMissingArgument)
	}

	if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
		return secs * 1000, nil
	}

	if strings.Contains(s, ":") {
		total := 0
		for _, part := range strings.Split(s, ":") {
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%w: invalid position %q", shared.ErrInvalidArgument, s)
			}
			total = total*60 + n
		}
		return total * 1000, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: invalid position %q", shared.ErrInvalidArgument, s)
	}
	return int(d.Milliseconds()), nil
}

// Seek moves to a position in the current track.
func (r *Runner) Seek(ctx context.Context, cmd *cli.Command) error {
	ms, err := parsePosition(cmd.StringArg("position"))
	if err != nil {
		return err
	}

	if err := r.run(ctx, tasks.Seek{PositionMS: ms}); err != nil {
		return err
	}
	return formatter.Playback(r.output, r.playback())
}

// Volume sets the volume, clamped to 0-100.
func (r *Runner) Volume(ctx context.Context, cmd *cli.Command) error {
	arg := strings.TrimSuffix(strings.TrimSpace(cmd.StringArg("percent")), "%")
	if arg == "" {
		return fmt.Errorf("%w: volume percent", shared.ErrMissingArgument)
	}
	percent, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: invalid volume %q", shared.ErrInvalidArgument, arg)
	}

	if err := r.run(ctx, tasks.ChangeVolume{Percent: percent}); err != nil {
		return err
	}
	return r.writePlain("Volume: %d%%\n", max(0, min(100, percent)))
}

// Shuffle flips shuffle relative to the player's current state.
func (r *Runner) Shuffle(ctx context.Context, cmd *cli.Command) error {
	p, err := r.requirePlayback(ctx)
	if err != nil {
		return err
	}

	if err := r.dispatch(ctx, tasks.Shuffle{Current: p.ShuffleState}); err != nil {
		return err
	}

	label := "off"
	if p := r.playback(); p != nil && p.ShuffleState {
		label = "on"
	}
	return r.writePlain("Shuffle: %s\n", label)
}

// Repeat advances the repeat mode: off, context, track, off.
func (r *Runner) Repeat(ctx context.Context, cmd *cli.Command) error {
	p, err := r.requirePlayback(ctx)
	if err != nil {
		return err
	}

	if err := r.dispatch(ctx, tasks.Repeat{Current: p.RepeatState}); err != nil {
		return err
	}

	mode := models.RepeatOff
	if p := r.playback(); p != nil && p.RepeatState != "" {
		mode = p.RepeatState
	}
	return r.writePlain("Repeat: %s\n", mode)
}
