package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/services"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
)

func (h handler) getCurrentPlayback(ctx context.Context) error {
	playback, err := h.remote.CurrentPlayback(ctx, "")
	if err != nil {
		return err
	}

	now := h.now()
	if playback == nil {
		h.store.Update(func(a *state.App) { a.LastPlaybackPoll = now })
		return nil
	}

	if id, ok := playback.TrackID(); ok {
		h.checkMembership(ctx, []string{id})
	}

	h.store.Update(func(a *state.App) {
		a.CurrentPlayback = playback
		a.LastPlaybackPoll = now
	})
	return nil
}

func (h handler) startPlayback(ctx context.Context, c StartPlayback) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}

	opts := services.PlayOptions{ContextURI: c.ContextURI, URIs: c.URIs, Offset: c.Offset}.Resolved()
	if err := h.remote.StartPlayback(ctx, device, opts); err != nil {
		return err
	}

	if err := h.getCurrentPlayback(ctx); err != nil {
		h.report(err)
	}
	h.store.Update(func(a *state.App) { a.SongProgressMS = 0 })
	return nil
}

func (h handler) seek(ctx context.Context, positionMS int) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}
	if err := h.remote.Seek(ctx, device, max(0, positionMS)); err != nil {
		return err
	}
	return h.getCurrentPlayback(ctx)
}

func (h handler) nextTrack(ctx context.Context) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}
	if err := h.remote.NextTrack(ctx, device); err != nil {
		return err
	}
	return h.getCurrentPlayback(ctx)
}

func (h handler) previousTrack(ctx context.Context) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}
	if err := h.remote.PreviousTrack(ctx, device); err != nil {
		return err
	}
	return h.getCurrentPlayback(ctx)
}

func (h handler) pausePlayback(ctx context.Context) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}
	if err := h.remote.PausePlayback(ctx, device); err != nil {
		return err
	}
	return h.getCurrentPlayback(ctx)
}

// shuffle patches the snapshot right away; the next poll would otherwise lag by seconds.
func (h handler) shuffle(ctx context.Context, current bool) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}

	next := !current
	if err := h.remote.SetShuffle(ctx, device, next); err != nil {
		return err
	}

	h.store.Update(func(a *state.App) {
		if a.CurrentPlayback != nil {
			a.CurrentPlayback.ShuffleState = next
		}
	})
	return nil
}

func (h handler) repeat(ctx context.Context, current models.RepeatState) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}

	if current == "" {
		current = models.RepeatOff
	}
	next := current.Next()
	if err := h.remote.SetRepeat(ctx, device, next); err != nil {
		return err
	}

	h.store.Update(func(a *state.App) {
		if a.CurrentPlayback != nil {
			a.CurrentPlayback.RepeatState = next
		}
	})
	return nil
}

func (h handler) changeVolume(ctx context.Context, percent int) error {
	device, err := h.requireDevice()
	if err != nil {
		return err
	}

	percent = max(0, min(100, percent))
	if err := h.remote.SetVolume(ctx, device, percent); err != nil {
		return err
	}

	h.store.Update(func(a *state.App) {
		if a.CurrentPlayback != nil {
			a.CurrentPlayback.Device.VolumePercent = percent
		}
	})
	return nil
}

func (h handler) getDevices(ctx context.Context) error {
	devices, err := h.remote.Devices(ctx)
	if err != nil {
		return err
	}

	h.store.Update(func(a *state.App) {
		a.PushNavigation(state.RouteSelectedDevice, state.BlockSelectDevice)
		if len(devices) > 0 {
			a.Devices = devices
			a.SelectedDeviceIndex = 0
		}
	})
	return nil
}

func (h handler) setDeviceIDInConfig(deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("%w: device id", shared.ErrMissingArgument)
	}
	if h.devices == nil {
		return fmt.Errorf("%w: no device store configured", shared.ErrConfigWrite)
	}
	if err := h.devices.SetDeviceID(deviceID); err != nil {
		return err
	}

	h.store.Update(func(a *state.App) { a.PopNavigation() })
	return nil
}

func (h handler) getRecentlyPlayed(ctx context.Context) error {
	result, err := h.remote.RecentlyPlayed(ctx, h.largeLimit)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Track.ID != "" {
			ids = append(ids, item.Track.ID)
		}
	}
	h.checkMembership(ctx, ids)

	h.store.Update(func(a *state.App) {
		a.RecentlyPlayed = result
		a.PushNavigation(state.RouteRecentlyPlayed, state.BlockRecentlyPlayed)
	})
	return nil
}
