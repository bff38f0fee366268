package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
)

func (h handler) getUser(ctx context.Context) error {
	user, err := h.remote.CurrentUser(ctx)
	if err != nil {
		return err
	}
	h.store.Update(func(a *state.App) { a.User = user })
	return nil
}

func (h handler) getPlaylists(ctx context.Context) error {
	playlists, err := h.remote.CurrentUserPlaylists(ctx, h.largeLimit, 0)
	if err != nil {
		return err
	}
	h.store.Update(func(a *state.App) {
		a.Playlists = playlists
		a.SelectedPlaylistIndex = 0
	})
	return nil
}

// setTracksToTable refreshes liked status for tracks and then shows them in the track table.
func (h handler) setTracksToTable(ctx context.Context, tracks []models.FullTrack) {
	h.checkMembership(ctx, models.TrackIDs(tracks))
	h.store.Update(func(a *state.App) { a.TrackTable.Tracks = tracks })
}

func playlistTracks(page *models.Page[models.PlaylistTrack]) []models.FullTrack {
	tracks := make([]models.FullTrack, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.ID == "" && item.Track.URI == "" {
			continue
		}
		tracks = append(tracks, item.Track)
	}
	return tracks
}

func (h handler) getPlaylistTracks(ctx context.Context, playlistID string, offset int, madeForYou bool) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	page, err := h.remote.PlaylistTracks(ctx, playlistID, h.largeLimit, offset, "")
	if err != nil {
		return err
	}

	h.setTracksToTable(ctx, playlistTracks(page))

	h.store.Update(func(a *state.App) {
		if madeForYou {
			a.MadeForYouTracks = page
			a.TrackTable.Context = state.TableMadeForYou
		} else {
			a.PlaylistTracks = page
			a.TrackTable.Context = state.TableMyPlaylists
		}
		a.PushNavigation(state.RouteTrackTable, state.BlockTrackTable)
	})
	return nil
}

func (h handler) getCurrentSavedTracks(ctx context.Context, c GetCurrentSavedTracks) error {
	offset := 0
	if c.Offset != nil {
		offset = *c.Offset
	}

	page, err := h.remote.SavedTracks(ctx, h.largeLimit, offset)
	if err != nil {
		return err
	}

	tracks := make([]models.FullTrack, 0, len(page.Items))
	for _, item := range page.Items {
		tracks = append(tracks, item.Track)
	}
	h.checkMembership(ctx, models.TrackIDs(tracks))

	h.store.Update(func(a *state.App) {
		a.TrackTable.Tracks = tracks
		a.Library.SavedTracks.AddPage(*page)
		a.TrackTable.Context = state.TableSavedTracks
		if c.ShouldNavigate {
			a.PushNavigation(state.RouteTrackTable, state.BlockTrackTable)
		}
	})
	return nil
}

func (h handler) getCurrentUserSavedAlbums(ctx context.Context, offset *int) error {
	at := 0
	if offset != nil {
		at = *offset
	}

	page, err := h.remote.SavedAlbums(ctx, h.largeLimit, at)
	if err != nil {
		return err
	}

	// an empty page would show as a blank screen
	if len(page.Items) == 0 {
		return nil
	}
	h.store.Update(func(a *state.App) { a.Library.SavedAlbums.AddPage(*page) })
	return nil
}

func (h handler) savedAlbumAdd(ctx context.Context, albumID string) error {
	return h.remote.AddSavedAlbums(ctx, []string{albumID})
}

func (h handler) savedAlbumDelete(ctx context.Context, albumID string) error {
	if err := h.remote.RemoveSavedAlbums(ctx, []string{albumID}); err != nil {
		return err
	}
	return h.getCurrentUserSavedAlbums(ctx, nil)
}

// toggleSaveTrack updates the liked set locally instead of re-checking after the write.
func (h handler) toggleSaveTrack(ctx context.Context, trackID string) error {
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	saved, err := h.remote.SavedTracksContains(ctx, []string{trackID})
	if err != nil {
		return err
	}

	if len(saved) > 0 && saved[0] {
		if err := h.remote.RemoveSavedTracks(ctx, []string{trackID}); err != nil {
			return err
		}
		h.store.Update(func(a *state.App) { a.SetLiked(trackID, false) })
		return nil
	}

	if err := h.remote.AddSavedTracks(ctx, []string{trackID}); err != nil {
		return err
	}
	h.store.Update(func(a *state.App) { a.SetLiked(trackID, true) })
	return nil
}
