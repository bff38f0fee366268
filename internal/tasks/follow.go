package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
)

// Follow mutations re-fetch the authoritative list instead of patching it.

func (h handler) getFollowedArtists(ctx context.Context, after string) error {
	page, err := h.remote.FollowedArtists(ctx, h.largeLimit, after)
	if err != nil {
		return err
	}

	h.store.Update(func(a *state.App) {
		a.FollowedArtists = page.Items
		a.Library.SavedArtists.AddPage(page.Page())
	})
	return nil
}

func (h handler) followArtists(ctx context.Context, ids []string) error {
	if err := h.remote.FollowArtists(ctx, ids); err != nil {
		return err
	}
	return h.getFollowedArtists(ctx, "")
}

func (h handler) unfollowArtists(ctx context.Context, ids []string) error {
	if err := h.remote.UnfollowArtists(ctx, ids); err != nil {
		return err
	}
	return h.getFollowedArtists(ctx, "")
}

func (h handler) followPlaylist(ctx context.Context, c UserFollowPlaylist) error {
	if c.PlaylistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	if err := h.remote.FollowPlaylist(ctx, c.PlaylistID, c.Public); err != nil {
		return err
	}
	return h.getPlaylists(ctx)
}

func (h handler) unfollowPlaylist(ctx context.Context, playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	if err := h.remote.UnfollowPlaylist(ctx, playlistID); err != nil {
		return err
	}
	return h.getPlaylists(ctx)
}
