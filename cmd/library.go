package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/sptx/internal/formatter"
	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
	"github.com/desertthunder/sptx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// trackTable copies the track table and liked set out of the store.
func (r *Runner) trackTable(title string) *formatter.Table {
	t := &formatter.Table{Title: title, Liked: map[string]bool{}}
	r.store.View(func(a *state.App) {
		t.Tracks = append(t.Tracks, a.TrackTable.Tracks...)
		for _, track := range t.Tracks {
			if a.IsLiked(track.ID) {
				t.Liked[track.ID] = true
			}
		}
	})
	return t
}

// writeTable renders t in --format, to --output when given.
func (r *Runner) writeTable(cmd *cli.Command, t *formatter.Table) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, t, f); err != nil {
			return err
		}
		r.logger.Info("wrote tracks", "path", path, "format", f, "count", len(t.Tracks))
		return r.writePlain("✓ Wrote %d tracks to %s\n", len(t.Tracks), path)
	}
	return formatter.Write(r.output, t, f)
}

// playingTrackID resolves an explicit id argument or falls back to the playing track.
func (r *Runner) playingTrackID(ctx context.Context, arg string) (string, error) {
	if arg != "" {
		return models.IDFromURI(arg), nil
	}

	p, err := r.requirePlayback(ctx)
	if err != nil {
		return "", err
	}
	if p.Item == nil || p.Item.ID == "" {
		return "", fmt.Errorf("%w: nothing is playing and no track id given", shared.ErrMissingArgument)
	}
	return p.Item.ID, nil
}

// Search runs a four-way search and prints the tracks; text output also lists the other facets.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	if limit := cmd.Int("limit"); limit > 0 {
		large, _ := r.dispatcher.Limits()
		if err := r.dispatch(ctx, tasks.UpdateSearchLimits{Large: large, Small: limit}); err != nil {
			return err
		}
	}

	if err := r.dispatch(ctx, tasks.GetSearchResults{Query: query, Country: r.country()}); err != nil {
		return err
	}

	if err := r.writeTable(cmd, r.trackTable("Search: "+query)); err != nil {
		return err
	}

	if f, _ := formatter.ParseFormat(cmd.String("format")); f != formatter.FormatText || cmd.String("output") != "" {
		return nil
	}

	var results state.SearchResults
	r.store.View(func(a *state.App) { results = a.SearchResults })

	if results.Artists != nil && len(results.Artists.Items) > 0 {
		r.writePlainln("Artists:")
		for _, a := range results.Artists.Items {
			r.writePlain("  %s (%s)\n", a.Name, a.ID)
		}
	}
	if results.Albums != nil && len(results.Albums.Items) > 0 {
		r.writePlainln("Albums:")
		for _, a := range results.Albums.Items {
			r.writePlain("  %s - %s (%s)\n", models.JoinArtists(a.Artists), a.Name, a.ID)
		}
	}
	if results.Playlists != nil && len(results.Playlists.Items) > 0 {
		r.writePlainln("Playlists:")
		for _, p := range results.Playlists.Items {
			r.writePlain("  %s by %s (%s)\n", p.Name, p.Owner.DisplayName, p.ID)
		}
	}
	return nil
}

// Like toggles the saved status of a track.
func (r *Runner) Like(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	id, err := r.playingTrackID(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.dispatch(ctx, tasks.ToggleSaveTrack{TrackID: id}); err != nil {
		return err
	}

	var liked bool
	r.store.View(func(a *state.App) { liked = a.IsLiked(id) })
	if liked {
		return r.writePlain("♥ Saved %s to Liked Songs\n", id)
	}
	return r.writePlain("✗ Removed %s from Liked Songs\n", id)
}

// Recommend starts a radio seeded by a track and prints its track list.
//
// The list is printed even when playback could not start; that error is returned afterwards.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	id, err := r.playingTrackID(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	dispatchErr := r.dispatch(ctx, tasks.GetRecommendationsForTrackID{TrackID: id, Country: r.country()})

	table := r.trackTable("Recommended")
	if len(table.Tracks) == 0 {
		return dispatchErr
	}
	if err := r.writeTable(cmd, table); err != nil {
		return err
	}
	return dispatchErr
}

// Saved prints a page of liked songs.
func (r *Runner) Saved(ctx context.Context, cmd *cli.Command) error {
	req := tasks.GetCurrentSavedTracks{}
	if cmd.IsSet("offset") {
		offset := cmd.Int("offset")
		req.Offset = &offset
	}

	if err := r.run(ctx, req); err != nil {
		return err
	}
	return r.writeTable(cmd, r.trackTable("Liked Songs"))
}

// Playlists lists the user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.run(ctx, tasks.GetPlaylists{}); err != nil {
		return err
	}

	var playlists []models.SimplifiedPlaylist
	r.store.View(func(a *state.App) {
		if a.Playlists != nil {
			playlists = append(playlists, a.Playlists.Items...)
		}
	})

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.Tracks.Total)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}
