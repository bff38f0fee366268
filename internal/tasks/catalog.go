package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/services"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
	"golang.org/x/sync/errgroup"
)

// spotifyOwnerID owns the curated "made for you" playlists.
const spotifyOwnerID = "spotify"

// getSearchResults queries the four facets concurrently; any failure discards all of them.
func (h handler) getSearchResults(ctx context.Context, c GetSearchResults) error {
	var (
		tracks    *models.Page[models.FullTrack]
		artists   *models.Page[models.FullArtist]
		albums    *models.Page[models.SimplifiedAlbum]
		playlists *models.Page[models.SimplifiedPlaylist]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tracks, err = h.remote.SearchTracks(gctx, c.Query, h.smallLimit, 0, c.Country)
		return err
	})
	g.Go(func() (err error) {
		artists, err = h.remote.SearchArtists(gctx, c.Query, h.smallLimit, 0, c.Country)
		return err
	})
	g.Go(func() (err error) {
		albums, err = h.remote.SearchAlbums(gctx, c.Query, h.smallLimit, 0, c.Country)
		return err
	})
	g.Go(func() (err error) {
		playlists, err = h.remote.SearchPlaylists(gctx, c.Query, h.smallLimit, 0, c.Country)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if tracks != nil {
		h.setTracksToTable(ctx, tracks.Items)
	}

	h.store.Update(func(a *state.App) {
		a.SearchResults = state.SearchResults{
			Query:     c.Query,
			Tracks:    tracks,
			Artists:   artists,
			Albums:    albums,
			Playlists: playlists,
		}
	})
	return nil
}

func (h handler) getArtist(ctx context.Context, c GetArtist) error {
	if c.ArtistID == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	name := c.ArtistName
	if name == "" {
		artist, err := h.remote.Artist(ctx, c.ArtistID)
		if err != nil {
			h.report(err)
		} else {
			name = artist.Name
		}
	}

	var (
		albums    *models.Page[models.SimplifiedAlbum]
		topTracks []models.FullTrack
		related   []models.FullArtist
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		albums, err = h.remote.ArtistAlbums(gctx, c.ArtistID, h.largeLimit, 0, c.Country)
		return err
	})
	g.Go(func() (err error) {
		topTracks, err = h.remote.ArtistTopTracks(gctx, c.ArtistID, c.Country)
		return err
	})
	g.Go(func() (err error) {
		related, err = h.remote.RelatedArtists(gctx, c.ArtistID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	detail := &state.ArtistDetail{
		ID:             c.ArtistID,
		Name:           name,
		TopTracks:      topTracks,
		RelatedArtists: related,
	}
	if albums != nil {
		detail.Albums = *albums
	}
	h.store.Update(func(a *state.App) { a.Artist = detail })
	return nil
}

func (h handler) getAlbumTracks(ctx context.Context, album models.SimplifiedAlbum) error {
	if album.ID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	tracks, err := h.remote.AlbumTracks(ctx, album.ID, h.largeLimit, 0)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(tracks.Items))
	for _, t := range tracks.Items {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	h.checkMembership(ctx, ids)

	h.store.Update(func(a *state.App) {
		a.SelectedAlbumSimplified = &state.SelectedAlbum{Album: album, Tracks: *tracks}
		a.AlbumTableContext = state.AlbumSimplified
		a.PushNavigation(state.RouteAlbumTracks, state.BlockAlbumTracks)
	})
	return nil
}

func (h handler) getAlbum(ctx context.Context, albumID string) error {
	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	album, err := h.remote.Album(ctx, albumID, "")
	if err != nil {
		return err
	}

	h.store.Update(func(a *state.App) {
		a.SelectedAlbumFull = album
		a.AlbumTableContext = state.AlbumFull
		a.PushNavigation(state.RouteAlbumTracks, state.BlockAlbumTracks)
	})
	return nil
}

// getRecommendationsForSeed resolves the recommended tracks, shows them and starts playing them from the top.
func (h handler) getRecommendationsForSeed(ctx context.Context, c GetRecommendationsForSeed) error {
	seeds := services.Seeds{Artists: c.SeedArtists, Tracks: c.SeedTracks}
	recs, err := h.remote.Recommendations(ctx, seeds, h.largeLimit, c.Country)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(recs.Tracks))
	for _, t := range recs.Tracks {
		id := t.ID
		if id == "" {
			id = models.IDFromURI(t.URI)
		}
		if id != "" {
			ids = append(ids, id)
		}
	}

	var tracks []models.FullTrack
	if len(ids) > 0 {
		tracks, err = h.remote.Tracks(ctx, ids, c.Country)
		if err != nil {
			return err
		}
	}

	if c.FirstTrack != nil {
		tracks = append([]models.FullTrack{*c.FirstTrack}, tracks...)
	}

	h.setTracksToTable(ctx, tracks)

	// an empty URI list would resume whatever was playing before
	if len(tracks) > 0 {
		offset := 0
		if err := h.startPlayback(ctx, StartPlayback{URIs: models.TrackURIs(tracks), Offset: &offset}); err != nil {
			h.report(err)
		}
	}

	h.store.Update(func(a *state.App) {
		a.RecommendedTracks = tracks
		a.TrackTable.Context = state.TableRecommendedTracks
		a.PushNavigation(state.RouteRecommendations, state.BlockTrackTable)
	})
	return nil
}

func (h handler) getRecommendationsForTrackID(ctx context.Context, c GetRecommendationsForTrackID) error {
	if c.TrackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	track, err := h.remote.Track(ctx, c.TrackID, c.Country)
	if err != nil {
		return err
	}

	var seedTracks []string
	if track.ID != "" {
		seedTracks = []string{track.ID}
	}
	return h.getRecommendationsForSeed(ctx, GetRecommendationsForSeed{
		SeedTracks: seedTracks,
		FirstTrack: track,
		Country:    c.Country,
	})
}

func (h handler) getAudioAnalysis(ctx context.Context, uri string) error {
	id := models.IDFromURI(uri)
	if id == "" {
		return fmt.Errorf("%w: track uri", shared.ErrMissingArgument)
	}

	analysis, err := h.remote.AudioAnalysis(ctx, id)
	if err != nil {
		return err
	}

	h.store.Update(func(a *state.App) {
		a.AudioAnalysis = analysis
		a.PushNavigation(state.RouteAnalysis, state.BlockAnalysis)
	})
	return nil
}

// madeForYouSearchAndAdd keeps only Spotify-owned playlists named exactly like the query.
func (h handler) madeForYouSearchAndAdd(ctx context.Context, c MadeForYouSearchAndAdd) error {
	page, err := h.remote.SearchPlaylists(ctx, c.Query, h.largeLimit, 0, c.Country)
	if err != nil {
		return err
	}

	filtered := make([]models.SimplifiedPlaylist, 0, len(page.Items))
	for _, p := range page.Items {
		if p.Owner.ID == spotifyOwnerID && p.Name == c.Query {
			filtered = append(filtered, p)
		}
	}

	h.store.Update(func(a *state.App) {
		if current := a.Library.MadeForYouPlaylists.MutResults(nil); current != nil {
			current.Items = append(current.Items, filtered...)
			return
		}
		page.Items = filtered
		a.Library.MadeForYouPlaylists.AddPage(*page)
	})
	return nil
}
