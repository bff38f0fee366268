package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
)

// search runs a single-facet search; key is the response object holding the page ("tracks", "artists", ...).
func search[T any](ctx context.Context, s *SpotifyService, kind, key, query string, limit, offset int, market string) (*models.Page[T], error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrMissingArgument)
	}

	q := withMarket(pageQuery(limit, offset), market)
	q.Set("q", query)
	q.Set("type", kind)

	var response map[string]models.Page[T]
	if err := s.doRequest(ctx, http.MethodGet, "/search", q, nil, &response); err != nil {
		return nil, err
	}

	page := response[key]
	return &page, nil
}

// SearchTracks searches the catalog for tracks.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.FullTrack], error) {
	return search[models.FullTrack](ctx, s, "track", "tracks", query, limit, offset, market)
}

// SearchArtists searches the catalog for artists.
func (s *SpotifyService) SearchArtists(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.FullArtist], error) {
	return search[models.FullArtist](ctx, s, "artist", "artists", query, limit, offset, market)
}

// SearchAlbums searches the catalog for albums.
func (s *SpotifyService) SearchAlbums(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.SimplifiedAlbum], error) {
	return search[models.SimplifiedAlbum](ctx, s, "album", "albums", query, limit, offset, market)
}

// SearchPlaylists searches the catalog for playlists.
func (s *SpotifyService) SearchPlaylists(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.SimplifiedPlaylist], error) {
	return search[models.SimplifiedPlaylist](ctx, s, "playlist", "playlists", query, limit, offset, market)
}

// Track fetches one track.
func (s *SpotifyService) Track(ctx context.Context, id, market string) (*models.FullTrack, error) {
	var track models.FullTrack
	endpoint := "/tracks/" + url.PathEscape(id)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, withMarket(nil, market), nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Tracks fetches several tracks, batching requests of 50.
func (s *SpotifyService) Tracks(ctx context.Context, ids []string, market string) ([]models.FullTrack, error) {
	tracks := make([]models.FullTrack, 0, len(ids))
	err := forEachChunk(ids, func(chunk []string) error {
		var response struct {
			Tracks []*models.FullTrack `json:"tracks"`
		}
		if err := s.doRequest(ctx, http.MethodGet, "/tracks", withMarket(idQuery(chunk), market), nil, &response); err != nil {
			return err
		}
		for _, t := range response.Tracks {
			// unknown ids come back as null
			if t != nil {
				tracks = append(tracks, *t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// Artist fetches one artist.
func (s *SpotifyService) Artist(ctx context.Context, id string) (*models.FullArtist, error) {
	var artist models.FullArtist
	if err := s.doRequest(ctx, http.MethodGet, "/artists/"+url.PathEscape(id), nil, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ArtistAlbums lists an artist's albums.
func (s *SpotifyService) ArtistAlbums(ctx context.Context, id string, limit, offset int, market string) (*models.Page[models.SimplifiedAlbum], error) {
	endpoint := fmt.Sprintf("/artists/%s/albums", url.PathEscape(id))

	var page models.Page[models.SimplifiedAlbum]
	if err := s.doRequest(ctx, http.MethodGet, endpoint, withMarket(pageQuery(limit, offset), market), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArtistTopTracks lists an artist's top tracks; the market defaults to the user's own.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, id, market string) ([]models.FullTrack, error) {
	if market == "" {
		market = "from_token"
	}
	endpoint := fmt.Sprintf("/artists/%s/top-tracks", url.PathEscape(id))

	var response struct {
		Tracks []models.FullTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, withMarket(nil, market), nil, &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// RelatedArtists lists artists similar to id.
func (s *SpotifyService) RelatedArtists(ctx context.Context, id string) ([]models.FullArtist, error) {
	endpoint := fmt.Sprintf("/artists/%s/related-artists", url.PathEscape(id))

	var response struct {
		Artists []models.FullArtist `json:"artists"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Artists, nil
}

// Album fetches a full album, including its first page of tracks.
func (s *SpotifyService) Album(ctx context.Context, id, market string) (*models.FullAlbum, error) {
	var album models.FullAlbum
	if err := s.doRequest(ctx, http.MethodGet, "/albums/"+url.PathEscape(id), withMarket(nil, market), nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// AlbumTracks lists an album's tracks.
func (s *SpotifyService) AlbumTracks(ctx context.Context, id string, limit, offset int) (*models.Page[models.SimplifiedTrack], error) {
	endpoint := fmt.Sprintf("/albums/%s/tracks", url.PathEscape(id))

	var page models.Page[models.SimplifiedTrack]
	if err := s.doRequest(ctx, http.MethodGet, endpoint, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Recommendations returns tracks generated from up to five seeds.
func (s *SpotifyService) Recommendations(ctx context.Context, seeds Seeds, limit int, market string) (*models.Recommendations, error) {
	if seeds.Empty() {
		return nil, fmt.Errorf("%w: at least one seed is required", shared.ErrMissingArgument)
	}

	q := withMarket(pageQuery(limit, 0), market)
	q.Del("offset")
	if len(seeds.Artists) > 0 {
		q.Set("seed_artists", strings.Join(seeds.Artists, ","))
	}
	if len(seeds.Tracks) > 0 {
		q.Set("seed_tracks", strings.Join(seeds.Tracks, ","))
	}
	if len(seeds.Genres) > 0 {
		q.Set("seed_genres", strings.Join(seeds.Genres, ","))
	}

	var recs models.Recommendations
	if err := s.doRequest(ctx, http.MethodGet, "/recommendations", q, nil, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}

// AudioAnalysis fetches the low-level analysis of a track.
func (s *SpotifyService) AudioAnalysis(ctx context.Context, trackID string) (*models.AudioAnalysis, error) {
	var analysis models.AudioAnalysis
	if err := s.doRequest(ctx, http.MethodGet, "/audio-analysis/"+url.PathEscape(trackID), nil, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
