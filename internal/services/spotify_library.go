package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/sptx/internal/models"
)

// SavedTracks retrieves the user's saved tracks with pagination.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit, offset int) (*models.Page[models.SavedTrack], error) {
	var page models.Page[models.SavedTrack]
	if err := s.doRequest(ctx, http.MethodGet, "/me/tracks", pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SavedTracksContains checks saved status for each id, batching requests of 50.
func (s *SpotifyService) SavedTracksContains(ctx context.Context, ids []string) ([]bool, error) {
	out := make([]bool, 0, len(ids))
	err := forEachChunk(ids, func(chunk []string) error {
		var saved []bool
		if err := s.doRequest(ctx, http.MethodGet, "/me/tracks/contains", idQuery(chunk), nil, &saved); err != nil {
			return err
		}
		out = append(out, saved...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddSavedTracks saves tracks to the user's library.
func (s *SpotifyService) AddSavedTracks(ctx context.Context, ids []string) error {
	return forEachChunk(ids, func(chunk []string) error {
		return s.doRequest(ctx, http.MethodPut, "/me/tracks", idQuery(chunk), nil, nil)
	})
}

// RemoveSavedTracks removes tracks from the user's library.
func (s *SpotifyService) RemoveSavedTracks(ctx context.Context, ids []string) error {
	return forEachChunk(ids, func(chunk []string) error {
		return s.doRequest(ctx, http.MethodDelete, "/me/tracks", idQuery(chunk), nil, nil)
	})
}

// SavedAlbums retrieves the user's saved albums with pagination.
func (s *SpotifyService) SavedAlbums(ctx context.Context, limit, offset int) (*models.Page[models.SavedAlbum], error) {
	var page models.Page[models.SavedAlbum]
	if err := s.doRequest(ctx, http.MethodGet, "/me/albums", pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AddSavedAlbums saves albums to the user's library.
func (s *SpotifyService) AddSavedAlbums(ctx context.Context, ids []string) error {
	return forEachChunk(ids, func(chunk []string) error {
		return s.doRequest(ctx, http.MethodPut, "/me/albums", idQuery(chunk), nil, nil)
	})
}

// RemoveSavedAlbums removes albums from the user's library.
func (s *SpotifyService) RemoveSavedAlbums(ctx context.Context, ids []string) error {
	return forEachChunk(ids, func(chunk []string) error {
		return s.doRequest(ctx, http.MethodDelete, "/me/albums", idQuery(chunk), nil, nil)
	})
}

// CurrentUserPlaylists retrieves the current user's playlists with pagination.
func (s *SpotifyService) CurrentUserPlaylists(ctx context.Context, limit, offset int) (*models.Page[models.SimplifiedPlaylist], error) {
	var page models.Page[models.SimplifiedPlaylist]
	if err := s.doRequest(ctx, http.MethodGet, "/me/playlists", pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PlaylistTracks retrieves a page of a playlist's tracks.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int, market string) (*models.Page[models.PlaylistTrack], error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	var page models.Page[models.PlaylistTrack]
	if err := s.doRequest(ctx, http.MethodGet, endpoint, withMarket(pageQuery(limit, offset), market), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FollowedArtists pages through followed artists; after is the id of the last artist of the previous page.
func (s *SpotifyService) FollowedArtists(ctx context.Context, limit int, after string) (*models.CursorPage[models.FullArtist], error) {
	q := pageQuery(limit, 0)
	q.Del("offset")
	q.Set("type", "artist")
	if after != "" {
		q.Set("after", after)
	}

	var response struct {
		Artists models.CursorPage[models.FullArtist] `json:"artists"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/me/following", q, nil, &response); err != nil {
		return nil, err
	}
	return &response.Artists, nil
}

func followQuery(ids []string) url.Values {
	q := idQuery(ids)
	q.Set("type", "artist")
	return q
}

// FollowArtists follows artists.
func (s *SpotifyService) FollowArtists(ctx context.Context, ids []string) error {
	return forEachChunk(ids, func(chunk []string) error {
		return s.doRequest(ctx, http.MethodPut, "/me/following", followQuery(chunk), nil, nil)
	})
}

// UnfollowArtists unfollows artists.
func (s *SpotifyService) UnfollowArtists(ctx context.Context, ids []string) error {
	return forEachChunk(ids, func(chunk []string) error {
		return s.doRequest(ctx, http.MethodDelete, "/me/following", followQuery(chunk), nil, nil)
	})
}

// FollowPlaylist adds the playlist to the user's library.
func (s *SpotifyService) FollowPlaylist(ctx context.Context, playlistID string, public *bool) error {
	endpoint := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(playlistID))

	var body any
	if public != nil {
		body = map[string]bool{"public": *public}
	}
	return s.doRequest(ctx, http.MethodPut, endpoint, nil, body, nil)
}

// UnfollowPlaylist removes the playlist from the user's library.
func (s *SpotifyService) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	endpoint := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}
