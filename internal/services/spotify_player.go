package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/sptx/internal/models"
)

type playOffset struct {
	Position int `json:"position"`
}

type playBody struct {
	ContextURI string      `json:"context_uri,omitempty"`
	URIs       []string    `json:"uris,omitempty"`
	Offset     *playOffset `json:"offset,omitempty"`
}

// Devices lists the user's available Spotify Connect devices.
func (s *SpotifyService) Devices(ctx context.Context) ([]models.Device, error) {
	var response struct {
		Devices []models.Device `json:"devices"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Devices, nil
}

// CurrentPlayback returns the player snapshot. The API answers 204 when nothing is playing, which yields nil.
func (s *SpotifyService) CurrentPlayback(ctx context.Context, market string) (*models.PlaybackContext, error) {
	var playback *models.PlaybackContext
	if err := s.doRequest(ctx, http.MethodGet, "/me/player", withMarket(nil, market), nil, &playback); err != nil {
		return nil, err
	}
	return playback, nil
}

// StartPlayback starts playback of a context or URI list on deviceID.
func (s *SpotifyService) StartPlayback(ctx context.Context, deviceID string, opts PlayOptions) error {
	opts = opts.Resolved()

	body := playBody{ContextURI: opts.ContextURI, URIs: opts.URIs}
	if opts.Offset != nil && (body.ContextURI != "" || len(body.URIs) > 0) {
		body.Offset = &playOffset{Position: *opts.Offset}
	}

	return s.doRequest(ctx, http.MethodPut, "/me/player/play", withDevice(deviceID), body, nil)
}

// PausePlayback pauses playback on deviceID.
func (s *SpotifyService) PausePlayback(ctx context.Context, deviceID string) error {
	return s.doRequest(ctx, http.MethodPut, "/me/player/pause", withDevice(deviceID), nil, nil)
}

// Seek moves the playhead of deviceID to positionMS.
func (s *SpotifyService) Seek(ctx context.Context, deviceID string, positionMS int) error {
	q := withDevice(deviceID)
	q.Set("position_ms", fmt.Sprint(positionMS))
	return s.doRequest(ctx, http.MethodPut, "/me/player/seek", q, nil, nil)
}

// NextTrack skips to the next track.
func (s *SpotifyService) NextTrack(ctx context.Context, deviceID string) error {
	return s.doRequest(ctx, http.MethodPost, "/me/player/next", withDevice(deviceID), nil, nil)
}

// PreviousTrack skips to the previous track.
func (s *SpotifyService) PreviousTrack(ctx context.Context, deviceID string) error {
	return s.doRequest(ctx, http.MethodPost, "/me/player/previous", withDevice(deviceID), nil, nil)
}

// SetShuffle toggles shuffle on deviceID.
func (s *SpotifyService) SetShuffle(ctx context.Context, deviceID string, state bool) error {
	q := withDevice(deviceID)
	q.Set("state", fmt.Sprint(state))
	return s.doRequest(ctx, http.MethodPut, "/me/player/shuffle", q, nil, nil)
}

// SetRepeat sets the repeat mode on deviceID.
func (s *SpotifyService) SetRepeat(ctx context.Context, deviceID string, state models.RepeatState) error {
	q := withDevice(deviceID)
	q.Set("state", string(state))
	return s.doRequest(ctx, http.MethodPut, "/me/player/repeat", q, nil, nil)
}

// SetVolume sets the volume of deviceID, clamped to 0..100.
func (s *SpotifyService) SetVolume(ctx context.Context, deviceID string, percent int) error {
	percent = max(0, min(100, percent))
	q := withDevice(deviceID)
	q.Set("volume_percent", fmt.Sprint(percent))
	return s.doRequest(ctx, http.MethodPut, "/me/player/volume", q, nil, nil)
}

// RecentlyPlayed returns up to limit recently played tracks.
func (s *SpotifyService) RecentlyPlayed(ctx context.Context, limit int) (*models.CursorPage[models.PlayHistory], error) {
	q := pageQuery(limit, 0)
	q.Del("offset")

	var page models.CursorPage[models.PlayHistory]
	if err := s.doRequest(ctx, http.MethodGet, "/me/player/recently-played", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
