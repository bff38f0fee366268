package services

import (
	"context"

	"github.com/desertthunder/sptx/internal/models"
)

// Remote is every Spotify operation the dispatcher performs.
//
// Implementations return typed results or an error; an [*APIError] for non-2xx responses.
type Remote interface {
	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*models.User, error)

	Player
	Library
	Catalog
}

// Player controls playback on a Spotify Connect device.
type Player interface {
	// Devices lists the user's available playback devices.
	Devices(ctx context.Context) ([]models.Device, error)

	// CurrentPlayback returns the player snapshot, or nil when nothing is playing.
	CurrentPlayback(ctx context.Context, market string) (*models.PlaybackContext, error)

	// StartPlayback starts or resumes playback on deviceID.
	StartPlayback(ctx context.Context, deviceID string, opts PlayOptions) error

	// PausePlayback pauses playback on deviceID.
	PausePlayback(ctx context.Context, deviceID string) error

	// Seek moves the playhead to positionMS.
	Seek(ctx context.Context, deviceID string, positionMS int) error

	// NextTrack skips to the next track in the queue.
	NextTrack(ctx context.Context, deviceID string) error

	// PreviousTrack skips to the previous track.
	PreviousTrack(ctx context.Context, deviceID string) error

	// SetShuffle turns shuffle on or off.
	SetShuffle(ctx context.Context, deviceID string, state bool) error

	// SetRepeat sets the repeat mode.
	SetRepeat(ctx context.Context, deviceID string, state models.RepeatState) error

	// SetVolume sets the device volume (0-100).
	SetVolume(ctx context.Context, deviceID string, percent int) error

	// RecentlyPlayed returns the most recently played tracks.
	RecentlyPlayed(ctx context.Context, limit int) (*models.CursorPage[models.PlayHistory], error)
}

// Library reads and mutates the user's saved items, playlists and follows.
type Library interface {
	SavedTracks(ctx context.Context, limit, offset int) (*models.Page[models.SavedTrack], error)

	// SavedTracksContains reports, per id and in order, whether the track is saved.
	SavedTracksContains(ctx context.Context, ids []string) ([]bool, error)
	AddSavedTracks(ctx context.Context, ids []string) error
	RemoveSavedTracks(ctx context.Context, ids []string) error

	SavedAlbums(ctx context.Context, limit, offset int) (*models.Page[models.SavedAlbum], error)
	AddSavedAlbums(ctx context.Context, ids []string) error
	RemoveSavedAlbums(ctx context.Context, ids []string) error

	CurrentUserPlaylists(ctx context.Context, limit, offset int) (*models.Page[models.SimplifiedPlaylist], error)
	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int, market string) (*models.Page[models.PlaylistTrack], error)

	// FollowedArtists pages through followed artists using the after cursor.
	FollowedArtists(ctx context.Context, limit int, after string) (*models.CursorPage[models.FullArtist], error)
	FollowArtists(ctx context.Context, ids []string) error
	UnfollowArtists(ctx context.Context, ids []string) error

	// FollowPlaylist follows a playlist; a nil public keeps the API default.
	FollowPlaylist(ctx context.Context, playlistID string, public *bool) error
	UnfollowPlaylist(ctx context.Context, playlistID string) error
}

// Catalog covers search, lookups, recommendations and analysis.
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.FullTrack], error)
	SearchArtists(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.FullArtist], error)
	SearchAlbums(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.SimplifiedAlbum], error)
	SearchPlaylists(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.SimplifiedPlaylist], error)

	Track(ctx context.Context, id, market string) (*models.FullTrack, error)
	// Tracks fetches full tracks by id, in request order.
	Tracks(ctx context.Context, ids []string, market string) ([]models.FullTrack, error)

	Artist(ctx context.Context, id string) (*models.FullArtist, error)
	ArtistAlbums(ctx context.Context, id string, limit, offset int, market string) (*models.Page[models.SimplifiedAlbum], error)
	ArtistTopTracks(ctx context.Context, id, market string) ([]models.FullTrack, error)
	RelatedArtists(ctx context.Context, id string) ([]models.FullArtist, error)

	Album(ctx context.Context, id, market string) (*models.FullAlbum, error)
	AlbumTracks(ctx context.Context, id string, limit, offset int) (*models.Page[models.SimplifiedTrack], error)

	Recommendations(ctx context.Context, seeds Seeds, limit int, market string) (*models.Recommendations, error)
	AudioAnalysis(ctx context.Context, trackID string) (*models.AudioAnalysis, error)
}

// PlayOptions selects what StartPlayback plays.
//
// ContextURI takes precedence over URIs; with neither set the current context resumes.
type PlayOptions struct {
	ContextURI string
	URIs       []string
	Offset     *int // position in the context or URI list
}

// Resolved returns a copy holding exactly one of ContextURI or URIs.
func (o PlayOptions) Resolved() PlayOptions {
	if o.ContextURI != "" {
		o.URIs = nil
	}
	return o
}

// Seeds are the inputs to the recommendations endpoint.
type Seeds struct {
	Artists []string
	Tracks  []string
	Genres  []string
}

// Empty reports whether no seed was supplied.
func (s Seeds) Empty() bool {
	return len(s.Artists) == 0 && len(s.Tracks) == 0 && len(s.Genres) == 0
}
