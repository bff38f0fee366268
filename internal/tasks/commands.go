package tasks

import (
	"github.com/desertthunder/sptx/internal/models"
)

// Command is one user-triggered action. The set is closed: only this package can implement it.
type Command interface {
	Kind() CommandKind
	command()
}

// CommandKind enumerates every [Command].
type CommandKind int

const (
	KindRefreshAuthentication CommandKind = iota
	KindGetUser
	KindGetPlaylists
	KindGetDevices
	KindGetCurrentPlayback
	KindGetSearchResults
	KindSetTracksToTable
	KindGetPlaylistTracks
	KindGetMadeForYouPlaylistTracks
	KindGetCurrentSavedTracks
	KindStartPlayback
	KindUpdateSearchLimits
	KindSeek
	KindNextTrack
	KindPreviousTrack
	KindPausePlayback
	KindShuffle
	KindRepeat
	KindChangeVolume
	KindGetArtist
	KindGetAlbumTracks
	KindGetAlbum
	KindGetRecommendationsForSeed
	KindGetRecommendationsForTrackID
	KindGetCurrentUserSavedAlbums
	KindCurrentUserSavedAlbumAdd
	KindCurrentUserSavedAlbumDelete
	KindUserFollowArtists
	KindUserUnfollowArtists
	KindUserFollowPlaylist
	KindUserUnfollowPlaylist
	KindMadeForYouSearchAndAdd
	KindGetAudioAnalysis
	KindToggleSaveTrack
	KindGetRecentlyPlayed
	KindGetFollowedArtists
	KindSetDeviceIDInConfig
)

func (k CommandKind) String() string {
	switch k {
	case KindRefreshAuthentication:
		return "refresh_authentication"
	case KindGetUser:
		return "get_user"
	case KindGetPlaylists:
		return "get_playlists"
	case KindGetDevices:
		return "get_devices"
	case KindGetCurrentPlayback:
		return "get_current_playback"
	case KindGetSearchResults:
		return "get_search_results"
	case KindSetTracksToTable:
		return "set_tracks_to_table"
	case KindGetPlaylistTracks:
		return "get_playlist_tracks"
	case KindGetMadeForYouPlaylistTracks:
		return "get_made_for_you_playlist_tracks"
	case KindGetCurrentSavedTracks:
		return "get_current_saved_tracks"
	case KindStartPlayback:
		return "start_playback"
	case KindUpdateSearchLimits:
		return "update_search_limits"
	case KindSeek:
		return "seek"
	case KindNextTrack:
		return "next_track"
	case KindPreviousTrack:
		return "previous_track"
	case KindPausePlayback:
		return "pause_playback"
	case KindShuffle:
		return "shuffle"
	case KindRepeat:
		return "repeat"
	case KindChangeVolume:
		return "change_volume"
	case KindGetArtist:
		return "get_artist"
	case KindGetAlbumTracks:
		return "get_album_tracks"
	case KindGetAlbum:
		return "get_album"
	case KindGetRecommendationsForSeed:
		return "get_recommendations_for_seed"
	case KindGetRecommendationsForTrackID:
		return "get_recommendations_for_track_id"
	case KindGetCurrentUserSavedAlbums:
		return "get_current_user_saved_albums"
	case KindCurrentUserSavedAlbumAdd:
		return "current_user_saved_album_add"
	case KindCurrentUserSavedAlbumDelete:
		return "current_user_saved_album_delete"
	case KindUserFollowArtists:
		return "user_follow_artists"
	case KindUserUnfollowArtists:
		return "user_unfollow_artists"
	case KindUserFollowPlaylist:
		return "user_follow_playlist"
	case KindUserUnfollowPlaylist:
		return "user_unfollow_playlist"
	case KindMadeForYouSearchAndAdd:
		return "made_for_you_search_and_add"
	case KindGetAudioAnalysis:
		return "get_audio_analysis"
	case KindToggleSaveTrack:
		return "toggle_save_track"
	case KindGetRecentlyPlayed:
		return "get_recently_played"
	case KindGetFollowedArtists:
		return "get_followed_artists"
	case KindSetDeviceIDInConfig:
		return "set_device_id_in_config"
	default:
		return ""
	}
}

type (
	// RefreshAuthentication exchanges the refresh token for a new access token.
	RefreshAuthentication struct{}

	// GetUser loads the current user's profile.
	GetUser struct{}

	// GetPlaylists loads the current user's playlists.
	GetPlaylists struct{}

	// GetDevices loads playback devices and opens the device picker.
	GetDevices struct{}

	// GetCurrentPlayback refreshes the player snapshot.
	GetCurrentPlayback struct{}

	// GetSearchResults searches tracks, artists, albums and playlists at once.
	GetSearchResults struct {
		Query   string
		Country string
	}

	// SetTracksToTable shows Tracks in the track table after a liked check.
	SetTracksToTable struct {
		Tracks []models.FullTrack
	}

	// GetPlaylistTracks loads one page of a playlist.
	GetPlaylistTracks struct {
		PlaylistID string
		Offset     int
	}

	// GetMadeForYouPlaylistTracks loads one page of a Spotify-curated playlist.
	GetMadeForYouPlaylistTracks struct {
		PlaylistID string
		Offset     int
	}

	// GetCurrentSavedTracks loads a page of liked songs.
	GetCurrentSavedTracks struct {
		Offset         *int
		ShouldNavigate bool
	}

	// StartPlayback plays a context or an explicit list of track URIs.
	StartPlayback struct {
		ContextURI string
		URIs       []string
		Offset     *int
	}

	// UpdateSearchLimits replaces the page sizes for list views (Large) and search (Small).
	UpdateSearchLimits struct {
		Large int
		Small int
	}

	Seek struct {
		PositionMS int
	}

	NextTrack struct{}

	PreviousTrack struct{}

	PausePlayback struct{}

	// Shuffle toggles shuffle away from Current.
	Shuffle struct {
		Current bool
	}

	// Repeat rotates the repeat mode on from Current.
	Repeat struct {
		Current models.RepeatState
	}

	ChangeVolume struct {
		Percent int
	}

	// GetArtist loads the artist view; an empty ArtistName is looked up.
	GetArtist struct {
		ArtistID   string
		ArtistName string
		Country    string
	}

	GetAlbumTracks struct {
		Album models.SimplifiedAlbum
	}

	GetAlbum struct {
		AlbumID string
	}

	// GetRecommendationsForSeed builds a radio from seeds and starts playing it.
	GetRecommendationsForSeed struct {
		SeedArtists []string
		SeedTracks  []string
		FirstTrack  *models.FullTrack
		Country     string
	}

	// GetRecommendationsForTrackID builds a radio from one track.
	GetRecommendationsForTrackID struct {
		TrackID string
		Country string
	}

	GetCurrentUserSavedAlbums struct {
		Offset *int
	}

	CurrentUserSavedAlbumAdd struct {
		AlbumID string
	}

	CurrentUserSavedAlbumDelete struct {
		AlbumID string
	}

	UserFollowArtists struct {
		ArtistIDs []string
	}

	UserUnfollowArtists struct {
		ArtistIDs []string
	}

	UserFollowPlaylist struct {
		PlaylistID string
		Public     *bool
	}

	UserUnfollowPlaylist struct {
		PlaylistID string
	}

	// MadeForYouSearchAndAdd finds a Spotify-owned playlist named Query and adds it to the made-for-you list.
	MadeForYouSearchAndAdd struct {
		Query   string
		Country string
	}

	GetAudioAnalysis struct {
		URI string
	}

	// ToggleSaveTrack likes or unlikes a track depending on its current status.
	ToggleSaveTrack struct {
		TrackID string
	}

	GetRecentlyPlayed struct{}

	// GetFollowedArtists loads followed artists after the given cursor.
	GetFollowedArtists struct {
		After string
	}

	// SetDeviceIDInConfig persists the selected playback device.
	SetDeviceIDInConfig struct {
		DeviceID string
	}
)

func (RefreshAuthentication) Kind() CommandKind        { return KindRefreshAuthentication }
func (GetUser) Kind() CommandKind                      { return KindGetUser }
func (GetPlaylists) Kind() CommandKind                 { return KindGetPlaylists }
func (GetDevices) Kind() CommandKind                   { return KindGetDevices }
func (GetCurrentPlayback) Kind() CommandKind           { return KindGetCurrentPlayback }
func (GetSearchResults) Kind() CommandKind             { return KindGetSearchResults }
func (SetTracksToTable) Kind() CommandKind             { return KindSetTracksToTable }
func (GetPlaylistTracks) Kind() CommandKind            { return KindGetPlaylistTracks }
func (GetMadeForYouPlaylistTracks) Kind() CommandKind  { return KindGetMadeForYouPlaylistTracks }
func (GetCurrentSavedTracks) Kind() CommandKind        { return KindGetCurrentSavedTracks }
func (StartPlayback) Kind() CommandKind                { return KindStartPlayback }
func (UpdateSearchLimits) Kind() CommandKind           { return KindUpdateSearchLimits }
func (Seek) Kind() CommandKind                         { return KindSeek }
func (NextTrack) Kind() CommandKind                    { return KindNextTrack }
func (PreviousTrack) Kind() CommandKind                { return KindPreviousTrack }
func (PausePlayback) Kind() CommandKind                { return KindPausePlayback }
func (Shuffle) Kind() CommandKind                      { return KindShuffle }
func (Repeat) Kind() CommandKind                       { return KindRepeat }
func (ChangeVolume) Kind() CommandKind                 { return KindChangeVolume }
func (GetArtist) Kind() CommandKind                    { return KindGetArtist }
func (GetAlbumTracks) Kind() CommandKind               { return KindGetAlbumTracks }
func (GetAlbum) Kind() CommandKind                     { return KindGetAlbum }
func (GetRecommendationsForSeed) Kind() CommandKind    { return KindGetRecommendationsForSeed }
func (GetRecommendationsForTrackID) Kind() CommandKind { return KindGetRecommendationsForTrackID }
func (GetCurrentUserSavedAlbums) Kind() CommandKind    { return KindGetCurrentUserSavedAlbums }
func (CurrentUserSavedAlbumAdd) Kind() CommandKind     { return KindCurrentUserSavedAlbumAdd }
func (CurrentUserSavedAlbumDelete) Kind() CommandKind  { return KindCurrentUserSavedAlbumDelete }
func (UserFollowArtists) Kind() CommandKind            { return KindUserFollowArtists }
func (UserUnfollowArtists) Kind() CommandKind          { return KindUserUnfollowArtists }
func (UserFollowPlaylist) Kind() CommandKind           { return KindUserFollowPlaylist }
func (UserUnfollowPlaylist) Kind() CommandKind         { return KindUserUnfollowPlaylist }
func (MadeForYouSearchAndAdd) Kind() CommandKind       { return KindMadeForYouSearchAndAdd }
func (GetAudioAnalysis) Kind() CommandKind             { return KindGetAudioAnalysis }
func (ToggleSaveTrack) Kind() CommandKind              { return KindToggleSaveTrack }
func (GetRecentlyPlayed) Kind() CommandKind            { return KindGetRecentlyPlayed }
func (GetFollowedArtists) Kind() CommandKind           { return KindGetFollowedArtists }
func (SetDeviceIDInConfig) Kind() CommandKind          { return KindSetDeviceIDInConfig }

func (RefreshAuthentication) command()        {}
func (GetUser) command()                      {}
func (GetPlaylists) command()                 {}
func (GetDevices) command()                   {}
func (GetCurrentPlayback) command()           {}
func (GetSearchResults) command()             {}
func (SetTracksToTable) command()             {}
func (GetPlaylistTracks) command()            {}
func (GetMadeForYouPlaylistTracks) command()  {}
func (GetCurrentSavedTracks) command()        {}
func (StartPlayback) command()                {}
func (UpdateSearchLimits) command()           {}
func (Seek) command()                         {}
func (NextTrack) command()                    {}
func (PreviousTrack) command()                {}
func (PausePlayback) command()                {}
func (Shuffle) command()                      {}
func (Repeat) command()                       {}
func (ChangeVolume) command()                 {}
func (GetArtist) command()                    {}
func (GetAlbumTracks) command()               {}
func (GetAlbum) command()                     {}
func (GetRecommendationsForSeed) command()    {}
func (GetRecommendationsForTrackID) command() {}
func (GetCurrentUserSavedAlbums) command()    {}
func (CurrentUserSavedAlbumAdd) command()     {}
func (CurrentUserSavedAlbumDelete) command()  {}
func (UserFollowArtists) command()            {}
func (UserUnfollowArtists) command()          {}
func (UserFollowPlaylist) command()           {}
func (UserUnfollowPlaylist) command()         {}
func (MadeForYouSearchAndAdd) command()       {}
func (GetAudioAnalysis) command()             {}
func (ToggleSaveTrack) command()              {}
func (GetRecentlyPlayed) command()            {}
func (GetFollowedArtists) command()           {}
func (SetDeviceIDInConfig) command()          {}
