// package models defines the Spotify Web API objects shared by the client, state and dispatcher
package models

import (
	"strings"
	"time"
)

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Followers holds a follower count.
type Followers struct {
	Total int `json:"total"`
}

// ExternalIDs holds cross-catalog identifiers.
type ExternalIDs struct {
	ISRC string `json:"isrc,omitempty"`
}

// User represents a Spotify user profile.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Country     string    `json:"country,omitempty"`
	Product     string    `json:"product,omitempty"` // premium, free, etc.
	URI         string    `json:"uri"`
	Followers   Followers `json:"followers"`
	Images      []Image   `json:"images,omitempty"`
}

// SimplifiedArtist is the artist reference embedded in tracks and albums.
type SimplifiedArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// FullArtist represents a Spotify artist.
type FullArtist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URI        string    `json:"uri"`
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Followers  Followers `json:"followers"`
	Images     []Image   `json:"images,omitempty"`
}

// SimplifiedAlbum is the album reference embedded in tracks and listings.
type SimplifiedAlbum struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	URI         string             `json:"uri"`
	AlbumType   string             `json:"album_type"`
	ReleaseDate string             `json:"release_date"`
	TotalTracks int                `json:"total_tracks"`
	Artists     []SimplifiedArtist `json:"artists"`
	Images      []Image            `json:"images,omitempty"`
}

// FullAlbum represents an album with its first page of tracks.
type FullAlbum struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	URI         string                `json:"uri"`
	AlbumType   string                `json:"album_type"`
	ReleaseDate string                `json:"release_date"`
	TotalTracks int                   `json:"total_tracks"`
	Label       string                `json:"label,omitempty"`
	Genres      []string              `json:"genres,omitempty"`
	Popularity  int                   `json:"popularity"`
	Artists     []SimplifiedArtist    `json:"artists"`
	Images      []Image               `json:"images,omitempty"`
	Tracks      Page[SimplifiedTrack] `json:"tracks"`
}

// Simplified drops the track listing.
func (a FullAlbum) Simplified() SimplifiedAlbum {
	return SimplifiedAlbum{
		ID:          a.ID,
		Name:        a.Name,
		URI:         a.URI,
		AlbumType:   a.AlbumType,
		ReleaseDate: a.ReleaseDate,
		TotalTracks: a.TotalTracks,
		Artists:     a.Artists,
		Images:      a.Images,
	}
}

// SimplifiedTrack is a track without album information (album listings, recommendations).
type SimplifiedTrack struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	URI         string             `json:"uri"`
	DurationMS  int                `json:"duration_ms"`
	Explicit    bool               `json:"explicit"`
	TrackNumber int                `json:"track_number"`
	DiscNumber  int                `json:"disc_number"`
	Artists     []SimplifiedArtist `json:"artists"`
}

// FullTrack represents a Spotify track.
type FullTrack struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	URI         string             `json:"uri"`
	DurationMS  int                `json:"duration_ms"`
	Explicit    bool               `json:"explicit"`
	TrackNumber int                `json:"track_number"`
	DiscNumber  int                `json:"disc_number"`
	Popularity  int                `json:"popularity"`
	Artists     []SimplifiedArtist `json:"artists"`
	Album       SimplifiedAlbum    `json:"album"`
	ExternalIDs ExternalIDs        `json:"external_ids"`
}

// ArtistNames joins the track's artist names with ", ".
func (t FullTrack) ArtistNames() string {
	return JoinArtists(t.Artists)
}

// JoinArtists joins artist names with ", ".
func JoinArtists(artists []SimplifiedArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// SavedTrack represents a track saved in the user's library.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at"`
	Track   FullTrack `json:"track"`
}

// SavedAlbum represents an album saved in the user's library.
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at"`
	Album   FullAlbum `json:"album"`
}

// PlaylistOwner is the owner reference embedded in playlists.
type PlaylistOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlaylistTracksRef is the track summary embedded in simplified playlists.
type PlaylistTracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// SimplifiedPlaylist represents a playlist in listings and search results.
type SimplifiedPlaylist struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	URI           string            `json:"uri"`
	Public        bool              `json:"public"`
	Collaborative bool              `json:"collaborative"`
	Owner         PlaylistOwner     `json:"owner"`
	Tracks        PlaylistTracksRef `json:"tracks"`
	Images        []Image           `json:"images,omitempty"`
}

// PlaylistTrack represents a track within a playlist context.
//
// Track is the zero value for removed or unavailable entries.
type PlaylistTrack struct {
	AddedAt time.Time `json:"added_at"`
	IsLocal bool      `json:"is_local"`
	Track   FullTrack `json:"track"`
}

// RecommendationSeed describes one seed used to generate recommendations.
type RecommendationSeed struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	InitialPoolSize    int    `json:"initialPoolSize"`
	AfterFilteringSize int    `json:"afterFilteringSize"`
}

// Recommendations is the response of the recommendations endpoint.
type Recommendations struct {
	Seeds  []RecommendationSeed `json:"seeds"`
	Tracks []SimplifiedTrack    `json:"tracks"`
}

// TimeInterval is a bar, beat or tatum in an audio analysis.
type TimeInterval struct {
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
}

// AnalysisSection is a large-scale variation in rhythm or timbre.
type AnalysisSection struct {
	TimeInterval
	Loudness      float64 `json:"loudness"`
	Tempo         float64 `json:"tempo"`
	Key           int     `json:"key"`
	Mode          int     `json:"mode"`
	TimeSignature int     `json:"time_signature"`
}

// AnalysisSegment is a short, roughly consistent sound.
type AnalysisSegment struct {
	TimeInterval
	LoudnessStart float64   `json:"loudness_start"`
	LoudnessMax   float64   `json:"loudness_max"`
	Pitches       []float64 `json:"pitches"`
	Timbre        []float64 `json:"timbre"`
}

// AnalysisTrack holds whole-track audio attributes.
type AnalysisTrack struct {
	Duration      float64 `json:"duration"`
	Loudness      float64 `json:"loudness"`
	Tempo         float64 `json:"tempo"`
	Key           int     `json:"key"`
	Mode          int     `json:"mode"`
	TimeSignature int     `json:"time_signature"`
}

// AudioAnalysis is a track's low-level audio analysis.
type AudioAnalysis struct {
	Track    AnalysisTrack     `json:"track"`
	Bars     []TimeInterval    `json:"bars"`
	Beats    []TimeInterval    `json:"beats"`
	Tatums   []TimeInterval    `json:"tatums"`
	Sections []AnalysisSection `json:"sections"`
	Segments []AnalysisSegment `json:"segments"`
}

// SectionAt returns the index of the section containing the position, or -1.
func (a *AudioAnalysis) SectionAt(seconds float64) int {
	for i, s := range a.Sections {
		if seconds >= s.Start && seconds < s.Start+s.Duration {
			return i
		}
	}
	return -1
}

// PlayHistory is one entry of the recently played list.
type PlayHistory struct {
	Track    FullTrack `json:"track"`
	PlayedAt time.Time `json:"played_at"`
	Context  *Context  `json:"context"`
}

// IDFromURI returns the final segment of a Spotify URI ("spotify:track:abc" -> "abc").
//
// Values without a colon are returned unchanged.
func IDFromURI(uri string) string {
	if i := strings.LastIndexByte(uri, ':'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// TrackIDs returns the non-empty ids of tracks in order.
func TrackIDs(tracks []FullTrack) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// TrackURIs returns the uris of tracks in order.
func TrackURIs(tracks []FullTrack) []string {
	uris := make([]string, 0, len(tracks))
	for _, t := range tracks {
		uris = append(uris, t.URI)
	}
	return uris
}
