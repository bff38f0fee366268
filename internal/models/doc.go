// Package models defines the Spotify Web API objects used across sptx.
//
// The types mirror the JSON returned by https://developer.spotify.com/documentation/web-api/reference/
// and are shared by the HTTP client (services), the in-memory application state (state) and the
// command dispatcher (tasks):
//   - Catalog objects: [FullTrack], [SimplifiedTrack], [FullAlbum], [SimplifiedAlbum], [FullArtist], [SimplifiedPlaylist]
//   - Library objects: [SavedTrack], [SavedAlbum], [PlaylistTrack], [PlayHistory]
//   - Player objects: [PlaybackContext], [Device], [RepeatState]
//   - Pagination: [Page] for offset-paged responses and [CursorPage] for cursor-paged ones
//
// Identifiers are plain strings. [IDFromURI] converts a spotify:type:id URI to its id.
package models
