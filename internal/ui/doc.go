// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The [Model] never calls Spotify itself. Key presses become [tasks.Command] values sent through a [tasks.Queue];
// the dispatcher runs them on its own goroutine and writes results into the shared [state.Store], which View reads
// under the store's lock. Each finished command arrives back as an event so the screen re-renders promptly.
//
// A one second tick advances the progress bar, polls the player once the configured interval has passed since the
// last poll, and enqueues a token refresh shortly before the access token expires.
//
// The body follows the top of the navigation stack: playlists on the home route, the track table for playlists,
// liked songs, search and recommendations, and the device picker. Esc pops the stack.
package ui
