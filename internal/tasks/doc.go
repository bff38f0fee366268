// Package tasks turns user commands into Spotify calls and writes the results into the shared state.
//
// # Commands
//
// [Command] is a closed set of structs, one per action (playback transport, library reads,
// search, recommendations, follows, device selection). [CommandKind] names them in logs.
//
// # Dispatch
//
// [Dispatcher] runs one command at a time:
//
//  1. The handler performs its remote calls. Independent calls (the four search facets,
//     an artist's albums/top tracks/related artists) run concurrently in an errgroup;
//     one failure drops the whole result.
//  2. Completed results are merged into [state.Store] in short Update closures.
//     The lock is never held across a remote call.
//  3. The loading flag is cleared and an [Event] is sent without blocking.
//
// Failures never escape: they are logged and recorded with [state.App.HandleError].
//
// # Playback
//
// Transport commands need the configured device id and fail with [shared.ErrNoDevice] otherwise.
// Shuffle, repeat and volume patch the snapshot as soon as the call succeeds; the other
// transport commands re-fetch the player instead. A full re-fetch always replaces the snapshot.
//
// # Queue
//
// The UI sends through [Queue], which sets the loading flag and enqueues without blocking.
// [Dispatcher.Run] drains the queue on its own goroutine.
package tasks
