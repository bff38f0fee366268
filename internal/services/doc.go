// Package services defines the [Remote] interface the dispatcher drives and implements it for the Spotify Web API.
//
// # Remote Interface
//
// [Remote] groups every call the client makes into [Player], [Library] and [Catalog].
// Tests substitute a stub so dispatcher behavior can be checked without the network.
//
// # Spotify Implementation
//
// [SpotifyService] sends JSON requests to https://api.spotify.com/v1, throttled by a [rate.Limiter].
// Access tokens come from an [oauth2.TokenSource]; in the application that is a [CredentialManager].
//
// Id lists are sent in batches of 50. A 204 response decodes to a nil result
// (CurrentPlayback returns nil when nothing is playing).
//
// # Credentials
//
// [CredentialManager] holds one access token and treats it as expired 10 seconds early.
// It never refreshes on its own; the dispatcher calls [CredentialManager.Refresh] for a
// RefreshAuthentication command and the refresh callback persists the new token.
//
// # Error Handling
//
// Non-2xx responses become an [*APIError] that unwraps to a shared sentinel:
//   - [shared.ErrTokenExpired] : 401
//   - [shared.ErrForbidden] : 403 (premium required, restricted device)
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrRateLimited] : 429, with RetryAfter set from the header
//   - [shared.ErrServiceUnavailable] : 502, 503
//   - [shared.ErrAPIRequest] : anything else, and transport failures
package services
