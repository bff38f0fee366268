// Package server runs the local HTTP endpoint that completes the Spotify OAuth authorization code flow.
//
// # Router Infrastructure
//
// [BasicRouter] implements [Router] on [http.ServeMux]. [Middleware] is applied so the first one added is outermost;
// [RequestLogger] and [Recoverer] are the two in use.
//
// # OAuth Callback
//
// [OAuthHandler] serves the path of the configured redirect URI. It checks the state parameter, exchanges the code
// using the request context and delivers a single [OAuthResult].
//
// [CallbackServer] binds the listener up front, serves until the result arrives and then shuts down.
package server
