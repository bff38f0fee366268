// Spotify Web API implementation of [Remote]
//
// Response types live in models, based on https://developer.spotify.com/documentation/web-api/reference/

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// DefaultRedirectURI is used when the config leaves redirect_uri empty.
	DefaultRedirectURI = "http://127.0.0.1:3000/callback"

	maxPageSize = 50
	maxIDs      = 50
)

// Scopes requested during authorization.
var Scopes = []string{
	"playlist-read-collaborative",
	"playlist-read-private",
	"playlist-modify-private",
	"playlist-modify-public",
	"user-follow-read",
	"user-follow-modify",
	"user-library-modify",
	"user-library-read",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-playback-state",
	"user-read-playback-position",
	"user-read-private",
	"user-read-recently-played",
}

var _ Remote = (*SpotifyService)(nil)

// SpotifyService implements [Remote] for the Spotify Web API.
//
// Requests are authorized with tokens from an [oauth2.TokenSource] (normally a [CredentialManager])
// and throttled by a [rate.Limiter].
type SpotifyService struct {
	config     *oauth2.Config
	source     oauth2.TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	logger     *log.Logger
}

// Option configures a [SpotifyService].
type Option func(*SpotifyService)

// WithHTTPClient replaces [http.DefaultClient].
func WithHTTPClient(c *http.Client) Option {
	return func(s *SpotifyService) { s.httpClient = c }
}

// WithBaseURL points the client at another API root (tests use an httptest server).
func WithBaseURL(u string) Option {
	return func(s *SpotifyService) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithTokenSource sets the source of access tokens.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(s *SpotifyService) { s.source = ts }
}

// WithRateLimit allows rps requests per second with the given burst; rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *SpotifyService) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *SpotifyService) { s.logger = l }
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...Option) (*SpotifyService, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
		baseURL:    spotifyBaseURL,
		logger:     log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// OAuthConfig returns the authorization-code flow configuration.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenSource swaps the source of access tokens.
func (s *SpotifyService) SetTokenSource(ts oauth2.TokenSource) {
	s.source = ts
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// body is JSON encoded when non-nil; result is decoded when non-nil and the response has content.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	if s.source == nil {
		return fmt.Errorf("%w: no token source configured", shared.ErrNotAuthenticated)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	token, err := s.source.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	s.logger.Debug("spotify request", "method", method, "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, data)
	}

	if result != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// pageQuery clamps limit to 1..50 and offset to >= 0.
func pageQuery(limit, offset int) url.Values {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	return q
}

func withMarket(q url.Values, market string) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if market != "" {
		q.Set("market", market)
	}
	return q
}

func withDevice(deviceID string) url.Values {
	q := url.Values{}
	if deviceID != "" {
		q.Set("device_id", deviceID)
	}
	return q
}

// chunkIDs splits ids into batches the API accepts.
func chunkIDs(ids []string) [][]string {
	var chunks [][]string
	for len(ids) > maxIDs {
		chunks = append(chunks, ids[:maxIDs])
		ids = ids[maxIDs:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func idQuery(ids []string) url.Values {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	return q
}

// forEachChunk runs fn over ids in API-sized batches, stopping at the first error.
func forEachChunk(ids []string, fn func(chunk []string) error) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no ids provided", shared.ErrMissingArgument)
	}
	for _, chunk := range chunkIDs(ids) {
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}
