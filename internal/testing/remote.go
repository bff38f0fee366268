package testing

import (
	"context"
	"slices"
	"sync"

	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/services"
	"github.com/desertthunder/sptx/internal/shared"
)

var _ services.Remote = (*StubRemote)(nil)

// Call is one recorded [StubRemote] invocation.
type Call struct {
	Method string
	Args   []any
}

// StubRemote is a test double for [services.Remote].
//
// Results come from the exported fields; nil pages are returned as empty pages.
// Errors maps a method name to the error it should return. Every call is recorded,
// including failed ones. Saved is the liked-track set and is updated by Add/RemoveSavedTracks.
type StubRemote struct {
	mu    sync.Mutex
	calls []Call

	Errors map[string]error

	User       *models.User
	DeviceList []models.Device
	Playback   *models.PlaybackContext
	Recent     *models.CursorPage[models.PlayHistory]

	Saved           map[string]bool
	SavedTrackPage  *models.Page[models.SavedTrack]
	SavedAlbumPage  *models.Page[models.SavedAlbum]
	Playlists       *models.Page[models.SimplifiedPlaylist]
	PlaylistItems   *models.Page[models.PlaylistTrack]
	Followed        *models.CursorPage[models.FullArtist]
	TrackResults    *models.Page[models.FullTrack]
	ArtistResults   *models.Page[models.FullArtist]
	AlbumResults    *models.Page[models.SimplifiedAlbum]
	PlaylistResults *models.Page[models.SimplifiedPlaylist]

	Catalog        map[string]models.FullTrack
	ArtistInfo     *models.FullArtist
	Albums         *models.Page[models.SimplifiedAlbum]
	TopTracks      []models.FullTrack
	Related        []models.FullArtist
	AlbumInfo      *models.FullAlbum
	AlbumTrackPage *models.Page[models.SimplifiedTrack]
	Recommended    *models.Recommendations
	Analysis       *models.AudioAnalysis
}

// NewStubRemote returns a stub with empty maps.
func NewStubRemote() *StubRemote {
	return &StubRemote{
		Errors:  map[string]error{},
		Saved:   map[string]bool{},
		Catalog: map[string]models.FullTrack{},
	}
}

func (s *StubRemote) record(method string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: method, Args: args})
	if s.Errors == nil {
		return nil
	}
	return s.Errors[method]
}

// Fail makes method return err.
func (s *StubRemote) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Errors == nil {
		s.Errors = map[string]error{}
	}
	s.Errors[method] = err
}

// Calls returns every recorded call in order.
func (s *StubRemote) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallsTo returns the recorded calls of method.
func (s *StubRemote) CallsTo(method string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Called reports whether method was invoked at least once.
func (s *StubRemote) Called(method string) bool {
	return len(s.CallsTo(method)) > 0
}

func pageOrEmpty[T any](p *models.Page[T]) *models.Page[T] {
	if p == nil {
		return &models.Page[T]{}
	}
	out := *p
	return &out
}

func (s *StubRemote) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := s.record("CurrentUser"); err != nil {
		return nil, err
	}
	if s.User == nil {
		return &models.User{}, nil
	}
	return s.User, nil
}

func (s *StubRemote) Devices(ctx context.Context) ([]models.Device, error) {
	if err := s.record("Devices"); err != nil {
		return nil, err
	}
	return s.DeviceList, nil
}

func (s *StubRemote) CurrentPlayback(ctx context.Context, market string) (*models.PlaybackContext, error) {
	if err := s.record("CurrentPlayback", market); err != nil {
		return nil, err
	}
	if s.Playback == nil {
		return nil, nil
	}
	pb := *s.Playback
	return &pb, nil
}

func (s *StubRemote) StartPlayback(ctx context.Context, deviceID string, opts services.PlayOptions) error {
	return s.record("StartPlayback", deviceID, opts)
}

func (s *StubRemote) PausePlayback(ctx context.Context, deviceID string) error {
	return s.record("PausePlayback", deviceID)
}

func (s *StubRemote) Seek(ctx context.Context, deviceID string, positionMS int) error {
	return s.record("Seek", deviceID, positionMS)
}

func (s *StubRemote) NextTrack(ctx context.Context, deviceID string) error {
	return s.record("NextTrack", deviceID)
}

func (s *StubRemote) PreviousTrack(ctx context.Context, deviceID string) error {
	return s.record("PreviousTrack", deviceID)
}

func (s *StubRemote) SetShuffle(ctx context.Context, deviceID string, state bool) error {
	return s.record("SetShuffle", deviceID, state)
}

func (s *StubRemote) SetRepeat(ctx context.Context, deviceID string, state models.RepeatState) error {
	return s.record("SetRepeat", deviceID, state)
}

func (s *StubRemote) SetVolume(ctx context.Context, deviceID string, percent int) error {
	return s.record("SetVolume", deviceID, percent)
}

func (s *StubRemote) RecentlyPlayed(ctx context.Context, limit int) (*models.CursorPage[models.PlayHistory], error) {
	if err := s.record("RecentlyPlayed", limit); err != nil {
		return nil, err
	}
	if s.Recent == nil {
		return &models.CursorPage[models.PlayHistory]{}, nil
	}
	return s.Recent, nil
}

func (s *StubRemote) SavedTracks(ctx context.Context, limit, offset int) (*models.Page[models.SavedTrack], error) {
	if err := s.record("SavedTracks", limit, offset); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.SavedTrackPage), nil
}

func (s *StubRemote) SavedTracksContains(ctx context.Context, ids []string) ([]bool, error) {
	if err := s.record("SavedTracksContains", slices.Clone(ids)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(ids))
	for i, id := range ids {
		out[i] = s.Saved[id]
	}
	return out, nil
}

func (s *StubRemote) AddSavedTracks(ctx context.Context, ids []string) error {
	if err := s.record("AddSavedTracks", slices.Clone(ids)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.Saved[id] = true
	}
	return nil
}

func (s *StubRemote) RemoveSavedTracks(ctx context.Context, ids []string) error {
	if err := s.record("RemoveSavedTracks", slices.Clone(ids)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.Saved, id)
	}
	return nil
}

func (s *StubRemote) SavedAlbums(ctx context.Context, limit, offset int) (*models.Page[models.SavedAlbum], error) {
	if err := s.record("SavedAlbums", limit, offset); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.SavedAlbumPage), nil
}

func (s *StubRemote) AddSavedAlbums(ctx context.Context, ids []string) error {
	return s.record("AddSavedAlbums", slices.Clone(ids))
}

func (s *StubRemote) RemoveSavedAlbums(ctx context.Context, ids []string) error {
	return s.record("RemoveSavedAlbums", slices.Clone(ids))
}

func (s *StubRemote) CurrentUserPlaylists(ctx context.Context, limit, offset int) (*models.Page[models.SimplifiedPlaylist], error) {
	if err := s.record("CurrentUserPlaylists", limit, offset); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.Playlists), nil
}

func (s *StubRemote) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int, market string) (*models.Page[models.PlaylistTrack], error) {
	if err := s.record("PlaylistTracks", playlistID, limit, offset); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.PlaylistItems), nil
}

func (s *StubRemote) FollowedArtists(ctx context.Context, limit int, after string) (*models.CursorPage[models.FullArtist], error) {
	if err := s.record("FollowedArtists", limit, after); err != nil {
		return nil, err
	}
	if s.Followed == nil {
		return &models.CursorPage[models.FullArtist]{}, nil
	}
	return s.Followed, nil
}

func (s *StubRemote) FollowArtists(ctx context.Context, ids []string) error {
	return s.record("FollowArtists", slices.Clone(ids))
}

func (s *StubRemote) UnfollowArtists(ctx context.Context, ids []string) error {
	return s.record("UnfollowArtists", slices.Clone(ids))
}

func (s *StubRemote) FollowPlaylist(ctx context.Context, playlistID string, public *bool) error {
	return s.record("FollowPlaylist", playlistID, public)
}

func (s *StubRemote) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	return s.record("UnfollowPlaylist", playlistID)
}

func (s *StubRemote) SearchTracks(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.FullTrack], error) {
	if err := s.record("SearchTracks", query, limit); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.TrackResults), nil
}

func (s *StubRemote) SearchArtists(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.FullArtist], error) {
	if err := s.record("SearchArtists", query, limit); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.ArtistResults), nil
}

func (s *StubRemote) SearchAlbums(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.SimplifiedAlbum], error) {
	if err := s.record("SearchAlbums", query, limit); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.AlbumResults), nil
}

func (s *StubRemote) SearchPlaylists(ctx context.Context, query string, limit, offset int, market string) (*models.Page[models.SimplifiedPlaylist], error) {
	if err := s.record("SearchPlaylists", query, limit); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.PlaylistResults), nil
}

func (s *StubRemote) Track(ctx context.Context, id, market string) (*models.FullTrack, error) {
	if err := s.record("Track", id); err != nil {
		return nil, err
	}
	t, ok := s.Catalog[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

// Tracks resolves ids through Catalog, skipping unknown ids like the API does.
func (s *StubRemote) Tracks(ctx context.Context, ids []string, market string) ([]models.FullTrack, error) {
	if err := s.record("Tracks", slices.Clone(ids)); err != nil {
		return nil, err
	}
	out := make([]models.FullTrack, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.Catalog[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *StubRemote) Artist(ctx context.Context, id string) (*models.FullArtist, error) {
	if err := s.record("Artist", id); err != nil {
		return nil, err
	}
	if s.ArtistInfo == nil {
		return &models.FullArtist{ID: id}, nil
	}
	return s.ArtistInfo, nil
}

func (s *StubRemote) ArtistAlbums(ctx context.Context, id string, limit, offset int, market string) (*models.Page[models.SimplifiedAlbum], error) {
	if err := s.record("ArtistAlbums", id, limit); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.Albums), nil
}

func (s *StubRemote) ArtistTopTracks(ctx context.Context, id, market string) ([]models.FullTrack, error) {
	if err := s.record("ArtistTopTracks", id); err != nil {
		return nil, err
	}
	return s.TopTracks, nil
}

func (s *StubRemote) RelatedArtists(ctx context.Context, id string) ([]models.FullArtist, error) {
	if err := s.record("RelatedArtists", id); err != nil {
		return nil, err
	}
	return s.Related, nil
}

func (s *StubRemote) Album(ctx context.Context, id, market string) (*models.FullAlbum, error) {
	if err := s.record("Album", id); err != nil {
		return nil, err
	}
	if s.AlbumInfo == nil {
		return &models.FullAlbum{ID: id}, nil
	}
	return s.AlbumInfo, nil
}

func (s *StubRemote) AlbumTracks(ctx context.Context, id string, limit, offset int) (*models.Page[models.SimplifiedTrack], error) {
	if err := s.record("AlbumTracks", id, limit); err != nil {
		return nil, err
	}
	return pageOrEmpty(s.AlbumTrackPage), nil
}

func (s *StubRemote) Recommendations(ctx context.Context, seeds services.Seeds, limit int, market string) (*models.Recommendations, error) {
	if err := s.record("Recommendations", seeds, limit); err != nil {
		return nil, err
	}
	if s.Recommended == nil {
		return &models.Recommendations{}, nil
	}
	return s.Recommended, nil
}

func (s *StubRemote) AudioAnalysis(ctx context.Context, trackID string) (*models.AudioAnalysis, error) {
	if err := s.record("AudioAnalysis", trackID); err != nil {
		return nil, err
	}
	if s.Analysis == nil {
		return &models.AudioAnalysis{}, nil
	}
	return s.Analysis, nil
}

// StubDevices is an in-memory device store. A nil *StubDevices has no device and rejects writes.
type StubDevices struct {
	mu  sync.Mutex
	ID  string
	Err error
}

func (d *StubDevices) DeviceID() (string, bool) {
	if d == nil {
		return "", false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ID, d.ID != ""
}

func (d *StubDevices) SetDeviceID(id string) error {
	if d == nil {
		return shared.ErrConfigWrite
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.ID = id
	return nil
}

// StubRefresher returns a fixed credential or error and counts calls.
type StubRefresher struct {
	Credential services.Credential
	Err        error
	Calls      int
}

func (r *StubRefresher) Refresh(ctx context.Context) (services.Credential, error) {
	r.Calls++
	if r.Err != nil {
		return services.Credential{}, r.Err
	}
	return r.Credential, nil
}
