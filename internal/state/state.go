// package state holds the shared application state written by the dispatcher and read by the UI
package state

import (
	"sync"
	"time"

	"github.com/desertthunder/sptx/internal/models"
)

// Store guards the single [App] with one mutex.
//
// Every access is a short closure; callers must not perform remote calls inside one.
type Store struct {
	mu  sync.Mutex
	app *App
}

// New returns a store holding a fresh [App].
func New() *Store {
	return &Store{app: NewApp()}
}

// Update runs fn with exclusive access to the state.
func (s *Store) Update(fn func(*App)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.app)
}

// View runs fn with exclusive access to the state; fn must not mutate it.
func (s *Store) View(fn func(*App)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.app)
}

// TrackTable is the list shown in the main track view.
type TrackTable struct {
	Tracks  []models.FullTrack
	Context TrackTableContext
}

// SearchResults holds the four facets of the last search.
type SearchResults struct {
	Query     string
	Tracks    *models.Page[models.FullTrack]
	Artists   *models.Page[models.FullArtist]
	Albums    *models.Page[models.SimplifiedAlbum]
	Playlists *models.Page[models.SimplifiedPlaylist]
}

// Library holds the paginated collections of the user's library.
type Library struct {
	SavedTracks         Pages[models.SavedTrack]
	SavedAlbums         Pages[models.SavedAlbum]
	SavedArtists        Pages[models.FullArtist]
	MadeForYouPlaylists Pages[models.SimplifiedPlaylist]
}

// ArtistDetail is the artist view: albums, top tracks and related artists.
type ArtistDetail struct {
	ID             string
	Name           string
	Albums         models.Page[models.SimplifiedAlbum]
	TopTracks      []models.FullTrack
	RelatedArtists []models.FullArtist
}

// SelectedAlbum is an album opened from a listing along with its tracks.
type SelectedAlbum struct {
	Album  models.SimplifiedAlbum
	Tracks models.Page[models.SimplifiedTrack]
}

// App is everything the UI can display.
type App struct {
	IsLoading bool

	APIError  string
	LastError error
	ErrorAt   time.Time

	User                *models.User
	Devices             []models.Device
	SelectedDeviceIndex int

	Playlists             *models.Page[models.SimplifiedPlaylist]
	SelectedPlaylistIndex int

	CurrentPlayback  *models.PlaybackContext
	LastPlaybackPoll time.Time
	SongProgressMS   int

	LikedSongIDs map[string]struct{}

	TrackTable       TrackTable
	PlaylistTracks   *models.Page[models.PlaylistTrack]
	MadeForYouTracks *models.Page[models.PlaylistTrack]
	SearchResults    SearchResults
	Library          Library
	FollowedArtists  []models.FullArtist
	Artist           *ArtistDetail

	SelectedAlbumSimplified *SelectedAlbum
	SelectedAlbumFull       *models.FullAlbum
	AlbumTableContext       AlbumTableContext

	RecommendedTracks []models.FullTrack
	AudioAnalysis     *models.AudioAnalysis
	RecentlyPlayed    *models.CursorPage[models.PlayHistory]

	NavigationStack []Route
}

// NewApp returns the state at process start: empty collections and the Home route.
func NewApp() *App {
	return &App{
		LikedSongIDs:    map[string]struct{}{},
		NavigationStack: []Route{{ID: RouteHome, ActiveBlock: BlockEmpty}},
	}
}

// IsLiked reports whether id is in the liked-track set.
func (a *App) IsLiked(id string) bool {
	_, ok := a.LikedSongIDs[id]
	return ok
}

// SetLiked adds or removes id from the liked-track set.
func (a *App) SetLiked(id string, liked bool) {
	if liked {
		a.LikedSongIDs[id] = struct{}{}
		return
	}
	delete(a.LikedSongIDs, id)
}

// ApplyMembership merges a saved-tracks check: saved[i] is the status of ids[i].
func (a *App) ApplyMembership(ids []string, saved []bool) {
	for i, id := range ids {
		if i >= len(saved) {
			return
		}
		a.SetLiked(id, saved[i])
	}
}

// CurrentRoute is the top of the navigation stack.
func (a *App) CurrentRoute() Route {
	if len(a.NavigationStack) == 0 {
		return Route{ID: RouteHome, ActiveBlock: BlockEmpty}
	}
	return a.NavigationStack[len(a.NavigationStack)-1]
}

// PushNavigation appends a route unless it is already on top.
func (a *App) PushNavigation(id RouteID, block ActiveBlock) {
	if len(a.NavigationStack) > 0 && a.CurrentRoute().ID == id {
		return
	}
	a.NavigationStack = append(a.NavigationStack, Route{ID: id, ActiveBlock: block})
}

// PopNavigation removes the top route, keeping at least one.
func (a *App) PopNavigation() (Route, bool) {
	if len(a.NavigationStack) <= 1 {
		return Route{}, false
	}
	top := a.NavigationStack[len(a.NavigationStack)-1]
	a.NavigationStack = a.NavigationStack[:len(a.NavigationStack)-1]
	return top, true
}

// HandleError records err for display and shows the error route.
func (a *App) HandleError(err error) {
	if err == nil {
		return
	}
	a.APIError = err.Error()
	a.LastError = err
	a.ErrorAt = time.Now()
	a.PushNavigation(RouteError, BlockError)
}

// ClearError forgets the recorded error.
func (a *App) ClearError() {
	a.APIError = ""
	a.LastError = nil
	a.ErrorAt = time.Time{}
}

// SelectedDevice returns the highlighted device, if any.
func (a *App) SelectedDevice() (models.Device, bool) {
	if a.SelectedDeviceIndex < 0 || a.SelectedDeviceIndex >= len(a.Devices) {
		return models.Device{}, false
	}
	return a.Devices[a.SelectedDeviceIndex], true
}

// SelectedPlaylist returns the highlighted playlist, if any.
func (a *App) SelectedPlaylist() (models.SimplifiedPlaylist, bool) {
	if a.Playlists == nil || a.SelectedPlaylistIndex < 0 || a.SelectedPlaylistIndex >= len(a.Playlists.Items) {
		return models.SimplifiedPlaylist{}, false
	}
	return a.Playlists.Items[a.SelectedPlaylistIndex], true
}
