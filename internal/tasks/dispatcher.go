package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sptx/internal/services"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
)

const (
	DefaultLargeLimit = 20
	DefaultSmallLimit = 4
)

// Refresher renews the access credential.
type Refresher interface {
	Refresh(ctx context.Context) (services.Credential, error)
}

// DeviceStore reads and persists the selected playback device.
type DeviceStore interface {
	DeviceID() (string, bool)
	SetDeviceID(id string) error
}

// DispatcherOpts configures a [Dispatcher]. Remote and Store are required.
type DispatcherOpts struct {
	Remote      services.Remote
	Credentials Refresher
	Devices     DeviceStore
	Store       *state.Store
	Logger      *log.Logger
	Events      chan<- Event
	LargeLimit  int
	SmallLimit  int
	Now         func() time.Time
}

// Dispatcher executes commands one at a time against the remote and writes the results into the store.
//
// Handlers call the remote first and take the store lock only to merge completed results.
// Every failure is logged and recorded in the store; none escapes Dispatch.
type Dispatcher struct {
	remote      services.Remote
	credentials Refresher
	devices     DeviceStore
	store       *state.Store
	logger      *log.Logger
	events      chan<- Event
	now         func() time.Time

	largeLimit int
	smallLimit int
}

// NewDispatcher wires a dispatcher from opts.
func NewDispatcher(opts DispatcherOpts) *Dispatcher {
	d := &Dispatcher{
		remote:      opts.Remote,
		credentials: opts.Credentials,
		devices:     opts.Devices,
		store:       opts.Store,
		logger:      opts.Logger,
		events:      opts.Events,
		now:         opts.Now,
		largeLimit:  opts.LargeLimit,
		smallLimit:  opts.SmallLimit,
	}

	if d.logger == nil {
		d.logger = log.Default()
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.largeLimit <= 0 {
		d.largeLimit = DefaultLargeLimit
	}
	if d.smallLimit <= 0 {
		d.smallLimit = DefaultSmallLimit
	}
	return d
}

// Limits returns the page sizes for list views and search.
func (d *Dispatcher) Limits() (large, small int) {
	return d.largeLimit, d.smallLimit
}

// Run dispatches commands in arrival order until the channel closes or ctx is done.
func (d *Dispatcher) Run(ctx context.Context, commands <-chan Command) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			d.Dispatch(ctx, cmd)
		}
	}
}

// Dispatch executes cmd, then clears the loading flag and emits an [Event].
//
// Results and failures are only written to the store; the event carries the first reported error.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) {
	id := shared.GenerateID()
	start := d.now()
	d.logger.Debug("dispatch", "id", id, "kind", cmd.Kind())

	var first error
	d.handle(ctx, cmd, func(err error) {
		if first == nil {
			first = err
		}
	})

	d.store.Update(func(a *state.App) { a.IsLoading = false })

	elapsed := d.now().Sub(start)
	d.logger.Debug("dispatched", "id", id, "kind", cmd.Kind(), "elapsed", elapsed, "failed", first != nil)
	d.emit(Event{ID: id, Kind: cmd.Kind(), Err: first, Elapsed: elapsed})
}

func (d *Dispatcher) emit(e Event) {
	if d.events == nil {
		return
	}
	select {
	case d.events <- e:
	default:
	}
}

// handler carries the per-dispatch error sink.
type handler struct {
	*Dispatcher
	onErr func(error)
}

// report logs err and records it in the store.
func (h handler) report(err error) {
	if err == nil {
		return
	}
	h.logger.Error("command failed", "err", err)
	h.store.Update(func(a *state.App) { a.HandleError(err) })
	h.onErr(err)
}

func (d *Dispatcher) handle(ctx context.Context, cmd Command, onErr func(error)) {
	h := handler{Dispatcher: d, onErr: onErr}

	var err error
	switch c := cmd.(type) {
	case RefreshAuthentication:
		err = h.refreshAuthentication(ctx)
	case GetUser:
		err = h.getUser(ctx)
	case GetPlaylists:
		err = h.getPlaylists(ctx)
	case GetDevices:
		err = h.getDevices(ctx)
	case GetCurrentPlayback:
		err = h.getCurrentPlayback(ctx)
	case GetSearchResults:
		err = h.getSearchResults(ctx, c)
	case SetTracksToTable:
		h.setTracksToTable(ctx, c.Tracks)
	case GetPlaylistTracks:
		err = h.getPlaylistTracks(ctx, c.PlaylistID, c.Offset, false)
	case GetMadeForYouPlaylistTracks:
		err = h.getPlaylistTracks(ctx, c.PlaylistID, c.Offset, true)
	case GetCurrentSavedTracks:
		err = h.getCurrentSavedTracks(ctx, c)
	case StartPlayback:
		err = h.startPlayback(ctx, c)
	case UpdateSearchLimits:
		h.updateSearchLimits(c)
	case Seek:
		err = h.seek(ctx, c.PositionMS)
	case NextTrack:
		err = h.nextTrack(ctx)
	case PreviousTrack:
		err = h.previousTrack(ctx)
	case PausePlayback:
		err = h.pausePlayback(ctx)
	case Shuffle:
		err = h.shuffle(ctx, c.Current)
	case Repeat:
		err = h.repeat(ctx, c.Current)
	case ChangeVolume:
		err = h.changeVolume(ctx, c.Percent)
	case GetArtist:
		err = h.getArtist(ctx, c)
	case GetAlbumTracks:
		err = h.getAlbumTracks(ctx, c.Album)
	case GetAlbum:
		err = h.getAlbum(ctx, c.AlbumID)
	case GetRecommendationsForSeed:
		err = h.getRecommendationsForSeed(ctx, c)
	case GetRecommendationsForTrackID:
		err = h.getRecommendationsForTrackID(ctx, c)
	case GetCurrentUserSavedAlbums:
		err = h.getCurrentUserSavedAlbums(ctx, c.Offset)
	case CurrentUserSavedAlbumAdd:
		err = h.savedAlbumAdd(ctx, c.AlbumID)
	case CurrentUserSavedAlbumDelete:
		err = h.savedAlbumDelete(ctx, c.AlbumID)
	case UserFollowArtists:
		err = h.followArtists(ctx, c.ArtistIDs)
	case UserUnfollowArtists:
		err = h.unfollowArtists(ctx, c.ArtistIDs)
	case UserFollowPlaylist:
		err = h.followPlaylist(ctx, c)
	case UserUnfollowPlaylist:
		err = h.unfollowPlaylist(ctx, c.PlaylistID)
	case MadeForYouSearchAndAdd:
		err = h.madeForYouSearchAndAdd(ctx, c)
	case GetAudioAnalysis:
		err = h.getAudioAnalysis(ctx, c.URI)
	case ToggleSaveTrack:
		err = h.toggleSaveTrack(ctx, c.TrackID)
	case GetRecentlyPlayed:
		err = h.getRecentlyPlayed(ctx)
	case GetFollowedArtists:
		err = h.getFollowedArtists(ctx, c.After)
	case SetDeviceIDInConfig:
		err = h.setDeviceIDInConfig(c.DeviceID)
	default:
		err = fmt.Errorf("%w: unknown command %T", shared.ErrInvalidInput, cmd)
	}

	h.report(err)
}

// requireDevice returns the configured device id or [shared.ErrNoDevice].
func (h handler) requireDevice() (string, error) {
	if h.devices == nil {
		return "", shared.ErrNoDevice
	}
	id, ok := h.devices.DeviceID()
	if !ok || id == "" {
		return "", shared.ErrNoDevice
	}
	return id, nil
}

func (h handler) refreshAuthentication(ctx context.Context) error {
	if h.credentials == nil {
		return shared.ErrNotAuthenticated
	}
	cred, err := h.credentials.Refresh(ctx)
	if err != nil {
		return err
	}
	h.logger.Info("access token refreshed", "expires", cred.Expiry.Format(time.RFC3339))
	return nil
}

func (h handler) updateSearchLimits(c UpdateSearchLimits) {
	if c.Large > 0 {
		h.largeLimit = c.Large
	}
	if c.Small > 0 {
		h.smallLimit = c.Small
	}
}

// checkMembership re-queries the liked status of ids. A failure is reported and the caller carries on.
func (h handler) checkMembership(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	saved, err := h.remote.SavedTracksContains(ctx, ids)
	if err != nil {
		h.report(err)
		return
	}
	h.store.Update(func(a *state.App) { a.ApplyMembership(ids, saved) })
}
