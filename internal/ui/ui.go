package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/desertthunder/sptx/internal/state"
	"github.com/desertthunder/sptx/internal/tasks"
	"github.com/mattn/go-runewidth"
)

const volumeStep = 10

// Credentials reports when the access token is about to expire.
type Credentials interface {
	NeedsRefresh(now time.Time) bool
}

// DeviceSource exposes the configured playback device.
type DeviceSource interface {
	DeviceID() (string, bool)
}

// Options wires a [Model]. Store and Queue are required.
type Options struct {
	Store        *state.Store
	Queue        *tasks.Queue
	Events       <-chan tasks.Event
	Credentials  Credentials
	Devices      DeviceSource
	PollInterval time.Duration
	Country      string
}

// Model is the bubbletea model. It reads everything it renders from the store
// and turns key presses into commands on the queue.
type Model struct {
	store        *state.Store
	queue        *tasks.Queue
	events       <-chan tasks.Event
	credentials  Credentials
	devices      DeviceSource
	pollInterval time.Duration
	country      string

	width     int
	height    int
	list      list.Model
	listRoute state.RouteID
	input     textinput.Model
	searching bool
	help      help.Model
	keys      keyMap
	status    string

	// zero when nothing is pending
	pollSent    time.Time
	refreshSent time.Time
}

// staleAfter is how many poll intervals a poll or refresh without a completion event is waited on.
const staleAfter = 3

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(opts Options) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "Search tracks, artists, albums, playlists"
	input.Prompt = "/ "

	interval := opts.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	m := &Model{
		store:        opts.Store,
		queue:        opts.Queue,
		events:       opts.Events,
		credentials:  opts.Credentials,
		devices:      opts.Devices,
		pollInterval: interval,
		country:      opts.Country,
		list:         l,
		listRoute:    -1,
		input:        input,
		help:         help.New(),
		keys:         newKeyMap(),
	}
	m.syncList()
	return m
}

// Init loads the user, playlists and player, then starts the tick and event loops.
func (m *Model) Init() tea.Cmd {
	m.send(tasks.GetUser{})
	m.send(tasks.GetPlaylists{})
	if m.send(tasks.GetCurrentPlayback{}) {
		m.pollSent = time.Now()
	}
	return tea.Batch(tick(), waitForEvent(m.events))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(0, msg.Width-2), max(0, msg.Height-9))
		m.input.Width = max(0, msg.Width-4)
		return m, nil

	case tickMsg:
		m.onTick(time.Time(msg))
		return m, tick()

	case eventMsg:
		m.onEvent(tasks.Event(msg))
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) send(cmd tasks.Command) bool {
	return m.queue.Send(cmd)
}

// onTick polls the player once the interval has elapsed and renews the token ahead of expiry.
func (m *Model) onTick(now time.Time) {
	var lastPoll time.Time
	m.store.Update(func(a *state.App) {
		lastPoll = a.LastPlaybackPoll
		if p := a.CurrentPlayback; p != nil && p.IsPlaying && !lastPoll.IsZero() {
			progress := p.ProgressMS + int(now.Sub(lastPoll).Milliseconds())
			if p.Item != nil && p.Item.DurationMS > 0 {
				progress = min(progress, p.Item.DurationMS)
			}
			a.SongProgressMS = progress
		}
	})

	// completion events can be dropped when the channel is full; the store is authoritative
	if !m.pollSent.IsZero() && lastPoll.After(m.pollSent) {
		m.pollSent = time.Time{}
	}

	if !m.pending(m.pollSent, now) && now.Sub(lastPoll) >= m.pollInterval {
		if m.send(tasks.GetCurrentPlayback{}) {
			m.pollSent = now
		}
	}

	if m.credentials != nil && !m.pending(m.refreshSent, now) && m.credentials.NeedsRefresh(now) {
		if m.send(tasks.RefreshAuthentication{}) {
			m.refreshSent = now
		}
	}
}

// pending reports whether a command sent at sent is still awaited.
func (m *Model) pending(sent, now time.Time) bool {
	return !sent.IsZero() && now.Sub(sent) < staleAfter*m.pollInterval
}

func (m *Model) onEvent(e tasks.Event) {
	switch e.Kind {
	case tasks.KindGetCurrentPlayback:
		m.pollSent = time.Time{}
	case tasks.KindRefreshAuthentication:
		m.refreshSent = time.Time{}
	}
	m.status = e.String()
	m.syncList()
}

// syncList rebuilds the list items for the current route, resetting the cursor when the route changed.
func (m *Model) syncList() {
	var (
		route state.RouteID
		title string
		items []list.Item
	)
	device := m.currentDevice()
	m.store.View(func(a *state.App) {
		route = a.CurrentRoute().ID
		title, items = routeItems(a, device)
	})

	m.list.Title = title
	m.list.SetItems(items)
	if route != m.listRoute {
		m.list.Select(0)
		m.listRoute = route
	}
}

func (m *Model) currentDevice() string {
	if m.devices == nil {
		return ""
	}
	id, _ := m.devices.DeviceID()
	return id
}

func trackItems(tracks []models.FullTrack, a *state.App) []list.Item {
	items := make([]list.Item, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, trackItem{track: t, liked: a.IsLiked(t.ID)})
	}
	return items
}

// routeItems must be called under the store lock.
func routeItems(a *state.App, deviceID string) (string, []list.Item) {
	switch a.CurrentRoute().ID {
	case state.RouteHome:
		var items []list.Item
		if a.Playlists != nil {
			for _, p := range a.Playlists.Items {
				items = append(items, playlistItem{playlist: p})
			}
		}
		return "Playlists", items

	case state.RouteSearch:
		return fmt.Sprintf("Search: %s", a.SearchResults.Query), trackItems(a.TrackTable.Tracks, a)

	case state.RouteTrackTable:
		title := "Tracks"
		switch a.TrackTable.Context {
		case state.TableSavedTracks:
			title = "Liked Songs"
		case state.TableMadeForYou:
			title = "Made For You"
		case state.TableMyPlaylists:
			if p, ok := a.SelectedPlaylist(); ok {
				title = p.Name
			}
		}
		return title, trackItems(a.TrackTable.Tracks, a)

	case state.RouteRecommendations:
		return "Recommended", trackItems(a.TrackTable.Tracks, a)

	case state.RouteRecentlyPlayed:
		var tracks []models.FullTrack
		if a.RecentlyPlayed != nil {
			for _, h := range a.RecentlyPlayed.Items {
				tracks = append(tracks, h.Track)
			}
		}
		return "Recently Played", trackItems(tracks, a)

	case state.RouteSelectedDevice:
		items := make([]list.Item, 0, len(a.Devices))
		for _, d := range a.Devices {
			items = append(items, deviceItem{device: d, current: d.ID == deviceID})
		}
		return "Devices", items
	}
	return "", nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		m.searching = false
		m.input.Blur()
		m.input.Reset()
		if query == "" {
			return m, nil
		}
		m.store.Update(func(a *state.App) { a.PushNavigation(state.RouteSearch, state.BlockSearchResults) })
		m.send(tasks.GetSearchResults{Query: query, Country: m.country})
		m.syncList()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// playbackView copies the fields the key handlers need out of the store.
type playbackView struct {
	present bool
	playing bool
	shuffle bool
	repeat  models.RepeatState
	volume  int
	track   *models.FullTrack
}

func (m *Model) playback() playbackView {
	var v playbackView
	m.store.View(func(a *state.App) {
		p := a.CurrentPlayback
		if p == nil {
			return
		}
		v = playbackView{
			present: true,
			playing: p.IsPlaying,
			shuffle: p.ShuffleState,
			repeat:  p.RepeatState,
			volume:  p.Device.VolumePercent,
		}
		if p.Item != nil {
			t := *p.Item
			v.track = &t
		}
	})
	return v
}

// focusedTrack is the highlighted track, falling back to the playing one.
func (m *Model) focusedTrack() *models.FullTrack {
	if item, ok := m.list.SelectedItem().(trackItem); ok {
		return &item.track
	}
	return m.playback().track
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.back):
		m.store.Update(func(a *state.App) {
			if top, ok := a.PopNavigation(); ok && top.ID == state.RouteError {
				a.ClearError()
			}
		})
		m.syncList()
		return m, nil

	case key.Matches(msg, m.keys.enter):
		m.selectItem()
		return m, nil

	case key.Matches(msg, m.keys.playPause):
		if m.playback().playing {
			m.send(tasks.PausePlayback{})
		} else {
			m.send(tasks.StartPlayback{})
		}
		return m, nil

	case key.Matches(msg, m.keys.next):
		m.send(tasks.NextTrack{})
		return m, nil

	case key.Matches(msg, m.keys.previous):
		m.send(tasks.PreviousTrack{})
		return m, nil

	case key.Matches(msg, m.keys.shuffle):
		if pb := m.playback(); pb.present {
			m.send(tasks.Shuffle{Current: pb.shuffle})
		}
		return m, nil

	case key.Matches(msg, m.keys.repeat):
		if pb := m.playback(); pb.present {
			m.send(tasks.Repeat{Current: pb.repeat})
		}
		return m, nil

	case key.Matches(msg, m.keys.volumeUp):
		if pb := m.playback(); pb.present {
			m.send(tasks.ChangeVolume{Percent: pb.volume + volumeStep})
		}
		return m, nil

	case key.Matches(msg, m.keys.volumeDown):
		if pb := m.playback(); pb.present {
			m.send(tasks.ChangeVolume{Percent: pb.volume - volumeStep})
		}
		return m, nil

	case key.Matches(msg, m.keys.like):
		if t := m.focusedTrack(); t != nil && t.ID != "" {
			m.send(tasks.ToggleSaveTrack{TrackID: t.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.recommend):
		if t := m.focusedTrack(); t != nil && t.ID != "" {
			m.send(tasks.GetRecommendationsForTrackID{TrackID: t.ID, Country: m.country})
		}
		return m, nil

	case key.Matches(msg, m.keys.analysis):
		if t := m.playback().track; t != nil && t.URI != "" {
			m.send(tasks.GetAudioAnalysis{URI: t.URI})
		}
		return m, nil

	case key.Matches(msg, m.keys.devices):
		m.send(tasks.GetDevices{})
		return m, nil

	case key.Matches(msg, m.keys.saved):
		m.send(tasks.GetCurrentSavedTracks{ShouldNavigate: true})
		return m, nil

	case key.Matches(msg, m.keys.recent):
		m.send(tasks.GetRecentlyPlayed{})
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// selectItem acts on the highlighted row: open a playlist, play a track or pick a device.
func (m *Model) selectItem() {
	index := m.list.Index()

	switch item := m.list.SelectedItem().(type) {
	case playlistItem:
		m.store.Update(func(a *state.App) { a.SelectedPlaylistIndex = index })
		m.send(tasks.GetPlaylistTracks{PlaylistID: item.playlist.ID})

	case trackItem:
		var contextURI string
		m.store.View(func(a *state.App) {
			if a.CurrentRoute().ID == state.RouteTrackTable && a.TrackTable.Context == state.TableMyPlaylists {
				if p, ok := a.SelectedPlaylist(); ok {
					contextURI = p.URI
				}
			}
		})

		offset := index
		if contextURI != "" {
			m.send(tasks.StartPlayback{ContextURI: contextURI, Offset: &offset})
			return
		}

		uris := make([]string, 0, len(m.list.Items()))
		for _, it := range m.list.Items() {
			if t, ok := it.(trackItem); ok {
				uris = append(uris, t.track.URI)
			}
		}
		m.send(tasks.StartPlayback{URIs: uris, Offset: &offset})

	case deviceItem:
		m.store.Update(func(a *state.App) { a.SelectedDeviceIndex = index })
		m.send(tasks.SetDeviceIDInConfig{DeviceID: item.device.ID})
	}
}

// View renders the header, the routed body, the play bar and help.
func (m *Model) View() string {
	var (
		route    state.RouteID
		loading  bool
		user     string
		apiError string
		errorAt  time.Time
		analysis *models.AudioAnalysis
	)
	m.store.View(func(a *state.App) {
		route = a.CurrentRoute().ID
		loading = a.IsLoading
		apiError = a.APIError
		errorAt = a.ErrorAt
		if a.User != nil {
			user = a.User.DisplayName
		}
		if a.AudioAnalysis != nil {
			cp := *a.AudioAnalysis
			analysis = &cp
		}
	})

	header := styles.title.Render("sptx")
	if user != "" {
		header += "  " + user
	}
	if loading {
		header += "  " + styles.warning.Render("loading…")
	}

	var body string
	switch route {
	case state.RouteError:
		body = styles.error.Render(fmt.Sprintf("Error: %s", apiError)) +
			"\n" + styles.help.Render(shared.RelativeTime(errorAt)) +
			"\n\n" + styles.help.Render("esc to dismiss")
	case state.RouteAnalysis:
		body = renderAnalysis(analysis)
	default:
		body = m.list.View()
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(styles.bar.Render(m.playBar()))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(styles.help.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func renderAnalysis(a *models.AudioAnalysis) string {
	if a == nil {
		return styles.help.Render("No analysis loaded")
	}
	return fmt.Sprintf("%s\n\nTempo: %.0f bpm\nKey: %d  Mode: %d\nSections: %d  Segments: %d  Beats: %d",
		styles.success.Render("Audio Analysis"),
		a.Track.Tempo, a.Track.Key, a.Track.Mode,
		len(a.Sections), len(a.Segments), len(a.Beats),
	)
}

// playBar renders the now-playing line, truncated by display width.
func (m *Model) playBar() string {
	var (
		present  bool
		playing  bool
		track    models.FullTrack
		device   models.Device
		shuffle  bool
		repeat   models.RepeatState
		progress int
		lastPoll time.Time
	)
	m.store.View(func(a *state.App) {
		p := a.CurrentPlayback
		lastPoll = a.LastPlaybackPoll
		if p == nil || p.Item == nil {
			return
		}
		present = true
		playing = p.IsPlaying
		track = *p.Item
		device = p.Device
		shuffle = p.ShuffleState
		repeat = p.RepeatState
		progress = a.SongProgressMS
		if progress == 0 {
			progress = p.ProgressMS
		}
	})

	polled := "polled " + shared.RelativeTime(lastPoll)
	if !present {
		return "Nothing playing  " + styles.help.Render(polled)
	}

	icon := "⏸"
	if playing {
		icon = "▶"
	}
	if repeat == "" {
		repeat = models.RepeatOff
	}
	shuffleLabel := "off"
	if shuffle {
		shuffleLabel = "on"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	title := fmt.Sprintf("%s %s - %s", icon, track.ArtistNames(), track.Name)
	title = runewidth.Truncate(title, max(10, width-4), "…")

	details := fmt.Sprintf("%s / %s  %s  vol %d%%  shuffle %s  repeat %s",
		shared.FormatDuration(progress), shared.FormatDuration(track.DurationMS),
		device.Name, device.VolumePercent, shuffleLabel, repeat,
	)
	return title + "\n" + details + "  " + styles.help.Render(polled)
}
