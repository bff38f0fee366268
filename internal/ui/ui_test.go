package ui

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/state"
	"github.com/desertthunder/sptx/internal/tasks"
)

type stubCredentials struct{ due bool }

func (s stubCredentials) NeedsRefresh(time.Time) bool { return s.due }

func newTestModel(opts Options) (*Model, *tasks.Queue, *state.Store) {
	store := state.New()
	queue := tasks.NewQueue(store, 16, log.New(io.Discard))
	opts.Store = store
	opts.Queue = queue
	return NewModel(opts), queue, store
}

func drain(q *tasks.Queue) []tasks.Command {
	var out []tasks.Command
	for {
		select {
		case c := <-q.Commands():
			out = append(out, c)
		default:
			return out
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func TestInit(t *testing.T) {
	m, queue, _ := newTestModel(Options{})
	m.Init()

	got := drain(queue)
	if len(got) != 3 {
		t.Fatalf("expected 3 startup commands, got %v", got)
	}
	want := []tasks.CommandKind{tasks.KindGetUser, tasks.KindGetPlaylists, tasks.KindGetCurrentPlayback}
	for i, kind := range want {
		if got[i].Kind() != kind {
			t.Errorf("command %d: expected %s, got %s", i, kind, got[i].Kind())
		}
	}
}

func TestTransportKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want tasks.Command
	}{
		{"pause", space(), tasks.PausePlayback{}},
		{"next", runes("n"), tasks.NextTrack{}},
		{"previous", runes("p"), tasks.PreviousTrack{}},
		{"shuffle", runes("s"), tasks.Shuffle{Current: true}},
		{"repeat", runes("r"), tasks.Repeat{Current: models.RepeatContext}},
		{"volume up", runes("+"), tasks.ChangeVolume{Percent: 50}},
		{"volume down", runes("-"), tasks.ChangeVolume{Percent: 30}},
		{"devices", runes("d"), tasks.GetDevices{}},
		{"recent", runes("u"), tasks.GetRecentlyPlayed{}},
		{"analysis", runes("a"), tasks.GetAudioAnalysis{URI: "spotify:track:t1"}},
		{"like playing", runes("l"), tasks.ToggleSaveTrack{TrackID: "t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, queue, store := newTestModel(Options{})
			store.Update(func(a *state.App) {
				a.CurrentPlayback = &models.PlaybackContext{
					IsPlaying:    true,
					ShuffleState: true,
					RepeatState:  models.RepeatContext,
					Device:       models.Device{ID: "d1", VolumePercent: 40},
					Item:         &models.FullTrack{ID: "t1", URI: "spotify:track:t1"},
				}
			})

			m.Update(tt.msg)

			got := drain(queue)
			if len(got) != 1 {
				t.Fatalf("expected one command, got %v", got)
			}
			if got[0] != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got[0])
			}
		})
	}

	t.Run("resume when paused", func(t *testing.T) {
		m, queue, store := newTestModel(Options{})
		store.Update(func(a *state.App) {
			a.CurrentPlayback = &models.PlaybackContext{IsPlaying: false}
		})

		m.Update(space())

		got := drain(queue)
		if len(got) != 1 {
			t.Fatalf("expected one command, got %v", got)
		}
		start, ok := got[0].(tasks.StartPlayback)
		if !ok || start.ContextURI != "" || start.URIs != nil {
			t.Fatalf("expected bare StartPlayback, got %#v", got[0])
		}
	})

	t.Run("nothing playing", func(t *testing.T) {
		m, queue, _ := newTestModel(Options{})

		for _, k := range []string{"s", "r", "+", "-", "a", "l"} {
			m.Update(runes(k))
		}

		if got := drain(queue); len(got) != 0 {
			t.Fatalf("expected no commands without playback, got %v", got)
		}
	})
}

func TestSearchInput(t *testing.T) {
	t.Run("Submit", func(t *testing.T) {
		m, queue, store := newTestModel(Options{Country: "SE"})

		m.Update(runes("/"))
		if !m.searching {
			t.Fatal("expected search mode")
		}
		for _, r := range "daft punk" {
			m.Update(runes(string(r)))
		}
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		got := drain(queue)
		if len(got) != 1 {
			t.Fatalf("expected one command, got %v", got)
		}
		want := tasks.GetSearchResults{Query: "daft punk", Country: "SE"}
		if got[0] != want {
			t.Fatalf("expected %#v, got %#v", want, got[0])
		}

		var route state.RouteID
		store.View(func(a *state.App) { route = a.CurrentRoute().ID })
		if route != state.RouteSearch {
			t.Fatalf("expected search route, got %v", route)
		}
		if m.searching {
			t.Fatal("expected search mode to end")
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		m, queue, _ := newTestModel(Options{})

		m.Update(runes("/"))
		m.Update(runes("x"))
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		if got := drain(queue); len(got) != 0 {
			t.Fatalf("expected no commands, got %v", got)
		}
		if m.searching || m.input.Value() != "" {
			t.Fatal("expected input to be cleared")
		}
	})

	t.Run("Letters Do Not Trigger Shortcuts", func(t *testing.T) {
		m, queue, store := newTestModel(Options{})
		store.Update(func(a *state.App) { a.CurrentPlayback = &models.PlaybackContext{} })

		m.Update(runes("/"))
		m.Update(runes("n"))
		m.Update(runes("s"))

		if got := drain(queue); len(got) != 0 {
			t.Fatalf("expected typing to stay in the input, got %v", got)
		}
	})
}

func TestTick(t *testing.T) {
	t.Run("Polls Once Per Interval", func(t *testing.T) {
		m, queue, store := newTestModel(Options{PollInterval: 5 * time.Second})
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		m.Update(tickMsg(now))
		if got := drain(queue); len(got) != 1 || got[0].Kind() != tasks.KindGetCurrentPlayback {
			t.Fatalf("expected a poll on first tick, got %v", got)
		}

		m.Update(tickMsg(now.Add(time.Second)))
		if got := drain(queue); len(got) != 0 {
			t.Fatalf("expected no poll while one is pending, got %v", got)
		}

		store.Update(func(a *state.App) { a.LastPlaybackPoll = now })
		m.Update(eventMsg(tasks.Event{Kind: tasks.KindGetCurrentPlayback}))

		m.Update(tickMsg(now.Add(2 * time.Second)))
		if got := drain(queue); len(got) != 0 {
			t.Fatalf("expected no poll before the interval, got %v", got)
		}

		m.Update(tickMsg(now.Add(5 * time.Second)))
		if got := drain(queue); len(got) != 1 || got[0].Kind() != tasks.KindGetCurrentPlayback {
			t.Fatalf("expected a poll after the interval, got %v", got)
		}
	})

	t.Run("Advances Progress", func(t *testing.T) {
		m, _, store := newTestModel(Options{PollInterval: time.Hour})
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		store.Update(func(a *state.App) {
			a.LastPlaybackPoll = now
			a.CurrentPlayback = &models.PlaybackContext{
				IsPlaying:  true,
				ProgressMS: 10000,
				Item:       &models.FullTrack{DurationMS: 12000},
			}
		})

		m.Update(tickMsg(now.Add(time.Second)))
		var progress int
		store.View(func(a *state.App) { progress = a.SongProgressMS })
		if progress != 11000 {
			t.Fatalf("expected 11000ms, got %d", progress)
		}

		m.Update(tickMsg(now.Add(5 * time.Second)))
		store.View(func(a *state.App) { progress = a.SongProgressMS })
		if progress != 12000 {
			t.Fatalf("expected progress capped at duration, got %d", progress)
		}
	})

	t.Run("Polls Again When Event Is Dropped", func(t *testing.T) {
		m, queue, store := newTestModel(Options{PollInterval: 5 * time.Second})
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		m.Update(tickMsg(now))
		drain(queue)

		// poll finished but its event never arrived
		store.Update(func(a *state.App) { a.LastPlaybackPoll = now.Add(time.Second) })

		m.Update(tickMsg(now.Add(6 * time.Second)))
		if got := drain(queue); len(got) != 1 || got[0].Kind() != tasks.KindGetCurrentPlayback {
			t.Fatalf("expected a poll once the store moved on, got %v", got)
		}
	})

	t.Run("Retries Stale Poll", func(t *testing.T) {
		m, queue, _ := newTestModel(Options{PollInterval: 5 * time.Second})
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		m.Update(tickMsg(now))
		drain(queue)

		m.Update(tickMsg(now.Add(10 * time.Second)))
		if got := drain(queue); len(got) != 0 {
			t.Fatalf("expected no poll while the first is recent, got %v", got)
		}

		m.Update(tickMsg(now.Add(15 * time.Second)))
		if got := drain(queue); len(got) != 1 || got[0].Kind() != tasks.KindGetCurrentPlayback {
			t.Fatalf("expected the stale poll to be sent again, got %v", got)
		}
	})

	t.Run("Retries Stale Refresh", func(t *testing.T) {
		m, queue, store := newTestModel(Options{Credentials: stubCredentials{due: true}, PollInterval: 5 * time.Second})
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		store.Update(func(a *state.App) { a.LastPlaybackPoll = now.Add(time.Hour) })

		m.Update(tickMsg(now))
		m.Update(tickMsg(now.Add(10 * time.Second)))
		if got := drain(queue); len(got) != 1 || got[0].Kind() != tasks.KindRefreshAuthentication {
			t.Fatalf("expected a single refresh, got %v", got)
		}

		m.Update(tickMsg(now.Add(15 * time.Second)))
		if got := drain(queue); len(got) != 1 || got[0].Kind() != tasks.KindRefreshAuthentication {
			t.Fatalf("expected the refresh to be sent again, got %v", got)
		}
	})

	t.Run("Refreshes Token", func(t *testing.T) {
		m, queue, store := newTestModel(Options{Credentials: stubCredentials{due: true}, PollInterval: time.Hour})
		now := time.Now()
		store.Update(func(a *state.App) { a.LastPlaybackPoll = now })

		m.Update(tickMsg(now))
		m.Update(tickMsg(now.Add(time.Second)))

		got := drain(queue)
		if len(got) != 1 || got[0].Kind() != tasks.KindRefreshAuthentication {
			t.Fatalf("expected a single refresh, got %v", got)
		}
	})
}

func TestSelection(t *testing.T) {
	t.Run("Device", func(t *testing.T) {
		m, queue, store := newTestModel(Options{})
		store.Update(func(a *state.App) {
			a.Devices = []models.Device{{ID: "d1", Name: "Desk"}, {ID: "d2", Name: "Phone"}}
			a.PushNavigation(state.RouteSelectedDevice, state.BlockSelectDevice)
		})
		m.Update(eventMsg(tasks.Event{Kind: tasks.KindGetDevices}))

		m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		got := drain(queue)
		want := tasks.SetDeviceIDInConfig{DeviceID: "d2"}
		if len(got) != 1 || got[0] != want {
			t.Fatalf("expected %#v, got %v", want, got)
		}

		var index int
		store.View(func(a *state.App) { index = a.SelectedDeviceIndex })
		if index != 1 {
			t.Fatalf("expected selected device index 1, got %d", index)
		}
	})

	t.Run("Playlist Track Plays In Context", func(t *testing.T) {
		m, queue, store := newTestModel(Options{})
		store.Update(func(a *state.App) {
			a.Playlists = &models.Page[models.SimplifiedPlaylist]{Items: []models.SimplifiedPlaylist{{ID: "p1", URI: "spotify:playlist:p1"}}}
			a.TrackTable = state.TrackTable{
				Tracks:  []models.FullTrack{{ID: "t1", URI: "u1"}, {ID: "t2", URI: "u2"}},
				Context: state.TableMyPlaylists,
			}
			a.PushNavigation(state.RouteTrackTable, state.BlockTrackTable)
		})
		m.Update(eventMsg(tasks.Event{Kind: tasks.KindGetPlaylistTracks}))

		m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		got := drain(queue)
		if len(got) != 1 {
			t.Fatalf("expected one command, got %v", got)
		}
		start, ok := got[0].(tasks.StartPlayback)
		if !ok || start.ContextURI != "spotify:playlist:p1" || start.Offset == nil || *start.Offset != 1 {
			t.Fatalf("expected playlist context at offset 1, got %#v", got[0])
		}
	})

	t.Run("Search Track Plays List", func(t *testing.T) {
		m, queue, store := newTestModel(Options{})
		store.Update(func(a *state.App) {
			a.TrackTable = state.TrackTable{Tracks: []models.FullTrack{{ID: "t1", URI: "u1"}, {ID: "t2", URI: "u2"}}}
			a.PushNavigation(state.RouteSearch, state.BlockSearchResults)
		})
		m.Update(eventMsg(tasks.Event{Kind: tasks.KindGetSearchResults}))

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		got := drain(queue)
		start, ok := got[0].(tasks.StartPlayback)
		if !ok || len(start.URIs) != 2 || start.URIs[1] != "u2" || *start.Offset != 0 {
			t.Fatalf("expected track URIs from offset 0, got %#v", got[0])
		}
	})

	t.Run("Like Highlighted Track", func(t *testing.T) {
		m, queue, store := newTestModel(Options{})
		store.Update(func(a *state.App) {
			a.TrackTable = state.TrackTable{Tracks: []models.FullTrack{{ID: "t9", URI: "u9"}}}
			a.PushNavigation(state.RouteTrackTable, state.BlockTrackTable)
		})
		m.Update(eventMsg(tasks.Event{Kind: tasks.KindSetTracksToTable}))

		m.Update(runes("l"))
		m.Update(runes("R"))

		got := drain(queue)
		if len(got) != 2 {
			t.Fatalf("expected two commands, got %v", got)
		}
		if got[0] != (tasks.ToggleSaveTrack{TrackID: "t9"}) {
			t.Errorf("expected like of t9, got %#v", got[0])
		}
		if got[1] != (tasks.GetRecommendationsForTrackID{TrackID: "t9"}) {
			t.Errorf("expected recommendations for t9, got %#v", got[1])
		}
	})
}

func TestNavigationAndView(t *testing.T) {
	t.Run("Esc Dismisses Error", func(t *testing.T) {
		m, _, store := newTestModel(Options{})
		store.Update(func(a *state.App) { a.HandleError(errors.New("boom")) })

		if view := m.View(); !strings.Contains(view, "boom") {
			t.Fatalf("expected error in view, got %q", view)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		store.View(func(a *state.App) {
			if a.CurrentRoute().ID != state.RouteHome || a.LastError != nil {
				t.Fatalf("expected home route with error cleared, got %v / %v", a.CurrentRoute().ID, a.LastError)
			}
		})
	})

	t.Run("Play Bar", func(t *testing.T) {
		m, _, store := newTestModel(Options{})
		if view := m.View(); !strings.Contains(view, "Nothing playing") {
			t.Fatalf("expected empty play bar, got %q", view)
		}

		store.Update(func(a *state.App) {
			a.CurrentPlayback = &models.PlaybackContext{
				IsPlaying:  true,
				ProgressMS: 61000,
				Device:     models.Device{Name: "Desk", VolumePercent: 70},
				Item: &models.FullTrack{
					Name:       "Around the World",
					DurationMS: 429000,
					Artists:    []models.SimplifiedArtist{{Name: "Daft Punk"}},
				},
			}
		})

		view := m.View()
		for _, want := range []string{"Daft Punk - Around the World", "1:01 / 7:09", "vol 70%"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view, got %q", want, view)
			}
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _, _ := newTestModel(Options{})
		if _, cmd := m.Update(runes("q")); cmd == nil {
			t.Fatal("expected quit command")
		}
	})
}
