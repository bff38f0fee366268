package models

import (
	"encoding/json"
	"testing"
)

func TestRepeatState(t *testing.T) {
	t.Run("Next", func(t *testing.T) {
		tc := []struct {
			from RepeatState
			want RepeatState
		}{
			{from: RepeatOff, want: RepeatContext},
			{from: RepeatContext, want: RepeatTrack},
			{from: RepeatTrack, want: RepeatOff},
		}

		for _, tt := range tc {
			t.Run(string(tt.from), func(t *testing.T) {
				if got := tt.from.Next(); got != tt.want {
					t.Errorf("expected %s, got %s", tt.want, got)
				}
			})
		}
	})

	t.Run("three rotations return to start", func(t *testing.T) {
		for _, start := range []RepeatState{RepeatOff, RepeatContext, RepeatTrack} {
			if got := start.Next().Next().Next(); got != start {
				t.Errorf("expected %s after a full cycle, got %s", start, got)
			}
		}
	})

	t.Run("ParseRepeatState", func(t *testing.T) {
		if r, err := ParseRepeatState("track"); err != nil || r != RepeatTrack {
			t.Errorf("expected track, got %v (%v)", r, err)
		}
		if _, err := ParseRepeatState("forever"); err == nil {
			t.Error("expected error for unknown repeat state")
		}
	})
}

func TestIDFromURI(t *testing.T) {
	tc := []struct {
		uri  string
		want string
	}{
		{uri: "spotify:track:4uLU6hMCjMI75M1A2tKUQC", want: "4uLU6hMCjMI75M1A2tKUQC"},
		{uri: "spotify:user:spotify:playlist:37i9", want: "37i9"},
		{uri: "plainid", want: "plainid"},
		{uri: "", want: ""},
	}

	for _, tt := range tc {
		if got := IDFromURI(tt.uri); got != tt.want {
			t.Errorf("IDFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestTrackHelpers(t *testing.T) {
	tracks := []FullTrack{
		{ID: "a", URI: "spotify:track:a", Artists: []SimplifiedArtist{{Name: "Daft Punk"}, {Name: "Pharrell"}}},
		{ID: "", URI: "spotify:local:x"},
		{ID: "b", URI: "spotify:track:b"},
	}

	ids := TrackIDs(tracks)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("expected ids [a b], got %v", ids)
	}

	uris := TrackURIs(tracks)
	if len(uris) != 3 || uris[2] != "spotify:track:b" {
		t.Errorf("expected all uris in order, got %v", uris)
	}

	if got := tracks[0].ArtistNames(); got != "Daft Punk, Pharrell" {
		t.Errorf("expected joined artist names, got %s", got)
	}
}

func TestPlaybackContext(t *testing.T) {
	body := `{
		"device": {"id": "d1", "name": "Kitchen", "volume_percent": 40},
		"repeat_state": "context",
		"shuffle_state": true,
		"progress_ms": 1000,
		"is_playing": true,
		"item": {"id": "t1", "name": "One More Time", "uri": "spotify:track:t1"}
	}`

	var pb PlaybackContext
	if err := json.Unmarshal([]byte(body), &pb); err != nil {
		t.Fatalf("failed to decode playback: %v", err)
	}

	if pb.RepeatState != RepeatContext || !pb.ShuffleState || pb.Device.VolumePercent != 40 {
		t.Errorf("unexpected playback fields: %+v", pb)
	}

	if id, ok := pb.TrackID(); !ok || id != "t1" {
		t.Errorf("expected track id t1, got %q (%v)", id, ok)
	}

	var empty *PlaybackContext
	if _, ok := empty.TrackID(); ok {
		t.Error("expected no track id for nil playback")
	}
}

func TestPages(t *testing.T) {
	next := "https://api.spotify.com/v1/me/following?after=x"
	cp := CursorPage[FullArtist]{
		Items:   []FullArtist{{ID: "a1"}},
		Limit:   20,
		Total:   40,
		Next:    &next,
		Cursors: Cursors{After: "x"},
	}

	p := cp.Page()
	if len(p.Items) != 1 || p.Total != 40 || !p.HasNext() {
		t.Errorf("unexpected converted page: %+v", p)
	}

	offsetPage := &Page[int]{Items: []int{1, 2, 3}, Offset: 20}
	if offsetPage.NextOffset() != 23 {
		t.Errorf("expected next offset 23, got %d", offsetPage.NextOffset())
	}
	if offsetPage.HasNext() {
		t.Error("expected no next page")
	}

	doubled := PageItems(offsetPage, func(i int) int { return i * 2 })
	if len(doubled) != 3 || doubled[2] != 6 {
		t.Errorf("expected mapped items, got %v", doubled)
	}
}

func TestAudioAnalysisSectionAt(t *testing.T) {
	a := &AudioAnalysis{Sections: []AnalysisSection{
		{TimeInterval: TimeInterval{Start: 0, Duration: 10}},
		{TimeInterval: TimeInterval{Start: 10, Duration: 5}},
	}}

	if got := a.SectionAt(12); got != 1 {
		t.Errorf("expected section 1, got %d", got)
	}
	if got := a.SectionAt(99); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
