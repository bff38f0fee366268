package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
	th "github.com/desertthunder/sptx/internal/testing"
	"github.com/mattn/go-runewidth"
)

func sampleTable() *Table {
	return &Table{
		Title: "Search: daft punk",
		Tracks: []models.FullTrack{
			{
				ID:          "track1",
				URI:         "spotify:track:track1",
				Name:        "One More Time",
				DurationMS:  320000,
				Artists:     []models.SimplifiedArtist{{Name: "Daft Punk"}},
				Album:       models.SimplifiedAlbum{Name: "Discovery"},
				ExternalIDs: models.ExternalIDs{ISRC: "GBDUW0000053"},
			},
			{
				ID:         "track2",
				URI:        "spotify:track:track2",
				Name:       "Get Lucky",
				DurationMS: 248000,
				Artists:    []models.SimplifiedArtist{{Name: "Daft Punk"}, {Name: "Pharrell Williams"}},
			},
		},
		Liked: map[string]bool{"track1": true},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"txt", FormatText},
		{"CSV", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRenderers(t *testing.T) {
	t.Run("ToCSV", func(t *testing.T) {
		data, err := ToCSV(sampleTable())
		if err != nil {
			t.Fatalf("ToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Artist,Album,Duration,ISRC,Liked") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,One More Time,Daft Punk,Discovery,5:20,GBDUW0000053,true") {
			t.Errorf("CSV missing track1 row, got: %s", output)
		}
		if !strings.Contains(output, `"Daft Punk, Pharrell Williams"`) {
			t.Errorf("CSV should quote multi-artist field, got: %s", output)
		}
		if !strings.Contains(output, "4:08,,false") {
			t.Errorf("CSV missing track2 duration and liked flag, got: %s", output)
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		data, err := ToMarkdown(sampleTable())
		if err != nil {
			t.Fatalf("ToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "# Search: daft punk\n") {
			t.Errorf("Markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "**Tracks**: 2") {
			t.Errorf("Markdown missing track count")
		}
		if !strings.Contains(output, "1. Daft Punk - One More Time (Discovery) [5:20] ♥") {
			t.Errorf("Markdown missing liked track1 line, got: %s", output)
		}
		if !strings.Contains(output, "2. Daft Punk, Pharrell Williams - Get Lucky [4:08]\n") {
			t.Errorf("Markdown track2 line should omit album and heart, got: %s", output)
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(sampleTable())
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}

		var doc struct {
			Title  string `json:"title"`
			Tracks []struct {
				ID    string `json:"id"`
				Liked bool   `json:"liked"`
			} `json:"tracks"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if doc.Title != "Search: daft punk" || len(doc.Tracks) != 2 {
			t.Fatalf("unexpected document %+v", doc)
		}
		if !doc.Tracks[0].Liked || doc.Tracks[1].Liked {
			t.Errorf("expected only track1 liked, got %+v", doc.Tracks)
		}
	})

	t.Run("ToText", func(t *testing.T) {
		data, err := ToText(sampleTable())
		if err != nil {
			t.Fatalf("ToText failed: %v", err)
		}

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if lines[0] != "Search: daft punk" || lines[1] != "Tracks: 2" {
			t.Fatalf("unexpected header lines %q", lines[:2])
		}

		rows := lines[3:]
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if !strings.HasPrefix(rows[0], "1. ♥ One More Time") {
			t.Errorf("expected liked marker on row 1, got %q", rows[0])
		}
		unmarked := strings.Replace(rows[0], "♥", " ", 1)
		if runewidth.StringWidth(unmarked) != runewidth.StringWidth(rows[1]) {
			t.Errorf("expected aligned rows, got %q and %q", rows[0], rows[1])
		}
	})

	t.Run("ToText Wide Runes", func(t *testing.T) {
		table := &Table{Tracks: []models.FullTrack{
			{Name: strings.Repeat("音", 40), DurationMS: 1000},
			{Name: "short", DurationMS: 1000},
		}}

		data, err := ToText(table)
		if err != nil {
			t.Fatalf("ToText failed: %v", err)
		}

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		rows := lines[len(lines)-2:]
		if !strings.Contains(rows[0], "…") {
			t.Errorf("expected truncated title, got %q", rows[0])
		}
		if runewidth.StringWidth(rows[0]) != runewidth.StringWidth(rows[1]) {
			t.Errorf("expected aligned rows, got %q and %q", rows[0], rows[1])
		}
	})

	t.Run("Empty Table", func(t *testing.T) {
		for _, f := range []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON} {
			if _, err := Render(&Table{}, f); err != nil {
				t.Errorf("Render(%s) on empty table failed: %v", f, err)
			}
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Render(sampleTable(), Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, sampleTable(), FormatCSV); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "ID,Title") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("Writer Error", func(t *testing.T) {
		if err := Write(&th.FWriter{}, sampleTable(), FormatText); err == nil {
			t.Fatal("expected error from failing writer")
		}
	})

	t.Run("WriteFile", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		if err := WriteFile("tracks.md", sampleTable(), FormatMarkdown); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		th.AssertFileExists(t, filepath.Join(tempDir, "tracks.md"))
		content := th.MustReadFile(t, "tracks.md")
		if !strings.Contains(content, "One More Time") {
			t.Errorf("file missing track title, got: %s", content)
		}
	})

	t.Run("WriteFile Missing Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "tracks.txt")
		if err := WriteFile(path, sampleTable(), FormatText); err == nil {
			t.Fatal("expected error writing into a missing directory")
		}
	})
}

func TestPlayback(t *testing.T) {
	t.Run("Nothing Playing", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Playback(&buf, nil); err != nil {
			t.Fatalf("Playback failed: %v", err)
		}
		if buf.String() != "Nothing playing\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("Summary", func(t *testing.T) {
		track := sampleTable().Tracks[0]
		p := &models.PlaybackContext{
			IsPlaying:    true,
			ProgressMS:   65000,
			ShuffleState: true,
			Item:         &track,
			Device:       models.Device{Name: "Kitchen", VolumePercent: 40},
		}

		var buf bytes.Buffer
		if err := Playback(&buf, p); err != nil {
			t.Fatalf("Playback failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Playing: Daft Punk - One More Time",
			"Progress: 1:05 / 5:20",
			"Device: Kitchen (40%)",
			"Shuffle: on  Repeat: off",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output, got: %s", want, output)
			}
		}
	})

	t.Run("Writer Fails Midway", func(t *testing.T) {
		track := sampleTable().Tracks[0]
		var buf bytes.Buffer
		w := th.NewLimitedWriter(2, 0, &buf)

		err := Playback(&w, &models.PlaybackContext{Item: &track})
		if err == nil {
			t.Fatal("expected error after write limit")
		}
		if strings.Count(buf.String(), "\n") != 2 {
			t.Errorf("expected two lines before failure, got %q", buf.String())
		}
	})
}
