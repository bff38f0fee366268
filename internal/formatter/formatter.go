// package formatter renders track lists and playback state for CLI output (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/mattn/go-runewidth"
)

// Format selects an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or its short alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Table is a titled track list. Liked holds the ids saved in the user's library.
type Table struct {
	Title  string
	Tracks []models.FullTrack
	Liked  map[string]bool
}

type tableRow struct {
	ID       string `json:"id"`
	URI      string `json:"uri"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration string `json:"duration"`
	ISRC     string `json:"isrc,omitempty"`
	Liked    bool   `json:"liked"`
}

func (t *Table) rows() []tableRow {
	rows := make([]tableRow, 0, len(t.Tracks))
	for _, track := range t.Tracks {
		rows = append(rows, tableRow{
			ID:       track.ID,
			URI:      track.URI,
			Title:    track.Name,
			Artist:   track.ArtistNames(),
			Album:    track.Album.Name,
			Duration: shared.FormatDuration(track.DurationMS),
			ISRC:     track.ExternalIDs.ISRC,
			Liked:    t.Liked[track.ID],
		})
	}
	return rows
}

// ToCSV renders columns: ID, Title, Artist, Album, Duration, ISRC, Liked
func ToCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC", "Liked"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range t.rows() {
		record := []string{row.ID, row.Title, row.Artist, row.Album, row.Duration, row.ISRC, strconv.FormatBool(row.Liked)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a numbered list under the table title.
func ToMarkdown(t *Table) ([]byte, error) {
	var buf bytes.Buffer

	if t.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", t.Title)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(t.Tracks))

	for i, row := range t.rows() {
		albumPart := ""
		if row.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", row.Album)
		}
		heart := ""
		if row.Liked {
			heart = " ♥"
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]%s\n", i+1, row.Artist, row.Title, albumPart, row.Duration, heart)
	}

	return buf.Bytes(), nil
}

// ToJSON renders the rows as an indented JSON document.
func ToJSON(t *Table) ([]byte, error) {
	doc := struct {
		Title  string     `json:"title,omitempty"`
		Tracks []tableRow `json:"tracks"`
	}{Title: t.Title, Tracks: t.rows()}

	data, err := shared.MarshalJSON(doc, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

const (
	titleWidth  = 32
	artistWidth = 24
	albumWidth  = 24
)

// ToText renders aligned columns; wide runes are measured by display width.
func ToText(t *Table) ([]byte, error) {
	var buf bytes.Buffer

	if t.Title != "" {
		fmt.Fprintf(&buf, "%s\n", t.Title)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(t.Tracks))

	numWidth := len(strconv.Itoa(len(t.Tracks)))
	for i, row := range t.rows() {
		mark := " "
		if row.Liked {
			mark = "♥"
		}
		fmt.Fprintf(&buf, "%*d. %s %s  %s  %s  %s\n",
			numWidth, i+1, mark,
			cell(row.Title, titleWidth),
			cell(row.Artist, artistWidth),
			cell(row.Album, albumWidth),
			row.Duration,
		)
	}

	return buf.Bytes(), nil
}

// cell truncates s to width display columns and pads it on the right.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// Render encodes t in format f.
func Render(t *Table, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ToCSV(t)
	case FormatMarkdown:
		return ToMarkdown(t)
	case FormatJSON:
		return ToJSON(t)
	case FormatText, "":
		return ToText(t)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// Write renders t to w.
func Write(w io.Writer, t *Table, f Format) error {
	data, err := Render(t, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile renders t to path.
func WriteFile(path string, t *Table, f Format) error {
	data, err := Render(t, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Playback writes a short now-playing summary.
func Playback(w io.Writer, p *models.PlaybackContext) error {
	if p == nil || p.Item == nil {
		_, err := fmt.Fprintln(w, "Nothing playing")
		return err
	}

	state := "Paused"
	if p.IsPlaying {
		state = "Playing"
	}
	repeat := p.RepeatState
	if repeat == "" {
		repeat = models.RepeatOff
	}
	shuffle := "off"
	if p.ShuffleState {
		shuffle = "on"
	}

	lines := []string{
		fmt.Sprintf("%s: %s - %s", state, p.Item.ArtistNames(), p.Item.Name),
		fmt.Sprintf("Album: %s", p.Item.Album.Name),
		fmt.Sprintf("Progress: %s / %s", shared.FormatDuration(p.ProgressMS), shared.FormatDuration(p.Item.DurationMS)),
		fmt.Sprintf("Device: %s (%d%%)", p.Device.Name, p.Device.VolumePercent),
		fmt.Sprintf("Shuffle: %s  Repeat: %s", shuffle, repeat),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
