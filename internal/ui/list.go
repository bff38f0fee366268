package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sptx/internal/models"
	"github.com/desertthunder/sptx/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
	_ list.Item = deviceItem{}
)

// playlistItem wraps [models.SimplifiedPlaylist] to implement [list.Item].
type playlistItem struct {
	playlist models.SimplifiedPlaylist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.Tracks.Total)
	if i.playlist.Owner.DisplayName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Owner.DisplayName)
	}
	return desc
}

// trackItem wraps [models.FullTrack] to implement [list.Item].
type trackItem struct {
	track models.FullTrack
	liked bool
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	if i.liked {
		return "♥ " + i.track.Name
	}
	return i.track.Name
}
func (i trackItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.DurationMS))
}

// deviceItem wraps [models.Device] to implement [list.Item].
type deviceItem struct {
	device  models.Device
	current bool
}

func (i deviceItem) FilterValue() string { return i.device.Name }
func (i deviceItem) Title() string {
	if i.current {
		return "● " + i.device.Name
	}
	return i.device.Name
}
func (i deviceItem) Description() string {
	desc := i.device.Type
	if i.device.IsActive {
		desc += " • active"
	}
	return desc
}
