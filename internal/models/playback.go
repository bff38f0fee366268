package models

import "fmt"

// Device is a Spotify Connect playback target.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent int    `json:"volume_percent"`
}

// Context is the playlist, album or artist a track is playing from.
type Context struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// RepeatState is the player's repeat mode.
type RepeatState string

const (
	RepeatOff     RepeatState = "off"
	RepeatContext RepeatState = "context"
	RepeatTrack   RepeatState = "track"
)

// Next rotates off -> context -> track -> off.
func (r RepeatState) Next() RepeatState {
	switch r {
	case RepeatOff:
		return RepeatContext
	case RepeatContext:
		return RepeatTrack
	default:
		return RepeatOff
	}
}

// ParseRepeatState validates a repeat mode name.
func ParseRepeatState(s string) (RepeatState, error) {
	switch r := RepeatState(s); r {
	case RepeatOff, RepeatContext, RepeatTrack:
		return r, nil
	default:
		return "", fmt.Errorf("unknown repeat state %q", s)
	}
}

// PlaybackContext is a snapshot of the player (GET /me/player).
type PlaybackContext struct {
	Device               Device      `json:"device"`
	RepeatState          RepeatState `json:"repeat_state"`
	ShuffleState         bool        `json:"shuffle_state"`
	Context              *Context    `json:"context"`
	Timestamp            int64       `json:"timestamp"`
	ProgressMS           int         `json:"progress_ms"`
	IsPlaying            bool        `json:"is_playing"`
	CurrentlyPlayingType string      `json:"currently_playing_type"`
	Item                 *FullTrack  `json:"item"`
}

// TrackID returns the id of the playing track, if any.
func (p *PlaybackContext) TrackID() (string, bool) {
	if p == nil || p.Item == nil || p.Item.ID == "" {
		return "", false
	}
	return p.Item.ID, true
}
