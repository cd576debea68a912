// ABOUTME: TUI initialization and the controller it drives
// ABOUTME: Wraps the bubbletea program and defines messages sent from the app
package ui

import (
	"github.com/Sendspin/soundboard/internal/registry"
	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/Sendspin/soundboard/pkg/soundboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is what the TUI needs from the application. Calls may block on
// audio or disk I/O and are only made from tea.Cmds.
type Controller interface {
	Sounds() []registry.Sound
	Play(sound registry.Sound) error
	Stop(clipID string) bool
	StopAll()
	ToggleMute() bool
	Muted() bool
	Devices() []output.Device
	OutDevice() int
	SelectDevice(id int) error
	AddSound(path, title, shortcut string) (registry.Sound, error)
}

// SessionMsg reports a playback event for one clip
type SessionMsg struct {
	ClipID string
	Type   soundboard.EventType
	Err    error
}

// SessionMsgFromEvent converts a player event for program.Send
func SessionMsgFromEvent(ev soundboard.Event) SessionMsg {
	return SessionMsg{
		ClipID: ev.Session.Clip.ID,
		Type:   ev.Type,
		Err:    ev.Err,
	}
}

// SoundsMsg replaces the board after the sound map changed on disk
type SoundsMsg struct {
	Sounds []registry.Sound
}

// StatusMsg shows a line in the status bar
type StatusMsg struct {
	Text  string
	Error bool
}

// NewProgram creates the bubbletea program for the board
func NewProgram(ctrl Controller) *tea.Program {
	return tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
}
