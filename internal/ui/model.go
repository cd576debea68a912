// ABOUTME: Bubbletea model for the soundboard TUI
// ABOUTME: Defines board state, key handling and the add-sound and device flows
package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Sendspin/soundboard/internal/registry"
	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/Sendspin/soundboard/pkg/soundboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Columns is the number of buttons per grid row
const Columns = 6

type mode int

const (
	modeGrid mode = iota
	modeDevices
	modeAddFile
	modeAddTitle
	modeAddShortcut
)

// reservedKeys cannot be used as sound shortcuts
var reservedKeys = map[string]bool{
	"q": true, "m": true, "o": true, "a": true, "s": true, "S": true,
	"h": true, "j": true, "k": true, "l": true, " ": true, "enter": true,
	"up": true, "down": true, "left": true, "right": true, "esc": true, "ctrl+c": true,
}

// Model represents the TUI state
type Model struct {
	ctrl Controller

	sounds  []registry.Sound
	cursor  int
	playing map[string]bool

	muted  bool
	device int

	mode          mode
	devices       []output.Device
	deviceCursor  int
	picker        filepicker.Model
	input         textinput.Model
	pendingPath   string
	pendingTitle  string

	status    string
	statusErr bool

	width  int
	height int
}

// Results of commands run off the event loop
type playResultMsg struct {
	clipID string
	err    error
}

type muteMsg struct {
	muted bool
}

type deviceResultMsg struct {
	id  int
	err error
}

type addResultMsg struct {
	sound registry.Sound
	err   error
}

// NewModel creates a new TUI model
func NewModel(ctrl Controller) Model {
	picker := filepicker.New()
	picker.AllowedTypes = []string{".wav", ".mp3"}
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	input := textinput.New()
	input.CharLimit = 64

	return Model{
		ctrl:    ctrl,
		sounds:  ctrl.Sounds(),
		playing: make(map[string]bool),
		muted:   ctrl.Muted(),
		device:  ctrl.OutDevice(),
		devices: ctrl.Devices(),
		picker:  picker,
		input:   input,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeDevices:
			return m.handleDeviceKey(msg)
		case modeAddFile:
			return m.handlePickerKey(msg)
		case modeAddTitle, modeAddShortcut:
			return m.handleInputKey(msg)
		}
		return m.handleGridKey(msg)

	case playResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}

	case SessionMsg:
		m.applySession(msg)

	case SoundsMsg:
		m.sounds = msg.Sounds
		m.clampCursor()
		m.setStatus(fmt.Sprintf("Reloaded %d sounds", len(m.sounds)))

	case muteMsg:
		m.muted = msg.muted
		if m.muted {
			m.setStatus("Muted")
		} else {
			m.setStatus("Unmuted")
		}

	case deviceResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.device = msg.id
		m.setStatus("Output: " + m.deviceName())

	case addResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.sounds = m.ctrl.Sounds()
		m.setStatus(fmt.Sprintf("Added %q", msg.sound.Title))

	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.Error

	default:
		// The file picker reads directories asynchronously
		if m.mode == modeAddFile {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// handleGridKey handles keys on the main board
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-Columns)
	case "down", "j":
		m.moveCursor(Columns)
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "enter", " ":
		if s, ok := m.selected(); ok {
			return m, playCmd(m.ctrl, s)
		}
	case "m":
		return m, muteCmd(m.ctrl)
	case "o":
		m.devices = m.ctrl.Devices()
		m.deviceCursor = 0
		for i, d := range m.devices {
			if d.ID == m.device {
				m.deviceCursor = i
			}
		}
		m.mode = modeDevices
	case "a":
		m.mode = modeAddFile
		m.pendingPath = ""
		m.pendingTitle = ""
		return m, m.picker.Init()
	case "s":
		if s, ok := m.selected(); ok {
			return m, stopCmd(m.ctrl, s.FileName)
		}
	case "S":
		return m, stopAllCmd(m.ctrl)
	default:
		for i, s := range m.sounds {
			if s.Shortcut != "" && s.Shortcut == key {
				m.cursor = i
				return m, playCmd(m.ctrl, s)
			}
		}
	}

	return m, nil
}

// handleDeviceKey handles keys in the output device menu
func (m Model) handleDeviceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "o":
		m.mode = modeGrid
	case "up", "k":
		if m.deviceCursor > 0 {
			m.deviceCursor--
		}
	case "down", "j":
		if m.deviceCursor < len(m.devices)-1 {
			m.deviceCursor++
		}
	case "enter", " ":
		m.mode = modeGrid
		if m.deviceCursor < len(m.devices) {
			return m, selectDeviceCmd(m.ctrl, m.devices[m.deviceCursor].ID)
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// handlePickerKey forwards keys to the file picker until a file is chosen
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeGrid
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m.choseFile(path), cmd
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setError(fmt.Errorf("%s: %w", filepath.Base(path), registry.ErrUnsupportedFile))
	}
	return m, cmd
}

// choseFile moves from the file picker to the title prompt
func (m Model) choseFile(path string) Model {
	m.pendingPath = path
	m.mode = modeAddTitle
	m.input.Reset()
	m.input.Placeholder = "Title"
	m.input.Focus()
	return m
}

// handleInputKey drives the title and shortcut prompts
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeGrid
		m.input.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	if m.mode == modeAddTitle {
		if value == "" {
			m.setError(errors.New("title is required"))
			return m, nil
		}
		m.pendingTitle = value
		m.mode = modeAddShortcut
		m.input.Reset()
		m.input.Placeholder = "Shortcut key (optional)"
		return m, nil
	}

	if reservedKeys[value] {
		m.setError(fmt.Errorf("%q is a board key and cannot be a shortcut", value))
		return m, nil
	}

	m.mode = modeGrid
	m.input.Blur()
	return m, addCmd(m.ctrl, m.pendingPath, m.pendingTitle, value)
}

// applySession tracks which clips are playing
func (m *Model) applySession(msg SessionMsg) {
	switch msg.Type {
	case soundboard.EventStarted:
		m.playing[msg.ClipID] = true
	case soundboard.EventFinished, soundboard.EventStopped:
		delete(m.playing, msg.ClipID)
	case soundboard.EventFailed:
		delete(m.playing, msg.ClipID)
		if msg.Err != nil {
			m.setError(msg.Err)
		}
	}
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.sounds) {
		return
	}
	m.cursor = next
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.sounds) {
		m.cursor = len(m.sounds) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (registry.Sound, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sounds) {
		return registry.Sound{}, false
	}
	return m.sounds[m.cursor], true
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) deviceName() string {
	if m.device < 0 {
		return "none"
	}
	for _, d := range m.devices {
		if d.ID == m.device {
			return d.Name
		}
	}
	return fmt.Sprintf("device %d", m.device)
}

// playingIDs returns the playing clip ids in stable order
func (m Model) playingIDs() []string {
	ids := make([]string, 0, len(m.playing))
	for id := range m.playing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Commands

func playCmd(ctrl Controller, s registry.Sound) tea.Cmd {
	return func() tea.Msg {
		return playResultMsg{clipID: s.FileName, err: ctrl.Play(s)}
	}
}

func stopCmd(ctrl Controller, clipID string) tea.Cmd {
	return func() tea.Msg {
		ctrl.Stop(clipID)
		return nil
	}
}

func stopAllCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.StopAll()
		return nil
	}
}

func muteCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return muteMsg{muted: ctrl.ToggleMute()}
	}
}

func selectDeviceCmd(ctrl Controller, id int) tea.Cmd {
	return func() tea.Msg {
		return deviceResultMsg{id: id, err: ctrl.SelectDevice(id)}
	}
}

func addCmd(ctrl Controller, path, title, shortcut string) tea.Cmd {
	return func() tea.Msg {
		sound, err := ctrl.AddSound(path, title, shortcut)
		return addResultMsg{sound: sound, err: err}
	}
}
