// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests navigation, playback commands, mute, device menu and add flow
package ui

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sendspin/soundboard/internal/registry"
	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/Sendspin/soundboard/pkg/soundboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu       sync.Mutex
	sounds   []registry.Sound
	played   []string
	stopped  []string
	stopAll  int
	muted    bool
	device   int
	added    []registry.Sound
	playErr  error
	addErr   error
	setupErr error
}

func (c *fakeController) Sounds() []registry.Sound {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]registry.Sound(nil), c.sounds...)
}

func (c *fakeController) Play(s registry.Sound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.played = append(c.played, s.FileName)
	return c.playErr
}

func (c *fakeController) Stop(clipID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = append(c.stopped, clipID)
	return true
}

func (c *fakeController) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAll++
}

func (c *fakeController) ToggleMute() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = !c.muted
	return c.muted
}

func (c *fakeController) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *fakeController) Devices() []output.Device {
	return []output.Device{
		{ID: 0, Name: "Speakers", MaxOutputChannels: 2},
		{ID: 3, Name: "Headphones", MaxOutputChannels: 2},
	}
}

func (c *fakeController) OutDevice() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device
}

func (c *fakeController) SelectDevice(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setupErr != nil {
		return c.setupErr
	}
	c.device = id
	return nil
}

func (c *fakeController) AddSound(path, title, shortcut string) (registry.Sound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.addErr != nil {
		return registry.Sound{}, c.addErr
	}
	s := registry.Sound{Title: title, FileName: "new", Shortcut: shortcut}
	c.added = append(c.added, s)
	c.sounds = append(c.sounds, s)
	return s, nil
}

func newFakeController(n int) *fakeController {
	c := &fakeController{device: soundboard.NoDevice}
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		c.sounds = append(c.sounds, registry.Sound{Title: "Sound " + id, FileName: "clip" + id})
	}
	return c
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// update feeds msg to the model and runs any returned command once
func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	model := next.(Model)
	if cmd != nil {
		if result := cmd(); result != nil {
			next, _ = model.Update(result)
			model = next.(Model)
		}
	}
	return model
}

func TestNewModel(t *testing.T) {
	ctrl := newFakeController(3)
	ctrl.muted = true
	ctrl.device = 3

	m := NewModel(ctrl)

	assert.Len(t, m.sounds, 3)
	assert.True(t, m.muted)
	assert.Equal(t, 3, m.device)
	assert.Equal(t, "Headphones", m.deviceName())
	assert.Equal(t, modeGrid, m.mode)
}

func TestGridNavigation(t *testing.T) {
	m := NewModel(newFakeController(8))

	m = update(t, m, key(tea.KeyRight))
	assert.Equal(t, 1, m.cursor)

	m = update(t, m, keyRunes("j"))
	assert.Equal(t, 7, m.cursor)

	// Past the last sound
	m = update(t, m, key(tea.KeyRight))
	assert.Equal(t, 7, m.cursor)
	m = update(t, m, key(tea.KeyDown))
	assert.Equal(t, 7, m.cursor)

	m = update(t, m, keyRunes("k"))
	assert.Equal(t, 1, m.cursor)

	m = update(t, m, keyRunes("h"))
	m = update(t, m, key(tea.KeyLeft))
	assert.Equal(t, 0, m.cursor)
}

func TestEnterPlaysSelected(t *testing.T) {
	ctrl := newFakeController(3)
	m := NewModel(ctrl)

	m = update(t, m, key(tea.KeyRight))
	m = update(t, m, key(tea.KeyEnter))
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Equal(t, []string{"clipb", "clipb"}, ctrl.played)
	assert.Empty(t, m.status)
}

func TestShortcutPlaysSound(t *testing.T) {
	ctrl := newFakeController(3)
	ctrl.sounds[2].Shortcut = "7"
	m := NewModel(ctrl)

	m = update(t, m, keyRunes("7"))

	assert.Equal(t, []string{"clipc"}, ctrl.played)
	assert.Equal(t, 2, m.cursor)
}

func TestPlayErrorShownInStatus(t *testing.T) {
	ctrl := newFakeController(1)
	ctrl.playErr = &soundboard.DeviceUnavailableError{DeviceID: -1, Err: soundboard.ErrNoDevice}
	m := NewModel(ctrl)

	m = update(t, m, key(tea.KeyEnter))

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "no output device selected")
}

func TestMuteToggle(t *testing.T) {
	ctrl := newFakeController(1)
	m := NewModel(ctrl)

	m = update(t, m, keyRunes("m"))
	assert.True(t, m.muted)
	assert.True(t, ctrl.Muted())
	assert.Contains(t, m.View(), "MUTED")

	m = update(t, m, keyRunes("m"))
	assert.False(t, m.muted)
	assert.False(t, ctrl.Muted())
}

func TestStopKeys(t *testing.T) {
	ctrl := newFakeController(2)
	m := NewModel(ctrl)

	m = update(t, m, keyRunes("s"))
	_ = update(t, m, keyRunes("S"))

	assert.Equal(t, []string{"clipa"}, ctrl.stopped)
	assert.Equal(t, 1, ctrl.stopAll)
}

func TestSessionMessagesTrackPlaying(t *testing.T) {
	m := NewModel(newFakeController(2))

	m = update(t, m, SessionMsg{ClipID: "clipa", Type: soundboard.EventStarted})
	assert.True(t, m.playing["clipa"])
	assert.Contains(t, m.View(), "Playing: clipa")

	m = update(t, m, SessionMsg{ClipID: "clipa", Type: soundboard.EventFinished})
	assert.False(t, m.playing["clipa"])

	m = update(t, m, SessionMsg{ClipID: "clipb", Type: soundboard.EventStarted})
	m = update(t, m, SessionMsg{ClipID: "clipb", Type: soundboard.EventFailed, Err: errors.New("device unplugged")})
	assert.False(t, m.playing["clipb"])
	assert.True(t, m.statusErr)
	assert.Equal(t, "device unplugged", m.status)
}

func TestDeviceMenu(t *testing.T) {
	ctrl := newFakeController(1)
	m := NewModel(ctrl)

	m = update(t, m, keyRunes("o"))
	require.Equal(t, modeDevices, m.mode)
	assert.Contains(t, m.View(), "Headphones")

	m = update(t, m, key(tea.KeyDown))
	m = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, modeGrid, m.mode)
	assert.Equal(t, 3, m.device)
	assert.Equal(t, 3, ctrl.OutDevice())
	assert.Equal(t, "Output: Headphones", m.status)
}

func TestDeviceMenuError(t *testing.T) {
	ctrl := newFakeController(1)
	ctrl.setupErr = errors.New("disk full")
	m := NewModel(ctrl)

	m = update(t, m, keyRunes("o"))
	m = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, soundboard.NoDevice, m.device)
	assert.True(t, m.statusErr)
	assert.Equal(t, "disk full", m.status)
}

func TestDeviceMenuEscape(t *testing.T) {
	m := NewModel(newFakeController(1))

	m = update(t, m, keyRunes("o"))
	m = update(t, m, key(tea.KeyEsc))

	assert.Equal(t, modeGrid, m.mode)
}

func TestAddFlow(t *testing.T) {
	ctrl := newFakeController(1)
	m := NewModel(ctrl)

	next, _ := m.Update(keyRunes("a"))
	m = next.(Model)
	require.Equal(t, modeAddFile, m.mode)

	m = m.choseFile("/tmp/boom.wav")
	require.Equal(t, modeAddTitle, m.mode)

	// Board keys are text while prompting
	m = update(t, m, keyRunes("Boom q"))
	m = update(t, m, key(tea.KeyEnter))
	require.Equal(t, modeAddShortcut, m.mode)

	m = update(t, m, keyRunes("b"))
	m = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, modeGrid, m.mode)
	require.Len(t, ctrl.added, 1)
	assert.Equal(t, registry.Sound{Title: "Boom q", FileName: "new", Shortcut: "b"}, ctrl.added[0])
	assert.Len(t, m.sounds, 2)
	assert.Equal(t, `Added "Boom q"`, m.status)
}

func TestAddFlowRejectsEmptyTitleAndReservedShortcut(t *testing.T) {
	ctrl := newFakeController(0)
	m := NewModel(ctrl).choseFile("/tmp/boom.wav")

	m = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, modeAddTitle, m.mode)
	assert.True(t, m.statusErr)

	m = update(t, m, keyRunes("Boom"))
	m = update(t, m, key(tea.KeyEnter))
	m = update(t, m, keyRunes("m"))
	m = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, modeAddShortcut, m.mode)
	assert.True(t, m.statusErr)
	assert.Empty(t, ctrl.added)
}

func TestAddFlowError(t *testing.T) {
	ctrl := newFakeController(0)
	ctrl.addErr = registry.ErrDuplicateClip
	m := NewModel(ctrl).choseFile("/tmp/boom.wav")

	m = update(t, m, keyRunes("Boom"))
	m = update(t, m, key(tea.KeyEnter))
	m = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, modeGrid, m.mode)
	assert.True(t, m.statusErr)
	assert.Equal(t, registry.ErrDuplicateClip.Error(), m.status)
}

func TestAddFlowCancel(t *testing.T) {
	m := NewModel(newFakeController(0)).choseFile("/tmp/boom.wav")

	m = update(t, m, key(tea.KeyEsc))

	assert.Equal(t, modeGrid, m.mode)
}

func TestSoundsMsgClampsCursor(t *testing.T) {
	m := NewModel(newFakeController(5))
	m.cursor = 4

	m = update(t, m, SoundsMsg{Sounds: []registry.Sound{{Title: "Only", FileName: "only"}}})

	assert.Equal(t, 0, m.cursor)
	assert.Len(t, m.sounds, 1)

	m = update(t, m, SoundsMsg{})
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "No sounds yet")
}

func TestViewRendersGridRows(t *testing.T) {
	m := NewModel(newFakeController(7))
	view := m.View()

	assert.Contains(t, view, "Sound a")
	assert.Contains(t, view, "Sound g")

	// Seventh sound wraps to a second row
	lines := strings.Split(view, "\n")
	first, seventh := -1, -1
	for i, line := range lines {
		if first < 0 && strings.Contains(line, "Sound a") {
			first = i
		}
		if strings.Contains(line, "Sound g") {
			seventh = i
		}
	}
	assert.Greater(t, seventh, first)
}

func TestProgramMuteAndQuit(t *testing.T) {
	ctrl := newFakeController(2)
	tm := teatest.NewTestModel(t, NewModel(ctrl), teatest.WithInitialTermSize(160, 40))

	tm.Send(keyRunes("m"))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("MUTED"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(keyRunes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(Model)
	assert.True(t, final.muted)
	assert.True(t, ctrl.Muted())
}
