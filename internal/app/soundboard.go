// ABOUTME: Soundboard application orchestration
// ABOUTME: Wires backend, device catalog, sound registry, clip player and TUI
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Sendspin/soundboard/internal/catalog"
	"github.com/Sendspin/soundboard/internal/registry"
	"github.com/Sendspin/soundboard/internal/ui"
	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/Sendspin/soundboard/pkg/soundboard"
)

// How long shutdown waits for sessions to wind down
const shutdownTimeout = 2 * time.Second

// Config holds soundboard configuration
type Config struct {
	SoundMap    string
	SoundsDir   string
	Backend     string
	ChunkFrames int
}

// Soundboard owns every component for one run. It implements ui.Controller.
type Soundboard struct {
	config   Config
	backend  output.Backend
	catalog  *catalog.Catalog
	registry *registry.Registry
	player   *soundboard.ClipPlayer

	mu   sync.Mutex
	sink func(soundboard.Event)
}

// New creates the backend named in config and wires everything to it
func New(config Config) (*Soundboard, error) {
	backend, err := output.NewBackend(config.Backend)
	if err != nil {
		return nil, err
	}

	sb, err := NewWithBackend(config, backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return sb, nil
}

// NewWithBackend wires the soundboard to an existing backend
func NewWithBackend(config Config, backend output.Backend) (*Soundboard, error) {
	cat, err := catalog.Build(backend)
	if err != nil {
		return nil, err
	}
	log.Printf("Output backend %s: %d devices", backend.Name(), cat.Len())

	reg, err := registry.Load(config.SoundMap, config.SoundsDir)
	if err != nil {
		return nil, err
	}

	if id := reg.OutDevice(); id >= 0 {
		if _, ok := cat.NameOf(id); !ok {
			log.Printf("Saved output device %d is not available on %s", id, backend.Name())
		}
	} else if def, ok := cat.Default(); ok {
		name, _ := cat.NameOf(def)
		log.Printf("No output device selected; backend default is %q (id %d)", name, def)
	}

	sb := &Soundboard{
		config:   config,
		backend:  backend,
		catalog:  cat,
		registry: reg,
	}
	sb.player = soundboard.NewClipPlayer(backend, soundboard.Options{
		ClipDir:     reg.ClipDir(),
		ChunkFrames: config.ChunkFrames,
		OnEvent:     sb.dispatch,
	})

	return sb, nil
}

// Player returns the clip player
func (s *Soundboard) Player() *soundboard.ClipPlayer {
	return s.player
}

// Registry returns the sound registry
func (s *Soundboard) Registry() *registry.Registry {
	return s.registry
}

// Catalog returns the device catalog
func (s *Soundboard) Catalog() *catalog.Catalog {
	return s.catalog
}

// SetEventSink routes player events to fn (nil to only log them)
func (s *Soundboard) SetEventSink(fn func(soundboard.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = fn
}

func (s *Soundboard) dispatch(ev soundboard.Event) {
	if ev.Err != nil {
		log.Printf("Clip %q %s: %v", ev.Session.Clip.ID, ev.Type, ev.Err)
	} else {
		log.Printf("Clip %q %s", ev.Session.Clip.ID, ev.Type)
	}

	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		sink(ev)
	}
}

// Sounds returns the board in display order
func (s *Soundboard) Sounds() []registry.Sound {
	return s.registry.Sounds()
}

// Play plays a sound on the saved output device
func (s *Soundboard) Play(sound registry.Sound) error {
	_, err := s.player.Play(sound.Clip(), s.registry.OutDevice())
	return err
}

// PlayKey plays the sound matching a clip id or title. A negative deviceID
// uses the saved output device.
func (s *Soundboard) PlayKey(key string, deviceID int) (*soundboard.Session, error) {
	sound, ok := s.registry.Find(key)
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, registry.ErrNotFound)
	}
	if deviceID < 0 {
		deviceID = s.registry.OutDevice()
	}
	return s.player.Play(sound.Clip(), deviceID)
}

// Stop stops the clip's session if one is active
func (s *Soundboard) Stop(clipID string) bool {
	return s.player.Stop(clipID)
}

// StopAll stops every active session
func (s *Soundboard) StopAll() {
	s.player.StopAll()
}

// ToggleMute flips the shared mute flag
func (s *Soundboard) ToggleMute() bool {
	return s.player.ToggleMute()
}

// Muted reports the shared mute flag
func (s *Soundboard) Muted() bool {
	return s.player.Muted()
}

// Devices lists the catalog's output devices
func (s *Soundboard) Devices() []output.Device {
	return s.catalog.Devices()
}

// OutDevice returns the saved output device
func (s *Soundboard) OutDevice() int {
	return s.registry.OutDevice()
}

// SelectDevice saves id as the output device after checking the catalog
func (s *Soundboard) SelectDevice(id int) error {
	if _, ok := s.catalog.NameOf(id); !ok {
		return fmt.Errorf("device %d: %w", id, output.ErrDeviceNotFound)
	}
	return s.registry.SetOutDevice(id)
}

// AddSound imports a sound file onto the board
func (s *Soundboard) AddSound(path, title, shortcut string) (registry.Sound, error) {
	return s.registry.Add(path, title, shortcut)
}

// RunTUI runs the interactive board until the user quits or ctx is done
func (s *Soundboard) RunTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := ui.NewProgram(s)

	s.SetEventSink(func(ev soundboard.Event) {
		program.Send(ui.SessionMsgFromEvent(ev))
	})
	defer s.SetEventSink(nil)

	go s.watch(ctx, func(sounds []registry.Sound) {
		program.Send(ui.SoundsMsg{Sounds: sounds})
	})

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}

// RunHeadless logs events and watches the sound map until ctx is done
func (s *Soundboard) RunHeadless(ctx context.Context) error {
	log.Printf("Running headless with %d sounds, output device %d", len(s.Sounds()), s.OutDevice())
	s.watch(ctx, func(sounds []registry.Sound) {
		log.Printf("Sound map changed: %d sounds", len(sounds))
	})
	return nil
}

func (s *Soundboard) watch(ctx context.Context, onChange func([]registry.Sound)) {
	if err := s.registry.Watch(ctx, onChange); err != nil {
		log.Printf("Sound map watcher stopped: %v", err)
		<-ctx.Done()
	}
}

// Shutdown stops all sessions, waits for them and closes the backend
func (s *Soundboard) Shutdown() error {
	s.player.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.player.Wait(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sessions did not stop: %w", err))
	}
	if err := s.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close backend: %w", err))
	}

	log.Printf("Soundboard stopped")
	return errors.Join(errs...)
}
