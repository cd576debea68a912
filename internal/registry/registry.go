// ABOUTME: Sound registry persisted as a JSON sound map
// ABOUTME: Loads, validates, edits and saves the sound list and output device
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Sendspin/soundboard/pkg/soundboard"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrDuplicateClip is returned when adding a clip id that is already registered
	ErrDuplicateClip = errors.New("clip already registered")

	// ErrDuplicateShortcut is returned when a shortcut is already bound to another sound
	ErrDuplicateShortcut = errors.New("shortcut already in use")

	// ErrUnsupportedFile is returned when importing something other than .wav or .mp3
	ErrUnsupportedFile = errors.New("unsupported sound file (expected .wav or .mp3)")

	// ErrNotFound is returned when no sound matches
	ErrNotFound = errors.New("sound not found")
)

// ConfigError reports a malformed or invalid sound map
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid sound map %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Sound is one persisted board entry
type Sound struct {
	Title    string `json:"title" validate:"required"`
	FileName string `json:"file_name" validate:"required,clipid"`
	Shortcut string `json:"shortcut"`
}

// Clip converts the entry to a playable clip descriptor
func (s Sound) Clip() soundboard.Clip {
	return soundboard.Clip{Title: s.Title, ID: s.FileName}
}

// SoundMap is the on-disk document
type SoundMap struct {
	Sounds    []Sound `json:"sounds" validate:"dive"`
	OutDevice int     `json:"out_device" validate:"gte=-1"`
}

// DefaultSoundMap is written when no sound map exists yet
func DefaultSoundMap() SoundMap {
	return SoundMap{Sounds: []Sound{}, OutDevice: soundboard.NoDevice}
}

// Registry owns the sound map file and the clip directory
type Registry struct {
	path     string
	clipDir  string
	validate *validator.Validate

	mu        sync.RWMutex
	data      SoundMap
	lastSaved []byte
}

// Load reads the sound map at path, creating a default one if missing
func Load(path, clipDir string) (*Registry, error) {
	r := &Registry{
		path:     path,
		clipDir:  clipDir,
		validate: newValidator(),
	}

	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create clip directory: %w", err)
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Sound map %s not found, creating it", path)
		r.data = DefaultSoundMap()
		if err := r.save(); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sound map: %w", err)
	}

	data, err := r.parse(raw)
	if err != nil {
		return nil, err
	}
	r.data = data
	r.lastSaved = raw

	log.Printf("Loaded %d sounds from %s (out_device=%d)", len(data.Sounds), path, data.OutDevice)
	return r, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("clipid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
	})
	return v
}

// parse decodes and validates a sound map document
func (r *Registry) parse(raw []byte) (SoundMap, error) {
	var data SoundMap
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&data); err != nil {
		return SoundMap{}, &ConfigError{Path: r.path, Err: err}
	}
	if data.Sounds == nil {
		data.Sounds = []Sound{}
	}
	if err := r.validate.Struct(data); err != nil {
		return SoundMap{}, &ConfigError{Path: r.path, Err: err}
	}
	return data, nil
}

// save writes the sound map atomically (must hold r.mu for writing)
func (r *Registry) save() error {
	raw, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sound map: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".sound_map-*.json")
	if err != nil {
		return fmt.Errorf("failed to save sound map: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to save sound map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to save sound map: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to save sound map: %w", err)
	}

	r.lastSaved = raw
	return nil
}

// Path returns the sound map location
func (r *Registry) Path() string {
	return r.path
}

// ClipDir returns the directory clips are stored in
func (r *Registry) ClipDir() string {
	return r.clipDir
}

// Sounds returns a copy of the sound list in board order
func (r *Registry) Sounds() []Sound {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Sound(nil), r.data.Sounds...)
}

// Clips returns the sound list as clip descriptors
func (r *Registry) Clips() []soundboard.Clip {
	sounds := r.Sounds()
	clips := make([]soundboard.Clip, len(sounds))
	for i, s := range sounds {
		clips[i] = s.Clip()
	}
	return clips
}

// OutDevice returns the persisted output device (-1 when unset)
func (r *Registry) OutDevice() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.OutDevice
}

// SetOutDevice persists the selected output device
func (r *Registry) SetOutDevice(id int) error {
	if id < soundboard.NoDevice {
		return fmt.Errorf("invalid device id %d", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.data.OutDevice
	r.data.OutDevice = id
	if err := r.save(); err != nil {
		r.data.OutDevice = prev
		return err
	}
	log.Printf("Output device set to %d", id)
	return nil
}

// Find looks a sound up by clip id, then by title
func (r *Registry) Find(key string) (Sound, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(key); i >= 0 {
		return r.data.Sounds[i], true
	}
	return Sound{}, false
}

// ByShortcut returns the sound bound to a shortcut key
func (r *Registry) ByShortcut(key string) (Sound, bool) {
	if key == "" {
		return Sound{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.data.Sounds {
		if s.Shortcut == key {
			return s, true
		}
	}
	return Sound{}, false
}

// Remove deletes the entry matching a clip id or title; the clip file is left in place
func (r *Registry) Remove(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	prev := r.data.Sounds
	removed := prev[i]
	r.data.Sounds = append(append([]Sound{}, prev[:i]...), prev[i+1:]...)
	if err := r.save(); err != nil {
		r.data.Sounds = prev
		return err
	}
	log.Printf("Removed sound %q (%s)", removed.Title, removed.FileName)
	return nil
}

// indexOf matches clip ids before titles (must hold r.mu)
func (r *Registry) indexOf(key string) int {
	for i, s := range r.data.Sounds {
		if s.FileName == key {
			return i
		}
	}
	for i, s := range r.data.Sounds {
		if s.Title == key {
			return i
		}
	}
	return -1
}

// Reload re-reads the sound map; it reports whether the content changed
func (r *Registry) Reload() (bool, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return false, fmt.Errorf("failed to read sound map: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if bytes.Equal(raw, r.lastSaved) {
		return false, nil
	}

	data, err := r.parse(raw)
	if err != nil {
		return false, err
	}
	r.data = data
	r.lastSaved = raw

	log.Printf("Reloaded %d sounds from %s", len(data.Sounds), r.path)
	return true, nil
}
