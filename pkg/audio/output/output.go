// ABOUTME: Audio output interface definitions
// ABOUTME: Common Backend and Stream interfaces for device playback
package output

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Sendspin/soundboard/pkg/audio"
)

var (
	// ErrDeviceNotFound is returned when a device id does not name an output device
	ErrDeviceNotFound = errors.New("output device not found")

	// ErrFormatMismatch is returned when a backend cannot switch to the clip's format
	ErrFormatMismatch = errors.New("output format mismatch")

	// ErrStreamClosed is returned when writing to a closed stream
	ErrStreamClosed = errors.New("output stream closed")
)

// Device describes an output-capable audio device
type Device struct {
	ID                int
	Name              string
	MaxOutputChannels int
	DefaultSampleRate float64
	IsDefault         bool
}

// Backend enumerates output devices and opens streams on them
type Backend interface {
	// Name identifies the backend ("malgo", "portaudio", ...)
	Name() string

	// Devices lists output-capable devices
	Devices() ([]Device, error)

	// Open starts a stream on a device matching the clip format
	Open(deviceID int, format audio.Format, framesPerBuffer int) (Stream, error)

	// Close releases backend resources
	Close() error
}

// Stream is a blocking output stream owned by a single writer
type Stream interface {
	// Write outputs interleaved samples (blocks until accepted by the device)
	Write(samples []float32) error

	// Close flushes pending audio, stops the stream and releases it
	Close() error
}

var constructors = map[string]func() Backend{
	"malgo":     NewMalgo,
	"portaudio": NewPortAudio,
	"oto":       NewOto,
	"null":      func() Backend { return NewNull(true) },
}

// DefaultBackend is used when no backend name is given
const DefaultBackend = "malgo"

// NewBackend creates a backend by name
func NewBackend(name string) (Backend, error) {
	if name == "" {
		name = DefaultBackend
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown output backend: %s (available: %v)", name, Backends())
	}
	return ctor(), nil
}

// Backends lists the registered backend names
func Backends() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func deviceNotFound(id int) error {
	return fmt.Errorf("device %d: %w", id, ErrDeviceNotFound)
}
