//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"

	"github.com/Sendspin/soundboard/pkg/audio"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio backend implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio backend
func NewPortAudio() Backend {
	return &PortAudio{}
}

// Name returns "portaudio"
func (p *PortAudio) Name() string {
	return "portaudio"
}

// Devices reports that PortAudio is unavailable
func (p *PortAudio) Devices() ([]Device, error) {
	return nil, errPortAudioDisabled
}

// Open reports that PortAudio is unavailable
func (p *PortAudio) Open(deviceID int, format audio.Format, framesPerBuffer int) (Stream, error) {
	return nil, errPortAudioDisabled
}

// Close releases resources
func (p *PortAudio) Close() error {
	return nil
}
