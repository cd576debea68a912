// ABOUTME: Null audio output backend
// ABOUTME: Accepts and discards audio, optionally paced to real time
package output

import (
	"sync"
	"time"

	"github.com/Sendspin/soundboard/pkg/audio"
)

// NullDeviceID is the only device the null backend exposes
const NullDeviceID = 0

// Null backend discards everything written to it
type Null struct {
	pace bool
}

// NewNull creates a null backend. When pace is true writes take as long as
// the audio would take to play.
func NewNull(pace bool) Backend {
	return &Null{pace: pace}
}

// Name returns "null"
func (n *Null) Name() string {
	return "null"
}

// Devices returns the single null device
func (n *Null) Devices() ([]Device, error) {
	return []Device{{ID: NullDeviceID, Name: "Null Output", MaxOutputChannels: 2, IsDefault: true}}, nil
}

// Open returns a stream that discards samples
func (n *Null) Open(deviceID int, format audio.Format, framesPerBuffer int) (Stream, error) {
	if deviceID != NullDeviceID {
		return nil, deviceNotFound(deviceID)
	}
	return &nullStream{format: format, pace: n.pace}, nil
}

// Close is a no-op
func (n *Null) Close() error {
	return nil
}

type nullStream struct {
	format audio.Format
	pace   bool
	mu     sync.Mutex
	closed bool
}

func (s *nullStream) Write(samples []float32) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrStreamClosed
	}

	if s.pace {
		time.Sleep(audio.FrameDuration(s.format, len(samples)/s.format.Channels))
	}
	return nil
}

func (s *nullStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
