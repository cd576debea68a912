// ABOUTME: Oto-based audio output backend
// ABOUTME: Streams clips to the system default device through io.Pipe-fed oto players
package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// OtoDeviceID is the only device oto exposes
const OtoDeviceID = 0

// Oto backend implementation using oto library
type Oto struct {
	otoCtx *oto.Context
	format audio.Format
	mu     sync.Mutex
}

// NewOto creates a new Oto backend
func NewOto() Backend {
	return &Oto{}
}

// Name returns "oto"
func (o *Oto) Name() string {
	return "oto"
}

// Devices returns the single system default device
func (o *Oto) Devices() ([]Device, error) {
	return []Device{{
		ID:                OtoDeviceID,
		Name:              "System Default",
		MaxOutputChannels: 2,
		IsDefault:         true,
	}}, nil
}

// Open starts a player on the shared oto context
func (o *Oto) Open(deviceID int, format audio.Format, framesPerBuffer int) (Stream, error) {
	if deviceID != OtoDeviceID {
		return nil, deviceNotFound(deviceID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// oto allows only one context per process, so its format is fixed by the first clip
	if o.otoCtx != nil && (o.format.SampleRate != format.SampleRate || o.format.Channels != format.Channels) {
		return nil, fmt.Errorf("oto context is %dHz %dch, clip is %dHz %dch: %w",
			o.format.SampleRate, o.format.Channels, format.SampleRate, format.Channels, ErrFormatMismatch)
	}

	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   audio.FrameDuration(format, framesPerBuffer),
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan

		o.otoCtx = ctx
		o.format = format
		log.Printf("Audio output initialized: %s (oto)", format)
	} else if err := o.otoCtx.Resume(); err != nil {
		return nil, fmt.Errorf("failed to resume oto context: %w", err)
	}

	s := &otoStream{}
	s.pipeReader, s.pipeWriter = io.Pipe()
	s.player = o.otoCtx.NewPlayer(s.pipeReader)
	s.player.Play()

	return s, nil
}

// Close suspends the shared context; oto cannot be torn down and recreated
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		return o.otoCtx.Suspend()
	}
	return nil
}

// otoStream feeds one oto player through a pipe
type otoStream struct {
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	buf        []byte
	once       sync.Once
}

// Write outputs samples (blocks until the player has read them)
func (s *otoStream) Write(samples []float32) error {
	need := len(samples) * 4
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	out := s.buf[:need]
	audio.PutFloat32LE(out, samples)

	if _, err := s.pipeWriter.Write(out); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}
	return nil
}

// Close signals EOF, waits for the player to finish and releases it
func (s *otoStream) Close() error {
	var err error
	s.once.Do(func() {
		_ = s.pipeWriter.Close()

		deadline := time.Now().Add(2 * time.Second)
		for s.player.IsPlaying() && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}

		err = s.player.Close()
		_ = s.pipeReader.Close()
	})
	return err
}
