// ABOUTME: In-memory output backend for ClipPlayer tests
// ABOUTME: Records every chunk and can hand each write to the test before returning
package soundboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/Sendspin/soundboard/pkg/audio/decode"
	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/stretchr/testify/require"
)

var errUnplugged = errors.New("device unplugged")

type fakeBackend struct {
	mu        sync.Mutex
	opens     int
	openErr   error
	gated     bool
	failAfter int
	streams   []*fakeStream

	// onOpen runs at the start of Open, before the stream exists
	onOpen func()
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Devices() ([]output.Device, error) {
	return []output.Device{{ID: 0, Name: "Fake Speakers", MaxOutputChannels: 2}}, nil
}

func (b *fakeBackend) Open(deviceID int, format audio.Format, framesPerBuffer int) (output.Stream, error) {
	if b.onOpen != nil {
		b.onOpen()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}

	s := &fakeStream{format: format, failAfter: b.failAfter}
	if b.gated {
		s.writes = make(chan []float32)
		s.ack = make(chan struct{})
	}
	b.streams = append(b.streams, s)
	return s, nil
}

func (b *fakeBackend) Close() error { return nil }

func (b *fakeBackend) openCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

func (b *fakeBackend) stream(i int) *fakeStream {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streams[i]
}

type fakeStream struct {
	format    audio.Format
	failAfter int

	// gated streams hand each chunk to the test and wait for an ack
	writes chan []float32
	ack    chan struct{}

	mu     sync.Mutex
	chunks [][]float32
	closed bool
}

func (s *fakeStream) Write(samples []float32) error {
	chunk := append([]float32(nil), samples...)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return output.ErrStreamClosed
	}
	if s.failAfter > 0 && len(s.chunks) >= s.failAfter {
		s.mu.Unlock()
		return errUnplugged
	}
	s.chunks = append(s.chunks, chunk)
	s.mu.Unlock()

	if s.writes != nil {
		s.writes <- chunk
		<-s.ack
	}
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeStream) written() [][]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]float32(nil), s.chunks...)
}

func (s *fakeStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// next receives the next gated chunk; the writer stays blocked until ack
func (s *fakeStream) next(t *testing.T) []float32 {
	t.Helper()
	select {
	case chunk := <-s.writes:
		return chunk
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for chunk")
		return nil
	}
}

func (s *fakeStream) release() {
	s.ack <- struct{}{}
}

// drain acks every remaining gated write until the session ends
func (s *fakeStream) drain(session *Session) {
	go func() {
		for {
			select {
			case <-s.writes:
				s.ack <- struct{}{}
			case <-session.Done():
				return
			}
		}
	}()
}

// clipSamples returns n frames of non-zero audio
func clipSamples(frames, channels int) []float32 {
	samples := make([]float32, frames*channels)
	for i := range samples {
		samples[i] = 0.1 + float32(i%50)/100
	}
	return samples
}

// helperT is satisfied by both *testing.T and *rapid.T
type helperT interface {
	require.TestingT
	Helper()
}

func writeClip(t helperT, dir, id string, format audio.Format, samples []float32) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, id+ClipExtension))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, decode.WriteWAV(f, format, samples))
}

func waitSession(t *testing.T, s *Session) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "session did not finish")
	return err
}
