// ABOUTME: Playback session state shared between the streaming goroutine and callers
// ABOUTME: Atomic playing flag, completion signal and per-session statistics
package soundboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/google/uuid"
)

// Clip identifies a playable sound. ID resolves to <ClipDir>/<ID>.wav.
type Clip struct {
	Title string
	ID    string
}

// EndReason describes how a session ended
type EndReason int

const (
	// EndNone means the session has not ended
	EndNone EndReason = iota
	// EndFinished means every frame was written
	EndFinished
	// EndStopped means playing was cleared before the end of the clip
	EndStopped
	// EndFailed means opening or streaming failed
	EndFailed
)

func (r EndReason) String() string {
	switch r {
	case EndFinished:
		return "finished"
	case EndStopped:
		return "stopped"
	case EndFailed:
		return "failed"
	default:
		return "active"
	}
}

// SessionStats counts what the streaming loop has written
type SessionStats struct {
	Chunks       int64
	Frames       int64
	SilentChunks int64
	SilentFrames int64
}

// Session is one playback of a clip on a device
type Session struct {
	ID       string
	Clip     Clip
	DeviceID int

	playing atomic.Bool
	stopped atomic.Bool
	done    chan struct{}

	chunks       atomic.Int64
	frames       atomic.Int64
	silentChunks atomic.Int64
	silentFrames atomic.Int64

	mu          sync.Mutex
	format      audio.Format
	totalFrames int
	reason      EndReason
	err         error
}

func newSession(clip Clip, deviceID int) *Session {
	return &Session{
		ID:       uuid.New().String(),
		Clip:     clip,
		DeviceID: deviceID,
		done:     make(chan struct{}),
	}
}

// Playing reports whether the session is between stream open and stream close
func (s *Session) Playing() bool {
	return s.playing.Load()
}

// Stop asks the streaming goroutine to end at the next chunk. Safe to call
// any number of times, including after the session has ended.
func (s *Session) Stop() {
	s.stopped.Store(true)
	s.playing.Store(false)
}

// Done is closed once the session has released its stream
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends and returns its error
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error that ended the session, if any
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Reason returns how the session ended (EndNone while active)
func (s *Session) Reason() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Format returns the clip format once the stream is open
func (s *Session) Format() audio.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// TotalFrames returns the clip length in frames once the stream is open
func (s *Session) TotalFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalFrames
}

// Position returns how much of the clip has been written to the device
func (s *Session) Position() time.Duration {
	return audio.FrameDuration(s.Format(), int(s.frames.Load()))
}

// Stats returns a snapshot of the written chunk counters
func (s *Session) Stats() SessionStats {
	return SessionStats{
		Chunks:       s.chunks.Load(),
		Frames:       s.frames.Load(),
		SilentChunks: s.silentChunks.Load(),
		SilentFrames: s.silentFrames.Load(),
	}
}

// begin records the opened stream and raises playing unless a stop raced in
func (s *Session) begin(format audio.Format, totalFrames int) {
	s.mu.Lock()
	s.format = format
	s.totalFrames = totalFrames
	s.mu.Unlock()

	s.playing.Store(true)
	if s.stopped.Load() {
		s.playing.Store(false)
	}
}

// finish records the outcome and closes Done; called exactly once
func (s *Session) finish(reason EndReason, err error) {
	s.playing.Store(false)

	s.mu.Lock()
	s.reason = reason
	s.err = err
	s.mu.Unlock()

	close(s.done)
}
