// ABOUTME: ClipPlayer decodes clips and streams them to output devices
// ABOUTME: One goroutine per session with live mute and cooperative stop
package soundboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/Sendspin/soundboard/pkg/audio/decode"
	"github.com/Sendspin/soundboard/pkg/audio/output"
)

const (
	// NoDevice is the "unset" device id persisted as out_device = -1
	NoDevice = -1

	// DefaultChunkFrames is the number of frames written per loop iteration
	DefaultChunkFrames = 1024

	// ClipExtension is appended to a clip id to find its file
	ClipExtension = ".wav"
)

// EventType identifies a session lifecycle event
type EventType int

const (
	EventStarted EventType = iota
	EventFinished
	EventStopped
	EventFailed
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventFinished:
		return "finished"
	case EventStopped:
		return "stopped"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event reports a session lifecycle change
type Event struct {
	Type    EventType
	Session *Session
	Err     error
}

// Options configures a ClipPlayer
type Options struct {
	// ClipDir is the directory clip ids are resolved in (default: "sounds")
	ClipDir string

	// ChunkFrames is the number of frames per device write (default: 1024)
	ChunkFrames int

	// OnEvent is called from session goroutines; it must not block for long
	OnEvent func(Event)
}

// ClipPlayer plays clips on output devices, at most one session per clip
type ClipPlayer struct {
	backend output.Backend
	opts    Options

	muted atomic.Bool

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewClipPlayer creates a player that opens streams on backend
func NewClipPlayer(backend output.Backend, opts Options) *ClipPlayer {
	if opts.ClipDir == "" {
		opts.ClipDir = "sounds"
	}
	if opts.ChunkFrames <= 0 {
		opts.ChunkFrames = DefaultChunkFrames
	}

	return &ClipPlayer{
		backend:  backend,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// ChunkFrames returns the configured chunk size
func (p *ClipPlayer) ChunkFrames() int {
	return p.opts.ChunkFrames
}

// ClipPath resolves a clip id to its file
func (p *ClipPlayer) ClipPath(clip Clip) string {
	return filepath.Join(p.opts.ClipDir, clip.ID+ClipExtension)
}

// Play starts streaming clip to deviceID and returns once the stream is open.
// If the clip already has a session, that session is returned unchanged,
// even when it has been stopped and is still winding down.
func (p *ClipPlayer) Play(clip Clip, deviceID int) (*Session, error) {
	if deviceID < 0 {
		return nil, &DeviceUnavailableError{DeviceID: deviceID, Err: ErrNoDevice}
	}

	p.mu.Lock()
	if existing, ok := p.sessions[clip.ID]; ok {
		p.mu.Unlock()
		if existing.Playing() {
			log.Printf("Clip %q already playing (session %s), ignoring play request", clip.ID, existing.ID)
		} else {
			// Stopped or still opening; the clip is free again once Done closes
			log.Printf("Clip %q session %s has not released yet, ignoring play request", clip.ID, existing.ID)
		}
		return existing, nil
	}
	s := newSession(clip, deviceID)
	p.sessions[clip.ID] = s
	p.mu.Unlock()

	path := p.ClipPath(clip)
	if clip.ID == "" {
		err := &ClipLoadError{ClipID: clip.ID, Path: path, Err: errors.New("empty clip id")}
		p.release(s, EndFailed, err)
		return nil, err
	}

	src, err := decode.OpenWAV(path)
	if err != nil {
		loadErr := &ClipLoadError{ClipID: clip.ID, Path: path, Err: err}
		p.release(s, EndFailed, loadErr)
		return nil, loadErr
	}

	stream, err := p.backend.Open(deviceID, src.Format(), p.opts.ChunkFrames)
	if err != nil {
		_ = src.Close()
		devErr := &DeviceUnavailableError{DeviceID: deviceID, Err: err}
		p.release(s, EndFailed, devErr)
		return nil, devErr
	}

	s.begin(src.Format(), src.Len())
	log.Printf("Playing %q on device %d: %s, %d frames (session %s)",
		clip.ID, deviceID, src.Format(), src.Len(), s.ID)

	p.emit(Event{Type: EventStarted, Session: s})

	p.wg.Add(1)
	go p.run(s, src, stream)

	return s, nil
}

// run is the session's streaming loop; it owns src and out
func (p *ClipPlayer) run(s *Session, src *decode.WAV, out output.Stream) {
	defer p.wg.Done()

	channels := src.Format().Channels
	buf := make([]float32, p.opts.ChunkFrames*channels)
	silence := audio.Silence(len(buf))

	reason := EndFinished
	var streamErr error

	for {
		if !s.playing.Load() {
			reason = EndStopped
			break
		}

		n, err := src.ReadFrames(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			reason = EndFailed
			streamErr = &ClipLoadError{ClipID: s.Clip.ID, Path: src.Path(), Err: err}
			break
		}

		chunk := buf[:n*channels]
		muted := p.muted.Load()
		if muted {
			chunk = silence[:len(chunk)]
		}

		if err := out.Write(chunk); err != nil {
			reason = EndFailed
			streamErr = &DeviceUnavailableError{DeviceID: s.DeviceID, Err: err}
			break
		}

		s.chunks.Add(1)
		s.frames.Add(int64(n))
		if muted {
			s.silentChunks.Add(1)
			s.silentFrames.Add(int64(n))
		}
	}

	if err := out.Close(); err != nil {
		log.Printf("Warning: closing stream for %q: %v", s.Clip.ID, err)
	}
	if err := src.Close(); err != nil {
		log.Printf("Warning: closing clip %q: %v", s.Clip.ID, err)
	}

	stats := s.Stats()
	log.Printf("Session %s %s: %d chunks, %d frames (%d silent)",
		s.ID, reason, stats.Chunks, stats.Frames, stats.SilentFrames)

	p.release(s, reason, streamErr)

	switch reason {
	case EndFinished:
		p.emit(Event{Type: EventFinished, Session: s})
	case EndStopped:
		p.emit(Event{Type: EventStopped, Session: s})
	default:
		p.emit(Event{Type: EventFailed, Session: s, Err: streamErr})
	}
}

// release ends the session and frees its clip for the next Play
func (p *ClipPlayer) release(s *Session, reason EndReason, err error) {
	p.mu.Lock()
	if p.sessions[s.Clip.ID] == s {
		delete(p.sessions, s.Clip.ID)
	}
	p.mu.Unlock()

	s.finish(reason, err)
}

func (p *ClipPlayer) emit(ev Event) {
	if p.opts.OnEvent != nil {
		p.opts.OnEvent(ev)
	}
}

// SetMuted sets the mute flag read before every chunk write
func (p *ClipPlayer) SetMuted(muted bool) {
	p.muted.Store(muted)
	log.Printf("Muted: %v", muted)
}

// ToggleMute flips the mute flag and returns the new state
func (p *ClipPlayer) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			log.Printf("Muted: %v", !old)
			return !old
		}
	}
}

// Muted returns the mute flag
func (p *ClipPlayer) Muted() bool {
	return p.muted.Load()
}

// Session returns the active session for a clip id
func (p *ClipPlayer) Session(clipID string) (*Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[clipID]
	return s, ok
}

// Active returns every session that has not ended
func (p *ClipPlayer) Active() []*Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// Stop stops the clip's session; it reports whether one was active
func (p *ClipPlayer) Stop(clipID string) bool {
	s, ok := p.Session(clipID)
	if !ok {
		return false
	}
	s.Stop()
	return true
}

// StopAll stops every active session
func (p *ClipPlayer) StopAll() {
	for _, s := range p.Active() {
		s.Stop()
	}
}

// Wait blocks until every session goroutine has exited
func (p *ClipPlayer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
