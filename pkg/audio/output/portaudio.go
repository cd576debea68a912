//go:build portaudio

// ABOUTME: PortAudio output backend
// ABOUTME: Blocking-write streams on host API 0 devices using PortAudio
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio backend implementation
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
}

// NewPortAudio creates a new PortAudio backend
func NewPortAudio() Backend {
	return &PortAudio{}
}

// Name returns "portaudio"
func (p *PortAudio) Name() string {
	return "portaudio"
}

// hostAPI initializes PortAudio on first use and returns host API 0 (must hold p.mu)
func (p *PortAudio) hostAPI() (*portaudio.HostApiInfo, error) {
	if !p.initialized {
		if err := portaudio.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
		}
		p.initialized = true
	}

	apis, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to list host apis: %w", err)
	}
	if len(apis) == 0 {
		return nil, fmt.Errorf("no portaudio host api available")
	}
	return apis[0], nil
}

// Devices lists host API 0 devices with at least one output channel.
// Ids are the device's index within the host API.
func (p *PortAudio) Devices() ([]Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	api, err := p.hostAPI()
	if err != nil {
		return nil, err
	}

	var devices []Device
	for i, d := range api.Devices {
		if d.MaxOutputChannels <= 0 {
			continue
		}
		devices = append(devices, Device{
			ID:                i,
			Name:              d.Name,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefault:         api.DefaultOutputDevice != nil && api.DefaultOutputDevice.Name == d.Name,
		})
	}
	return devices, nil
}

// Open starts a blocking output stream matched to the clip format
func (p *PortAudio) Open(deviceID int, format audio.Format, framesPerBuffer int) (Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	api, err := p.hostAPI()
	if err != nil {
		return nil, err
	}
	if deviceID < 0 || deviceID >= len(api.Devices) || api.Devices[deviceID].MaxOutputChannels <= 0 {
		return nil, deviceNotFound(deviceID)
	}
	device := api.Devices[deviceID]

	params := portaudio.HighLatencyParameters(nil, device)
	params.Output.Channels = format.Channels
	params.SampleRate = float64(format.SampleRate)
	params.FramesPerBuffer = framesPerBuffer

	s := &paStream{full: make([]float32, framesPerBuffer*format.Channels)}
	s.buf = s.full

	// Passing a pointer lets Write reslice for the final short chunk
	stream, err := portaudio.OpenStream(params, &s.buf)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream on device %d: %w", deviceID, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("failed to start stream on device %d: %w", deviceID, err)
	}
	s.stream = stream

	log.Printf("Audio output opened: device %d (%s), %s (portaudio)", deviceID, device.Name, format)
	return s, nil
}

// Close terminates PortAudio
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

// paStream wraps a blocking PortAudio stream
type paStream struct {
	stream *portaudio.Stream
	full   []float32
	buf    []float32
	closed bool
}

// Write outputs samples in chunks no larger than the stream buffer
func (s *paStream) Write(samples []float32) error {
	if s.closed {
		return ErrStreamClosed
	}
	for len(samples) > 0 {
		n := min(len(samples), len(s.full))
		s.buf = s.full[:n]
		copy(s.buf, samples[:n])
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("stream write failed: %w", err)
		}
		samples = samples[n:]
	}
	return nil
}

// Close stops the stream once queued buffers have played, then closes it
func (s *paStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.stream.Stop(); err != nil {
		_ = s.stream.Close()
		return err
	}
	return s.stream.Close()
}
