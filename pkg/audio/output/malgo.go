// ABOUTME: Malgo-based audio output backend
// ABOUTME: Uses miniaudio via malgo for per-device playback with a blocking writer
package output

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo backend implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	devices  []malgo.DeviceInfo
	mu       sync.Mutex
}

// NewMalgo creates a new Malgo backend
func NewMalgo() Backend {
	return &Malgo{}
}

// Name returns "malgo"
func (m *Malgo) Name() string {
	return "malgo"
}

// ensureContext creates the miniaudio context (must hold m.mu)
func (m *Malgo) ensureContext() error {
	if m.malgoCtx != nil {
		return nil
	}
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	m.malgoCtx = ctx
	return nil
}

// Devices enumerates playback devices; ids are enumeration indexes
func (m *Malgo) Devices() ([]Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureContext(); err != nil {
		return nil, err
	}

	infos, err := m.malgoCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}
	m.devices = infos

	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, Device{
			ID:                i,
			Name:              info.Name(),
			MaxOutputChannels: 2,
			IsDefault:         info.IsDefault != 0,
		})
	}
	return devices, nil
}

// Open initializes and starts a playback device for the clip format
func (m *Malgo) Open(deviceID int, format audio.Format, framesPerBuffer int) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureContext(); err != nil {
		return nil, err
	}
	if m.devices == nil {
		infos, err := m.malgoCtx.Devices(malgo.Playback)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
		}
		m.devices = infos
	}
	if deviceID < 0 || deviceID >= len(m.devices) {
		return nil, deviceNotFound(deviceID)
	}

	// Ring buffer holds four chunks so the callback never starves between writes
	s := &malgoStream{
		ring:     NewRingBuffer(framesPerBuffer * format.Channels * 4),
		channels: format.Channels,
		format:   format,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.Playback.DeviceID = m.devices[deviceID].ID.Pointer()
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(framesPerBuffer)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			s.dataCallback(pOutputSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device %d: %w", deviceID, err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to start device %d: %w", deviceID, err)
	}
	s.device = device

	log.Printf("Audio output opened: device %d (%s), %s (malgo)",
		deviceID, m.devices[deviceID].Name(), format)

	return s, nil
}

// Close releases the miniaudio context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	m.devices = nil
	return nil
}

// malgoStream is one started playback device fed through a ring buffer
type malgoStream struct {
	device   *malgo.Device
	ring     *RingBuffer
	channels int
	format   audio.Format
	scratch  []float32
	once     sync.Once
}

// Write queues samples, blocking while the ring buffer is full
func (s *malgoStream) Write(samples []float32) error {
	return s.ring.WriteAll(samples)
}

// dataCallback is called by malgo to fill the audio output buffer
func (s *malgoStream) dataCallback(pOutput []byte, frameCount uint32) {
	total := int(frameCount) * s.channels
	if cap(s.scratch) < total {
		s.scratch = make([]float32, total)
	}
	samples := s.scratch[:total]

	s.ring.Read(samples)
	audio.PutFloat32LE(pOutput, samples)
}

// Close drains queued audio, then stops and uninitializes the device
func (s *malgoStream) Close() error {
	s.once.Do(func() {
		pending := s.ring.Available() / s.channels
		if !s.ring.Drain(audio.FrameDuration(s.format, pending) + 250*time.Millisecond) {
			log.Printf("Warning: output drain timed out with %d samples queued", s.ring.Available())
		}
		s.ring.Close()

		if err := s.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		s.device.Uninit()
	})
	return nil
}
