// ABOUTME: Audio type definitions
// ABOUTME: Defines clip formats and float32 sample conversion helpers
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Format describes an uncompressed clip as read from its header
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Validate reports whether the format can be streamed to a device
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels < 1 || f.Channels > 2 {
		return fmt.Errorf("unsupported channel count: %d (supported: 1, 2)", f.Channels)
	}
	switch f.BitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24, 32)", f.BitDepth)
	}
	return nil
}

// String renders the format as e.g. "44100Hz mono 16-bit"
func (f Format) String() string {
	layout := "stereo"
	if f.Channels == 1 {
		layout = "mono"
	}
	return fmt.Sprintf("%dHz %s %d-bit", f.SampleRate, layout, f.BitDepth)
}

// FrameDuration returns how long the given number of frames plays for
func FrameDuration(format Format, frames int) time.Duration {
	if format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(format.SampleRate)
}

// Silence returns n zero-valued samples
func Silence(n int) []float32 {
	return make([]float32, n)
}

// IsSilent reports whether every sample is zero
func IsSilent(samples []float32) bool {
	for _, s := range samples {
		if s != 0 {
			return false
		}
	}
	return true
}

// SampleFromInt16 converts a 16-bit sample to float32 in [-1, 1)
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768
}

// PutFloat32LE encodes samples as little-endian float32 bytes into dst.
// dst must hold at least 4*len(samples) bytes.
func PutFloat32LE(dst []byte, samples []float32) {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
	}
}
