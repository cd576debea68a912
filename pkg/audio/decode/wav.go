// ABOUTME: WAV clip decoder backed by beep
// ABOUTME: Streams whole interleaved float32 frames from an uncompressed WAV file
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// WAV is an open clip positioned at its first frame
type WAV struct {
	path    string
	stream  beep.StreamSeekCloser
	format  audio.Format
	scratch [][2]float64
}

// OpenWAV opens and validates an uncompressed WAV file
func OpenWAV(path string) (*WAV, error) {
	if path == "" {
		return nil, errors.New("empty clip path")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stream, bf, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to decode wav header: %w", err)
	}

	format := audio.Format{
		SampleRate: int(bf.SampleRate),
		Channels:   bf.NumChannels,
		BitDepth:   bf.Precision * 8,
	}
	if err := format.Validate(); err != nil {
		_ = stream.Close()
		return nil, err
	}

	return &WAV{
		path:   path,
		stream: stream,
		format: format,
	}, nil
}

// Path returns the file the clip was opened from
func (w *WAV) Path() string {
	return w.path
}

// Format returns the format read from the file header
func (w *WAV) Format() audio.Format {
	return w.format
}

// Len returns the total number of frames in the clip
func (w *WAV) Len() int {
	return w.stream.Len()
}

// Position returns the index of the next frame to be read
func (w *WAV) Position() int {
	return w.stream.Position()
}

// ReadFrames fills dst with interleaved frames and returns the frame count.
// A short count only happens at the end of the clip; io.EOF is returned once
// no frames remain. A file shorter than its header declares fails with an
// error wrapping io.ErrUnexpectedEOF.
func (w *WAV) ReadFrames(dst []float32) (int, error) {
	channels := w.format.Channels
	want := len(dst) / channels
	if want == 0 {
		return 0, nil
	}

	if cap(w.scratch) < want {
		w.scratch = make([][2]float64, want)
	}

	total := 0
	for total < want {
		n, ok := w.stream.Stream(w.scratch[:want-total])
		for i := 0; i < n; i++ {
			base := (total + i) * channels
			dst[base] = float32(w.scratch[i][0])
			if channels == 2 {
				dst[base+1] = float32(w.scratch[i][1])
			}
		}
		total += n
		if !ok || n == 0 {
			break
		}
	}

	if err := w.stream.Err(); err != nil {
		return total, fmt.Errorf("wav read error at frame %d: %w", w.stream.Position(), err)
	}
	// The data chunk ended before the length its header declares
	if total < want && w.stream.Position() < w.stream.Len() {
		return total, fmt.Errorf("wav data truncated at frame %d of %d: %w",
			w.stream.Position(), w.stream.Len(), io.ErrUnexpectedEOF)
	}
	if total == 0 {
		return 0, io.EOF
	}
	return total, nil
}

// Close releases the underlying file
func (w *WAV) Close() error {
	return w.stream.Close()
}

// WriteWAV encodes interleaved samples as a PCM WAV file
func WriteWAV(dst io.WriteSeeker, format audio.Format, samples []float32) error {
	if err := format.Validate(); err != nil {
		return err
	}
	return encode(dst, format, &sampleStreamer{samples: samples, channels: format.Channels})
}

func encode(dst io.WriteSeeker, format audio.Format, s beep.Streamer) error {
	bf := beep.Format{
		SampleRate:  beep.SampleRate(format.SampleRate),
		NumChannels: format.Channels,
		Precision:   format.BitDepth / 8,
	}
	if err := wav.Encode(dst, s, bf); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return nil
}

// sampleStreamer adapts interleaved float32 samples to beep.Streamer
type sampleStreamer struct {
	samples  []float32
	channels int
	pos      int
}

func (s *sampleStreamer) Stream(out [][2]float64) (int, bool) {
	frames := (len(s.samples) - s.pos) / s.channels
	if frames == 0 {
		return 0, false
	}

	n := min(len(out), frames)
	for i := 0; i < n; i++ {
		left := float64(s.samples[s.pos])
		right := left
		if s.channels == 2 {
			right = float64(s.samples[s.pos+1])
		}
		out[i] = [2]float64{left, right}
		s.pos += s.channels
	}
	return n, true
}

func (s *sampleStreamer) Err() error {
	return nil
}
