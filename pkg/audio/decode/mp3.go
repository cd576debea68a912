// ABOUTME: MP3 to WAV transcoder used when importing sounds
// ABOUTME: Decodes MP3 with go-mp3 and re-encodes 16-bit PCM WAV
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Sendspin/soundboard/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces 16-bit little-endian stereo
const mp3BytesPerFrame = 4

// TranscodeMP3 decodes an MP3 stream and writes it to dst as a PCM WAV
func TranscodeMP3(src io.Reader, dst io.WriteSeeker) (audio.Format, error) {
	decoder, err := mp3.NewDecoder(src)
	if err != nil {
		return audio.Format{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	format := audio.Format{
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		BitDepth:   16,
	}

	if err := encode(dst, format, &mp3Streamer{decoder: decoder}); err != nil {
		return audio.Format{}, err
	}
	return format, nil
}

// mp3Streamer pulls PCM from go-mp3 on demand
type mp3Streamer struct {
	decoder *mp3.Decoder
	buf     []byte
	err     error
}

func (s *mp3Streamer) Stream(out [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	need := len(out) * mp3BytesPerFrame
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}

	n, err := io.ReadFull(s.decoder, s.buf[:need])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = fmt.Errorf("mp3 decode error: %w", err)
		return 0, false
	}

	frames := n / mp3BytesPerFrame
	for i := 0; i < frames; i++ {
		left := int16(binary.LittleEndian.Uint16(s.buf[i*4:]))
		right := int16(binary.LittleEndian.Uint16(s.buf[i*4+2:]))
		out[i] = [2]float64{
			float64(audio.SampleFromInt16(left)),
			float64(audio.SampleFromInt16(right)),
		}
	}

	if frames == 0 {
		return 0, false
	}
	return frames, true
}

func (s *mp3Streamer) Err() error {
	return s.err
}
