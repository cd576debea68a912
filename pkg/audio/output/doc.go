// ABOUTME: Audio output package for streaming clips to devices
// ABOUTME: Provides Backend/Stream interfaces and malgo, PortAudio, oto and null backends
// Package output provides audio playback backends.
//
// A Backend enumerates output devices and opens blocking Streams on them.
// Stream.Write blocks until the device has room for the chunk, which is the
// only backpressure a caller sees.
//
// Backends:
//   - malgo (default): miniaudio, per-device selection
//   - portaudio: build with -tags portaudio
//   - oto: system default device only
//   - null: discards audio, optionally paced in real time
//
// Example:
//
//	backend, err := output.NewBackend("malgo")
//	devices, err := backend.Devices()
//	stream, err := backend.Open(devices[0].ID, format, 1024)
//	err = stream.Write(chunk)
//	err = stream.Close()
package output
