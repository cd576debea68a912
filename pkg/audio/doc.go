// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and float32 sample conversion functions
// Package audio provides the audio types shared by the soundboard packages.
//
// Clips are streamed as interleaved float32 samples regardless of the bit
// depth stored in the file header, so every backend receives the same
// representation:
//   - Format: sample rate, channel count and bit depth read from a clip
//   - Silence / IsSilent: zero-valued chunks used while muted
//   - SampleFromInt16: 16-bit conversion
//   - PutFloat32LE: byte encoding for backends that take raw buffers
//
// Example:
//
//	format := audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 16}
//	chunk := audio.Silence(1024 * format.Channels)
package audio
