// ABOUTME: Clip decoder package for uncompressed audio
// ABOUTME: Provides WAV reading/writing and MP3-to-WAV transcoding for imports
// Package decode reads soundboard clips.
//
// Clips are uncompressed single-stream WAV files. OpenWAV reads the format
// from the file header and hands out whole interleaved float32 frames, so a
// caller asking for K frames always gets K frames until the final, possibly
// shorter, chunk.
//
// Compressed input is only accepted at import time: TranscodeMP3 turns an
// MP3 into a 16-bit PCM WAV that OpenWAV can stream.
//
// Example:
//
//	clip, err := decode.OpenWAV("sounds/airhorn.wav")
//	buf := make([]float32, 1024*clip.Format().Channels)
//	frames, err := clip.ReadFrames(buf)
package decode
