// ABOUTME: High-level soundboard playback API
// ABOUTME: Provides ClipPlayer, Session and the playback error types
// Package soundboard streams clips to output devices.
//
// ClipPlayer owns one goroutine per active Session. Each session decodes its
// clip in fixed-size chunks and writes them to a device stream in file
// order. Two flags control a session while it runs:
//   - muted (player-wide): chunks are replaced by silence of the same length
//   - playing (per session): clearing it ends the session at the next chunk
//
// At most one session exists per clip id; playing a clip that is already
// playing returns the existing session.
//
// Example:
//
//	player := soundboard.NewClipPlayer(backend, soundboard.Options{ClipDir: "sounds"})
//	session, err := player.Play(soundboard.Clip{Title: "Airhorn", ID: "airhorn"}, deviceID)
//	player.SetMuted(true)
//	session.Stop()
//	err = session.Wait(ctx)
package soundboard
