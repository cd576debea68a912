// ABOUTME: Playback error types
// ABOUTME: ClipLoadError and DeviceUnavailableError surfaced by ClipPlayer.Play
package soundboard

import (
	"errors"
	"fmt"
)

// ErrNoDevice is wrapped when Play is called without a selected device
var ErrNoDevice = errors.New("no output device selected")

// ClipLoadError reports a missing, unreadable or malformed clip
type ClipLoadError struct {
	ClipID string
	Path   string
	Err    error
}

func (e *ClipLoadError) Error() string {
	return fmt.Sprintf("failed to load clip %q from %s: %v", e.ClipID, e.Path, e.Err)
}

func (e *ClipLoadError) Unwrap() error {
	return e.Err
}

// DeviceUnavailableError reports an invalid or inaccessible output device
type DeviceUnavailableError struct {
	DeviceID int
	Err      error
}

func (e *DeviceUnavailableError) Error() string {
	return fmt.Sprintf("output device %d unavailable: %v", e.DeviceID, e.Err)
}

func (e *DeviceUnavailableError) Unwrap() error {
	return e.Err
}

// IsClipLoadError reports whether err is or wraps a ClipLoadError
func IsClipLoadError(err error) bool {
	var target *ClipLoadError
	return errors.As(err, &target)
}

// IsDeviceUnavailable reports whether err is or wraps a DeviceUnavailableError
func IsDeviceUnavailable(err error) bool {
	var target *DeviceUnavailableError
	return errors.As(err, &target)
}
