// ABOUTME: Add-sound flow for the registry
// ABOUTME: Validates, copies or transcodes a sound file into the clip directory
package registry

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sendspin/soundboard/pkg/audio/decode"
	"github.com/Sendspin/soundboard/pkg/soundboard"
)

// Add imports srcPath as a new sound and appends it to the board.
// Clip ids (the file's base name) must be unique; titles may repeat.
func (r *Registry) Add(srcPath, title, shortcut string) (Sound, error) {
	title = strings.TrimSpace(title)
	shortcut = strings.TrimSpace(shortcut)

	ext := strings.ToLower(filepath.Ext(srcPath))
	if ext != ".wav" && ext != ".mp3" {
		return Sound{}, fmt.Errorf("%s: %w", srcPath, ErrUnsupportedFile)
	}

	sound := Sound{
		Title:    title,
		FileName: strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)),
		Shortcut: shortcut,
	}
	if err := r.validate.Struct(sound); err != nil {
		return Sound{}, fmt.Errorf("invalid sound: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.data.Sounds {
		if s.FileName == sound.FileName {
			return Sound{}, fmt.Errorf("%q: %w", sound.FileName, ErrDuplicateClip)
		}
		if shortcut != "" && s.Shortcut == shortcut {
			return Sound{}, fmt.Errorf("%q is bound to %q: %w", shortcut, s.Title, ErrDuplicateShortcut)
		}
	}

	dest := filepath.Join(r.clipDir, sound.FileName+soundboard.ClipExtension)

	var err error
	switch ext {
	case ".wav":
		err = importWAV(srcPath, dest)
	case ".mp3":
		err = importMP3(srcPath, dest)
	}
	if err != nil {
		return Sound{}, &soundboard.ClipLoadError{ClipID: sound.FileName, Path: srcPath, Err: err}
	}

	r.data.Sounds = append(r.data.Sounds, sound)
	if err := r.save(); err != nil {
		r.data.Sounds = r.data.Sounds[:len(r.data.Sounds)-1]
		return Sound{}, err
	}

	log.Printf("Added sound %q (%s)", sound.Title, sound.FileName)
	return sound, nil
}

// importWAV checks the file decodes and copies it unless it is already in place
func importWAV(src, dest string) error {
	clip, err := decode.OpenWAV(src)
	if err != nil {
		return err
	}
	_ = clip.Close()

	same, err := samePath(src, dest)
	if err != nil {
		return err
	}
	if same {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("failed to copy clip: %w", err)
	}
	return out.Close()
}

// importMP3 transcodes to a PCM WAV at dest
func importMP3(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	format, err := decode.TranscodeMP3(in, out)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}

	log.Printf("Transcoded %s to %s (%s)", src, dest, format)
	return nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
