// ABOUTME: Environment defaults for CLI flags
// ABOUTME: Reads SOUNDBOARD_* variables with go-envconfig
package cmd

import (
	"context"
	"fmt"

	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/Sendspin/soundboard/pkg/soundboard"
	"github.com/sethvargo/go-envconfig"
)

// envDefaults seeds flag defaults; explicit flags still win
type envDefaults struct {
	SoundMap    string `env:"SOUNDBOARD_SOUNDMAP, default=sound_map.json"`
	SoundsDir   string `env:"SOUNDBOARD_SOUNDS_DIR, default=sounds"`
	Backend     string `env:"SOUNDBOARD_BACKEND"`
	ChunkFrames int    `env:"SOUNDBOARD_CHUNK_FRAMES"`
	LogFile     string `env:"SOUNDBOARD_LOG_FILE, default=soundboard.log"`
	NoTUI       bool   `env:"SOUNDBOARD_NO_TUI, default=false"`
}

func loadEnvDefaults(ctx context.Context, lookuper envconfig.Lookuper) (envDefaults, error) {
	var env envDefaults
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return envDefaults{}, fmt.Errorf("config: %w", err)
	}

	if env.Backend == "" {
		env.Backend = output.DefaultBackend
	}
	if env.ChunkFrames <= 0 {
		env.ChunkFrames = soundboard.DefaultChunkFrames
	}
	return env, nil
}
