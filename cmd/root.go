// ABOUTME: Root command for the soundboard CLI
// ABOUTME: Runs the board in the TUI or headless and sets up logging
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Sendspin/soundboard/internal/app"
	"github.com/Sendspin/soundboard/internal/version"
	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// options holds the root flags shared by every subcommand
type options struct {
	soundMap    string
	soundsDir   string
	backend     string
	chunkFrames int
	logFile     string
	noTUI       bool
}

func (o *options) appConfig() app.Config {
	return app.Config{
		SoundMap:    o.soundMap,
		SoundsDir:   o.soundsDir,
		Backend:     o.backend,
		ChunkFrames: o.chunkFrames,
	}
}

// Execute runs the CLI with environment defaults from the process
func Execute() error {
	env, err := loadEnvDefaults(context.Background(), envconfig.OsLookuper())
	if err != nil {
		return err
	}
	return newRootCmd(env).Execute()
}

func newRootCmd(env envDefaults) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "soundboard",
		Short:   "Play sound clips from a keyboard-driven board",
		Long:    `A terminal soundboard. Each button plays a WAV clip on the selected output device; the board is saved in a JSON sound map.`,
		Version: version.Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, opts)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.soundMap, "soundmap", "m", env.SoundMap, "Sound map JSON file")
	flags.StringVar(&opts.soundsDir, "sounds-dir", env.SoundsDir, "Directory holding clip WAV files")
	flags.StringVar(&opts.backend, "backend", env.Backend, "Output backend ("+strings.Join(output.Backends(), "|")+")")
	flags.IntVar(&opts.chunkFrames, "chunk-frames", env.ChunkFrames, "Frames per device write")
	flags.StringVar(&opts.logFile, "log-file", env.LogFile, "Log file path")
	rootCmd.Flags().BoolVar(&opts.noTUI, "no-tui", env.NoTUI, "Disable TUI, log to stdout instead")

	rootCmd.AddCommand(
		newDevicesCmd(opts),
		newPlayCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
	)

	return rootCmd
}

// setupLogging sends the log to the file, and also to stdout when echo is set
func setupLogging(path string, stdout io.Writer, echo bool) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	if echo {
		log.SetOutput(io.MultiWriter(stdout, f))
	} else {
		log.SetOutput(f)
	}

	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func runBoard(cmd *cobra.Command, opts *options) error {
	closeLog, err := setupLogging(opts.logFile, cmd.OutOrStdout(), opts.noTUI)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Printf("Starting %s", version.Banner())

	sb, err := app.New(opts.appConfig())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	if opts.noTUI {
		runErr = sb.RunHeadless(ctx)
	} else {
		runErr = sb.RunTUI(ctx)
	}

	if err := sb.Shutdown(); err != nil {
		log.Printf("Shutdown: %v", err)
	}
	return runErr
}
