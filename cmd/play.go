// ABOUTME: play subcommand
// ABOUTME: Plays one clip without the TUI and waits for it to end
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sendspin/soundboard/internal/app"
	"github.com/Sendspin/soundboard/pkg/soundboard"
	"github.com/spf13/cobra"
)

func newPlayCmd(opts *options) *cobra.Command {
	var device int

	cmd := &cobra.Command{
		Use:   "play <title|file_name>",
		Short: "Play a sound from the board",
		Long:  `Play one sound from the sound map, matched by file name first and then by title. Ctrl+C stops playback.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(opts.logFile, cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			sb, err := app.New(opts.appConfig())
			if err != nil {
				return err
			}
			defer func() { _ = sb.Shutdown() }()

			session, err := sb.PlayKey(args[0], device)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case <-session.Done():
			case <-ctx.Done():
				session.Stop()
				<-session.Done()
			}

			stats := session.Stats()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d frames in %d chunks)\n",
				session.Clip.Title, session.Reason(), stats.Frames, stats.Chunks)
			return session.Err()
		},
	}

	cmd.Flags().IntVar(&device, "device", soundboard.NoDevice, "Output device id (default: the saved out_device)")

	return cmd
}
