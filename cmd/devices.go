// ABOUTME: devices subcommand
// ABOUTME: Prints the output device catalog for the selected backend
package cmd

import (
	"fmt"

	"github.com/Sendspin/soundboard/internal/catalog"
	"github.com/Sendspin/soundboard/pkg/audio/output"
	"github.com/spf13/cobra"
)

func newDevicesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List output devices",
		Long:  `Enumerate the output devices of the selected backend. Use the printed id with "play --device" or pick it in the board's output menu.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(opts.logFile, cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			backend, err := output.NewBackend(opts.backend)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			cat, err := catalog.Build(backend)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cat.Len() == 0 {
				_, _ = fmt.Fprintf(out, "No output devices found (%s)\n", backend.Name())
				return nil
			}

			_, _ = fmt.Fprintf(out, "Output devices (%s):\n", backend.Name())
			for _, d := range cat.Devices() {
				name, _ := cat.NameOf(d.ID)
				marker := " "
				if d.IsDefault {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, " %s %3d  %s (%d ch)\n", marker, d.ID, name, d.MaxOutputChannels)
			}
			return nil
		},
	}

	// Accepted for compatibility; listing is the only mode
	cmd.Flags().Bool("list", true, "List devices")
	_ = cmd.Flags().MarkHidden("list")

	return cmd
}
