// ABOUTME: remove subcommand
// ABOUTME: Drops a sound from the board while leaving its clip file in place
package cmd

import (
	"fmt"

	"github.com/Sendspin/soundboard/internal/registry"
	"github.com/spf13/cobra"
)

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title|file_name>",
		Short: "Remove a sound from the board",
		Long:  `Delete a sound map entry, matched by file name first and then by title. The clip in the sounds directory is kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(opts.logFile, cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			reg, err := registry.Load(opts.soundMap, opts.soundsDir)
			if err != nil {
				return err
			}

			if err := reg.Remove(args[0]); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
			return nil
		},
	}
}
