// ABOUTME: add subcommand
// ABOUTME: Imports a WAV or MP3 file onto the board
package cmd

import (
	"fmt"

	"github.com/Sendspin/soundboard/internal/registry"
	"github.com/spf13/cobra"
)

func newAddCmd(opts *options) *cobra.Command {
	var title, shortcut string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a sound to the board",
		Long:  `Copy a WAV file (or transcode an MP3) into the sounds directory and append it to the sound map.`,
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

			sound, err := reg.Add(args[0], title, shortcut)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %q as %s\n", sound.Title, sound.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Button title")
	cmd.Flags().StringVar(&shortcut, "shortcut", "", "Shortcut key")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
