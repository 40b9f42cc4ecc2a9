// internal/cli/root.go

// Package cli wires the pipeline to the terminal: flags, the optional
// config file, interactive prompts for missing paths, progress display,
// and the final report.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns once the selected command finishes.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "framelift",
		Short: "Upscale videos frame by frame with an external AI enhancer",
		Long: "framelift decomposes a video into frames, enhances every frame\n" +
			"through an external super-resolution tool with bounded parallelism,\n" +
			"and reassembles the enhanced frames into the output video.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to a framelift.toml config file")
	root.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(newRunCommand(), newCleanCommand())
	return root
}
