// internal/cli/clean.go
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"framelift/internal/config"
	"framelift/internal/logging"
	"framelift/internal/pipeline"
)

func newCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale session directories left by interrupted runs",
		RunE:  runClean,
	}

	cmd.Flags().Duration("older-than", 24*time.Hour, "only remove sessions older than this")
	cmd.Flags().String("temp-root", "", "directory holding session data")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("temp-root") {
		cfg.TempRoot, _ = cmd.Flags().GetString("temp-root")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	olderThan, _ := cmd.Flags().GetDuration("older-than")
	log := logging.New(cfg.LogLevel, os.Stderr)

	removed, warnings, err := pipeline.CleanStaleSessions(cfg.TempRoot, olderThan, log)
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d stale session(s) from %s\n", len(removed), cfg.TempRoot)
	for _, warning := range warnings {
		fmt.Fprintln(os.Stderr, warning.String())
	}
	return nil
}
