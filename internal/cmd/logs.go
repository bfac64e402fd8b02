package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/tessel/internal/config"
	"github.com/Iron-Ham/tessel/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter the debug log written to logging.dir.

Examples:
  # Show the last 50 entries
  tessel logs

  # Everything one surface did, from the start
  tessel logs --surface a -n 0

  # Only warnings and errors from the shell adapter
  tessel logs --level warn --component shell`,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsSurface   string
	logsView      string
	logsComponent string
	logsGrep      string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSurface, "surface", "", "Only entries for this surface ID")
	logsCmd.Flags().StringVar(&logsView, "view", "", "Only entries for this view ID")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	dir := cfg.Logging.ResolveDir()
	if dir == "" {
		return fmt.Errorf("logging.dir is not set; logs go to stderr")
	}

	entries, err := logging.AggregateLogs(dir)
	if err != nil {
		return err
	}
	entries = logging.FilterLogs(entries, logging.LogFilter{
		Level:           logsLevel,
		SurfaceID:       logsSurface,
		ViewID:          logsView,
		Component:       logsComponent,
		MessageContains: logsGrep,
	})
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}
	return logging.WriteText(cmd.OutOrStdout(), entries)
}
