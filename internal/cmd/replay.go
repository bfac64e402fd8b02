package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/tessel/internal/render"
	"github.com/Iron-Ham/tessel/internal/scenario"
)

var replayCmd = &cobra.Command{
	Use:   "replay [path...]",
	Short: "Replay scenario files and check their expectations",
	Long: `Replay one or more scenario files, each on a fresh compositor, and report
the notifications, damage and final tree of every step.

Directories are searched recursively for files matching --match. The command
exits non-zero when any expectation fails.

Examples:
  # Replay every scenario under ./scenarios
  tessel replay scenarios

  # Machine-readable report
  tessel replay --format json two_windows.yaml

  # Re-run scenarios whenever they change
  tessel replay --watch scenarios`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

var (
	replayMatch  string
	replayWatch  bool
	replayFormat string
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayMatch, "match", "m", "", "Glob for scenario files inside directories (default from config)")
	replayCmd.Flags().BoolVarP(&replayWatch, "watch", "w", false, "Re-run scenarios when their files change")
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "text", "Output format: text, json or yaml")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if err := checkFormat(replayFormat); err != nil {
		return err
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	match := replayMatch
	if match == "" {
		match = rt.cfg.Replay.Match
	}
	paths, err := scenario.Discover(args, match)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenario files matching %q", match)
	}

	out := cmd.OutOrStdout()
	failed, err := replayFiles(out, rt, paths)
	if err != nil {
		return err
	}
	if !replayWatch {
		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, len(paths))
		}
		return nil
	}

	watcher, err := scenario.NewWatcher(args, match, rt.cfg.Replay.Debounce(), rt.logger)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintln(out, render.Muted.Render("watching for changes, ctrl+c to stop"))
	return watcher.Run(ctx, func(changed []string) {
		if _, err := replayFiles(out, rt, changed); err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), render.Error.Render(err.Error()))
		}
	})
}

// replayFiles runs each scenario and writes its report. It returns the
// number of scenarios with failed expectations.
func replayFiles(out io.Writer, rt *runtime, paths []string) (int, error) {
	runner := scenario.NewRunner(rt.opts, rt.logger)

	reports := make([]*scenario.Report, 0, len(paths))
	failed := 0
	for _, path := range paths {
		s, err := scenario.Load(path)
		if err != nil {
			return failed, err
		}
		report := runner.Run(s)
		if !report.Passed() {
			failed++
		}
		reports = append(reports, report)
	}

	if err := writeReports(out, reports); err != nil {
		return failed, err
	}
	return failed, nil
}

func writeReports(out io.Writer, reports []*scenario.Report) error {
	switch replayFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(reports)
	}

	width := terminalWidth()
	for _, r := range reports {
		if _, err := fmt.Fprintln(out, render.Report(r, width)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out, render.Summary(reports))
	return err
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text, json or yaml", format)
	}
}
