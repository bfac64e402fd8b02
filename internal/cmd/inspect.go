package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/tessel/internal/render"
	"github.com/Iron-Ham/tessel/internal/scenario"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Validate a scenario and list its steps without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, render.Title.Render(s.Name))
	if s.Output != nil {
		_, _ = fmt.Fprintf(out, "output: %dx%d\n", s.Output.Width, s.Output.Height)
	}
	for i, step := range s.Steps {
		line := fmt.Sprintf("%2d %s", i+1, step.Describe())
		if step.Expect != nil {
			line += " " + render.Muted.Render(describeExpect(step.Expect))
		}
		_, _ = fmt.Fprintln(out, line)
	}
	_, _ = fmt.Fprintf(out, "%d steps, %d surfaces\n", len(s.Steps), countSurfaces(s))
	return nil
}

func describeExpect(e *scenario.Expect) string {
	desc := "expect"
	if e.State != "" {
		desc += " state=" + e.State
	}
	if e.Focused != "" {
		desc += " focused=" + e.Focused
	}
	if e.Title != "" {
		desc += fmt.Sprintf(" title=%q", e.Title)
	}
	if e.Damage != nil {
		desc += fmt.Sprintf(" damage=%d", *e.Damage)
	}
	return desc
}

func countSurfaces(s *scenario.Scenario) int {
	seen := make(map[string]bool)
	for _, step := range s.Steps {
		seen[step.Surface] = true
	}
	return len(seen)
}
