package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/tessel/internal/scenario"
	"github.com/Iron-Ham/tessel/internal/tui"
)

var stepCmd = &cobra.Command{
	Use:   "step <file>",
	Short: "Step through a scenario interactively",
	Long: `Open an interactive stepper for one scenario. Each key press sends the next
surface signal and redraws the step log beside the container tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runStep,
}

func init() {
	rootCmd.AddCommand(stepCmd)
}

func runStep(cmd *cobra.Command, args []string) error {
	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	p := tea.NewProgram(tui.New(s, rt.opts, rt.logger), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
