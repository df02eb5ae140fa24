package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// stepCommand creates the interactive step command.
func (c *CLI) stepCommand() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "step <scenario>",
		Short: "Walk through a scenario one event at a time",
		Long: `Step opens a terminal UI that applies one scenario event per key press
and shows the canvas after each commit, including drop-target highlights
while a drag is in progress.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, sess, err := c.session(args[0], &flags)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewStepModel(sc.Name, sess, sc.Events), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			m := final.(StepModel)
			if !m.Stepper.Done() {
				printInfo("stopped after %d of %d events", len(m.History), m.Stepper.Len())
				return nil
			}
			return report(m.Nodes, sc.Expect)
		},
	}

	flags.bind(cmd)
	cmd.ValidArgsFunction = completeScenarios

	return cmd
}
