package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/scenario"
)

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		flags engineFlags
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "replay <scenario>",
		Short: "Replay a gesture scenario and print the resulting canvas",
		Long: `Replay loads a scenario file (.toml, .yaml or .yml), applies each event
to a fresh engine, and prints one line per event followed by the final nodes
in render order. Events that degrade to no-ops are shown with their reason.

Expectations listed in the scenario are checked after the last event.`,
		Example: `  groupflow replay examples/scenarios/strip.toml
  groupflow replay regroup.yaml --tie-break first -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], &flags, quiet)
		},
	}

	flags.bind(cmd)
	cmd.ValidArgsFunction = completeScenarios
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final canvas")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, path string, flags *engineFlags, quiet bool) error {
	logger := loggerFromContext(ctx)
	sc, sess, err := c.session(path, flags)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(sc.Name))
	prog := newProgress(logger)
	steps, err := scenario.Replay(ctx, sess.Engine, sess.Store, sc.Events, func(s scenario.Step) {
		if !quiet {
			fmt.Println(stepLine(s))
		}
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d events", len(steps)))

	snap := sess.Store.Snapshot()
	printNewline()
	fmt.Println(nodeTable(snap.Nodes))
	printStats(snap.Nodes, len(snap.Edges), snap.Version)

	if noops := countSkipped(steps); noops > 0 {
		printWarning("%d of %d events were no-ops", noops, len(steps))
	}
	return report(snap.Nodes, sc.Expect)
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "check <scenario>...",
		Short: "Replay scenarios and verify expectations and layout invariants",
		Long: `Check replays each scenario without printing steps and verifies that the
final canvas satisfies its expectations and the layout invariants: no nested
groups, parents before members, and a non-overlapping group strip.

The command fails if any scenario fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := c.runCheck(cmd.Context(), path, &flags); err != nil {
					printError("%s: %s", path, errors.UserMessage(err))
					failed++
					continue
				}
				printSuccess("%s", path)
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvariant, "%d of %d scenario(s) failed", failed, len(args))
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.ValidArgsFunction = completeScenarios

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, path string, flags *engineFlags) error {
	sc, sess, err := c.session(path, flags)
	if err != nil {
		return err
	}
	steps, err := scenario.Replay(ctx, sess.Engine, sess.Store, sc.Events, nil)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("Replayed", "scenario", sc.Name, "events", len(steps), "noops", countSkipped(steps))

	nodes := sess.Store.Nodes()
	if err := canvas.Validate(nodes); err != nil {
		return err
	}
	return scenario.Check(nodes, sc.Expect)
}

// report validates the final canvas and its expectations, printing each
// failure as a detail line.
func report(nodes []canvas.Node, expect []scenario.Expectation) error {
	if err := canvas.Validate(nodes); err != nil {
		printError("layout invariants violated")
		printDetail("%v", err)
		return err
	}
	if len(expect) == 0 {
		printInfo("layout valid, no expectations")
		return nil
	}
	if err := scenario.Check(nodes, expect); err != nil {
		printError("%s", errors.UserMessage(err))
		printDetail("%v", stderrors.Unwrap(err))
		return err
	}
	printSuccess("layout valid, %d expectation(s) met", len(expect))
	return nil
}

func countSkipped(steps []scenario.Step) int {
	n := 0
	for _, s := range steps {
		if s.Skipped() {
			n++
		}
	}
	return n
}
