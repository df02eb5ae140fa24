package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groupflow/internal/server"
	"github.com/matzehuels/groupflow/pkg/grouping"
	"github.com/matzehuels/groupflow/pkg/ids"
	"github.com/matzehuels/groupflow/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags engineFlags
		addr  string
		seed  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a grouping engine over HTTP",
		Long: `Serve starts an HTTP host for a single canvas. Clients post drag, drop,
resize and detach events and read back snapshots, validation results and
renderings.

With --scenario the canvas is seeded from the scenario's nodes, edges,
viewport and options; its events are not replayed.`,
		Example: `  groupflow serve --addr :8080
  groupflow serve --scenario strip.toml --tie-break first`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, seed, &flags)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&seed, "scenario", "", "seed the canvas from a scenario file")
	_ = cmd.RegisterFlagCompletionFunc("scenario", completeScenarios)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, seed string, flags *engineFlags) error {
	var (
		st  *store.Store
		eng *grouping.Engine
	)
	if seed != "" {
		_, sess, err := c.session(seed, flags)
		if err != nil {
			return err
		}
		st, eng = sess.Store, sess.Engine
	} else {
		override, err := flags.override()
		if err != nil {
			return err
		}
		src, err := ids.Named(flags.idSource)
		if err != nil {
			return err
		}
		opts := grouping.Options{Logger: c.Logger}
		override(&opts)
		st = store.New(nil, nil, store.Viewport{})
		eng = grouping.New(st, src, opts)
	}

	printInfo("listening on %s", addr)
	printNextStep("Try", "curl http://"+addr+"/snapshot")
	return server.New(st, eng, c.Logger).ListenAndServe(ctx, addr)
}
