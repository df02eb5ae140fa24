package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groupflow/pkg/cache"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/render"
	"github.com/matzehuels/groupflow/pkg/render/dot"
	"github.com/matzehuels/groupflow/pkg/scenario"
)

// formatDOT writes the Graphviz source without running a layout.
const formatDOT = "dot"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path; "-" writes to stdout
	format   string  // dot, svg, pdf or png
	scale    float64 // points per canvas unit; PNG output is rasterized at this scale too
	detailed bool    // add ids and coordinates to labels
	noCache  bool    // skip the on-disk render cache
}

// renderCommand creates the render command for drawing the replayed canvas.
func (c *CLI) renderCommand() *cobra.Command {
	var flags engineFlags
	opts := renderOpts{format: render.FormatSVG, scale: 1}

	cmd := &cobra.Command{
		Use:   "render <scenario>",
		Short: "Replay a scenario and render the final canvas",
		Long: `Render replays a scenario and draws the final canvas with Graphviz.
Groups are drawn as clusters around their members and every node keeps its
canvas position.

PDF and PNG output require rsvg-convert (librsvg). Drawings are cached under
$XDG_CACHE_HOME/groupflow (default ~/.cache/groupflow) keyed by the DOT
source; --no-cache bypasses the cache.`,
		Example: `  groupflow render strip.toml
  groupflow render strip.toml -f dot -o -
  groupflow render regroup.yaml -f png --scale 2 --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &flags, opts)
		},
	}

	flags.bind(cmd)
	cmd.ValidArgsFunction = completeScenarios
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <scenario>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, pdf or png")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "points per canvas unit")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids and coordinates in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always rerun Graphviz")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, flags *engineFlags, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	format := strings.ToLower(opts.format)
	if err := validateRenderFormat(format); err != nil {
		return err
	}

	sc, sess, err := c.session(path, flags)
	if err != nil {
		return err
	}
	if _, err := scenario.Replay(ctx, sess.Engine, sess.Store, sc.Events, nil); err != nil {
		return err
	}

	snap := sess.Store.Snapshot()
	logger.Infof("Rendering %s: %d nodes, %d edges", sc.Name, len(snap.Nodes), len(snap.Edges))

	src := dot.ToDOT(snap.Nodes, snap.Edges, dot.Options{Scale: opts.scale, Detailed: opts.detailed})
	data := []byte(src)
	if format != formatDOT {
		if data, err = c.draw(ctx, src, format, opts); err != nil {
			return err
		}
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	out := opts.output
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if out == "" {
		out = sc.Name + "." + format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
	}
	printSuccess("Rendered %s", sc.Name)
	printFile(out)
	if format == formatDOT {
		printNextStep("Draw it", "dot -Kneato -n -Tsvg "+out)
	}
	return nil
}

// draw runs Graphviz on src, reusing a cached drawing when one exists.
func (c *CLI) draw(ctx context.Context, src, format string, opts renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)
	renders, err := newCache(opts.noCache)
	if err != nil {
		logger.Warnf("Render cache disabled: %v", err)
		renders = cache.NewNullCache()
	}
	defer renders.Close()

	key := cache.RenderKey(src, format, opts.scale)
	if data, hit, err := renders.Get(ctx, key); err == nil && hit {
		logger.Debug("Render cache hit", "format", format)
		return data, nil
	}

	spinner := newSpinnerWithContext(ctx, "Running Graphviz...")
	spinner.Start()
	svg, err := dot.RenderSVG(ctx, src)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	data, err := render.Convert(svg, format, opts.scale)
	if err != nil {
		return nil, err
	}
	if err := renders.Set(ctx, key, data, renderCacheTTL); err != nil {
		logger.Debugf("Caching %s failed: %v", format, err)
	}
	return data, nil
}

func validateRenderFormat(format string) error {
	switch format {
	case formatDOT, render.FormatSVG, render.FormatPDF, render.FormatPNG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want dot, svg, pdf or png)", format)
}
