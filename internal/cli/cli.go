package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/groupflow/pkg/buildinfo"
	"github.com/matzehuels/groupflow/pkg/cache"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
	"github.com/matzehuels/groupflow/pkg/grouping"
	"github.com/matzehuels/groupflow/pkg/scenario"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "groupflow"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = "localhost:8080"

	// renderCacheTTL bounds how long rendered drawings stay on disk.
	renderCacheTTL = 7 * 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Groupflow replays grouping gestures on a node canvas",
		Long:         `Groupflow keeps nodes of a canvas grouped into a non-overlapping strip of containers. It replays scripted drag, drop, resize and detach gestures, checks the resulting layout, renders it with Graphviz, and serves the engine over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.replayCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Flags
// =============================================================================

// engineFlags are the engine settings shared by every command that builds
// a session. Set flags override the scenario's [options] table.
type engineFlags struct {
	probe    string // probe size as WxH
	tieBreak string // largest-overlap or first
	idSource string // seq or uuid
}

func (f *engineFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.probe, "probe", "", "drop probe size as WIDTHxHEIGHT (default 40x40)")
	cmd.Flags().StringVar(&f.tieBreak, "tie-break", "", "multiple-intersection policy: largest-overlap or first")
	cmd.Flags().StringVar(&f.idSource, "id-source", "", "id source for dropped nodes: seq or uuid")
	registerEngineCompletions(cmd)
}

// override returns the option adjustments requested on the command line.
func (f *engineFlags) override() (func(*grouping.Options), error) {
	var probe geom.Size
	if f.probe != "" {
		var err error
		if probe, err = parseSize(f.probe); err != nil {
			return nil, err
		}
	}
	var tb grouping.TieBreak
	if f.tieBreak != "" {
		var err error
		if tb, err = grouping.ParseTieBreak(f.tieBreak); err != nil {
			return nil, err
		}
	}
	return func(o *grouping.Options) {
		if !probe.IsZero() {
			o.ProbeSize = probe
		}
		if tb != "" {
			o.TieBreak = tb
		}
	}, nil
}

// session loads the scenario at path and binds a fresh engine to it.
func (c *CLI) session(path string, flags *engineFlags) (*scenario.Scenario, *scenario.Session, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if flags.idSource != "" {
		sc.Settings.IDSource = flags.idSource
	}
	override, err := flags.override()
	if err != nil {
		return nil, nil, err
	}
	sess, err := sc.NewSession(c.Logger, override)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("Loaded scenario", "name", sc.Name, "nodes", len(sc.Nodes), "edges", len(sc.Edges), "events", len(sc.Events))
	return sc, sess, nil
}

// =============================================================================
// Render Cache
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/groupflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Parsing Helpers
// =============================================================================

// parseSize parses "WIDTHxHEIGHT" into a positive size.
func parseSize(s string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidInput, "size %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return geom.Size{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "size %q", s)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return geom.Size{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "size %q", s)
	}
	if width <= 0 || height <= 0 {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidInput, "size %q: dimensions must be positive", s)
	}
	return geom.Size{Width: width, Height: height}, nil
}

// formatPoint renders a position for tables and status lines.
func formatPoint(p geom.Point) string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}
