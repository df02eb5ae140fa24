package grouping

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
	"github.com/matzehuels/groupflow/pkg/ids"
	"github.com/matzehuels/groupflow/pkg/observability"
)

// Host is the diagramming host the engine drives. The engine never keeps
// its own copy of the collection: every operation starts from Nodes and ends
// with exactly one commit.
type Host interface {
	// Nodes returns the latest committed collection. Callers must not
	// modify the returned slice.
	Nodes() []canvas.Node

	// IntersectingNodes returns the nodes whose absolute bounds intersect
	// box and satisfy filter (nil accepts all).
	IntersectingNodes(box geom.Rect, filter func(canvas.Node) bool) []canvas.Node

	// ScreenToCanvas converts a pointer position into canvas coordinates.
	ScreenToCanvas(p geom.Point) geom.Point

	// CommitNodes replaces the collection.
	CommitNodes(nodes []canvas.Node)

	// UpdateNodes replaces the collection with fn applied to the latest one.
	UpdateNodes(fn func([]canvas.Node) []canvas.Node)
}

// =============================================================================
// Options
// =============================================================================

// TieBreak selects the group used when a node intersects several groups.
type TieBreak string

const (
	// TieBreakLargestOverlap picks the group sharing the most area with the
	// node, falling back to render order on ties.
	TieBreakLargestOverlap TieBreak = "largest-overlap"
	// TieBreakFirst picks the earliest intersecting group in render order.
	TieBreakFirst TieBreak = "first"
)

// ParseTieBreak validates a tie-break policy name.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case "":
		return TieBreakLargestOverlap, nil
	case TieBreakLargestOverlap, TieBreakFirst:
		return TieBreak(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown tie-break %q (want largest-overlap or first)", s)
}

// Default values applied by Options.SetDefaults.
var (
	// DefaultProbeSize is the box tested for intersections around a drop point.
	DefaultProbeSize = geom.Size{Width: 40, Height: 40}

	// DefaultGroupSize is used for a dropped group when no neighbour group
	// supplies dimensions, and for groups whose dimensions are missing.
	DefaultGroupSize = geom.Size{Width: 100, Height: 100}

	// DefaultMinGroupSize is the smallest size a resize may commit.
	DefaultMinGroupSize = geom.Size{Width: 100, Height: 50}
)

// Options configures an Engine. The zero value is usable; SetDefaults is
// applied by New.
type Options struct {
	ProbeSize        geom.Size
	DefaultGroupSize geom.Size
	MinGroupSize     geom.Size
	TieBreak         TieBreak

	// Logger receives debug traces of commits and no-op aborts.
	// Nil discards output.
	Logger *log.Logger

	// Hooks receives engine events. Nil uses observability.Engine().
	Hooks observability.EngineHooks
}

// SetDefaults fills zero fields with package defaults.
func (o *Options) SetDefaults() {
	if o.ProbeSize.IsZero() {
		o.ProbeSize = DefaultProbeSize
	}
	if o.DefaultGroupSize.IsZero() {
		o.DefaultGroupSize = DefaultGroupSize
	}
	if o.MinGroupSize.IsZero() {
		o.MinGroupSize = DefaultMinGroupSize
	}
	if o.TieBreak == "" {
		o.TieBreak = TieBreakLargestOverlap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Engine()
	}
}

// =============================================================================
// Engine
// =============================================================================

// Engine applies grouping rules to a Host's collection.
type Engine struct {
	host   Host
	ids    ids.Source
	opts   Options
	logger *log.Logger
	hooks  observability.EngineHooks
}

// New creates an engine bound to host. A nil source uses a fresh sequence.
func New(host Host, src ids.Source, opts Options) *Engine {
	opts.SetDefaults()
	if src == nil {
		src = ids.NewSequence("", 0)
	}
	return &Engine{
		host:   host,
		ids:    src,
		opts:   opts,
		logger: opts.Logger,
		hooks:  opts.Hooks,
	}
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options { return e.opts }

// commit sorts nodes into render order and hands them to the host.
func (e *Engine) commit(op string, nodes []canvas.Node, start time.Time) {
	sorted := canvas.SortRenderOrder(nodes)
	e.host.CommitNodes(sorted)
	e.hooks.OnCommit(op, len(sorted), time.Since(start))
	e.logger.Debug("committed", "op", op, "nodes", len(sorted))
}

// abort records an operation that degraded to no change and returns err.
func (e *Engine) abort(op string, err error) error {
	e.hooks.OnAbort(op, err)
	e.logger.Debug("no change", "op", op, "err", err)
	return err
}

func missing(what, id string) error {
	return errors.New(errors.ErrCodeMissingEntity, "%s %q not found", what, id)
}

func isGroup(n canvas.Node) bool { return n.IsGroup() }

// participates reports whether n may change membership by dragging.
func participates(n canvas.Node) bool {
	switch n.Kind {
	case canvas.KindSimple:
		return true
	case canvas.KindGroup:
		return false
	}
	return false
}

// groupSize returns g's dimensions, falling back to the default group size
// when they are missing.
func (e *Engine) groupSize(g canvas.Node) geom.Size {
	if g.HasSize() {
		return g.Size
	}
	e.logger.Warn("group has no dimensions, using default",
		"group", g.ID, "code", errors.ErrCodeMalformedGeometry,
		"width", e.opts.DefaultGroupSize.Width, "height", e.opts.DefaultGroupSize.Height)
	return e.opts.DefaultGroupSize
}

// pickTarget chooses among the groups returned by hit-testing box. Groups
// are resolved against the snapshot in ix so the decision never uses stale
// host copies.
func (e *Engine) pickTarget(ix *canvas.Index, box geom.Rect, hits []canvas.Node) (canvas.Node, bool) {
	type candidate struct {
		node    canvas.Node
		order   int
		overlap float64
	}
	var cands []candidate
	for _, h := range hits {
		g, ok := ix.Node(h.ID)
		if !ok || !g.IsGroup() {
			continue
		}
		cands = append(cands, candidate{
			node:    g,
			order:   ix.Position(g.ID),
			overlap: geom.Overlap(box, geom.RectAt(g.Position, g.Size)),
		})
	}
	if len(cands) == 0 {
		return canvas.Node{}, false
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		if e.opts.TieBreak == TieBreakLargestOverlap && a.overlap != b.overlap {
			if a.overlap > b.overlap {
				return -1
			}
			return 1
		}
		return a.order - b.order
	})
	if len(cands) > 1 {
		e.logger.Debug("multiple groups intersect", "picked", cands[0].node.ID, "candidates", len(cands), "policy", e.opts.TieBreak)
	}
	return cands[0].node, true
}

// String describes the engine configuration.
func (e *Engine) String() string {
	return fmt.Sprintf("grouping.Engine{probe=%gx%g tie-break=%s}",
		e.opts.ProbeSize.Width, e.opts.ProbeSize.Height, e.opts.TieBreak)
}
