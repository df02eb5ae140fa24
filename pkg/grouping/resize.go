package grouping

import (
	"math"
	"time"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

// Resize commits a new size for group id and keeps the strip free of
// overlaps. The group's left edge is the anchor: every other group whose x
// is strictly greater than the resized group's x moves by the width delta,
// groups to its left stay put. Members of moved groups are stored in their
// parent's frame and move with it, so they are not touched.
//
// A zero Height in size keeps the group's current height. Both dimensions
// are clamped to Options.MinGroupSize. A stale id aborts with
// MISSING_ENTITY and commits nothing.
func (e *Engine) Resize(id string, size geom.Size) error {
	const op = "resize"
	start := time.Now()

	snapshot := e.host.Nodes()
	ix := canvas.NewIndex(snapshot)
	g, ok := ix.Node(id)
	if !ok {
		return e.abort(op, missing("group", id))
	}
	if !g.IsGroup() {
		return e.abort(op, errors.New(errors.ErrCodeInvalidKind, "node %q is a %s, only groups can be resized", id, g.Kind))
	}
	if g.ParentID != "" {
		return e.abort(op, errors.New(errors.ErrCodeNestedGroup, "group %q has parent %q", id, g.ParentID))
	}

	if size.Height == 0 {
		size.Height = g.Size.Height
	}
	size.Width = math.Max(size.Width, e.opts.MinGroupSize.Width)
	size.Height = math.Max(size.Height, e.opts.MinGroupSize.Height)

	prev := g.Size.Width
	if !g.HasSize() {
		e.logger.Warn("resizing group without dimensions, assuming zero width",
			"group", id, "code", errors.ErrCodeMalformedGeometry)
	}
	delta := size.Width - prev

	nodes := canvas.Clone(snapshot)
	shifted := 0
	for i := range nodes {
		n := &nodes[i]
		switch {
		case n.ID == id:
			n.Size = size
		case n.IsGroup() && n.Position.X > g.Position.X && delta != 0:
			n.Position.X += delta
			shifted++
		}
	}

	e.commit(op, nodes, start)
	e.hooks.OnResize(id, delta, shifted)
	e.logger.Debug("resized", "group", id, "width", size.Width, "height", size.Height, "delta", delta, "shifted", shifted)
	return nil
}
