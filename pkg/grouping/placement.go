package grouping

import (
	"time"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

// Drop creates a node of the given kind from a palette drop at screen
// position p and returns its id.
//
// A probe box of Options.ProbeSize at the drop point is tested against the
// groups. When a group is hit, the new node is placed flush against its
// right edge and every group at or beyond that edge moves right by the new
// node's width. When nothing is hit, the node is placed immediately left of
// the leftmost group, or at the drop point when there are no groups.
//
// A new group takes its neighbour's dimensions (or DefaultGroupSize when it
// has none). A new simple node has no dimensions of its own; its neighbour's
// width is used as its slot width. New nodes are always top-level.
func (e *Engine) Drop(kind canvas.Kind, p geom.Point) (string, error) {
	const op = "drop"
	start := time.Now()

	if !kind.Valid() {
		return "", e.abort(op, errors.New(errors.ErrCodeInvalidKind, "cannot drop node of kind %d", int(kind)))
	}

	pos := e.host.ScreenToCanvas(p)
	probe := geom.RectAt(pos, e.opts.ProbeSize)

	snapshot := e.host.Nodes()
	ix := canvas.NewIndex(snapshot)
	nodes := canvas.Clone(snapshot)

	n := canvas.Node{
		ID:    e.ids.NextID(),
		Kind:  kind,
		Label: kind.String(),
	}

	shifted := 0
	if target, ok := e.pickTarget(ix, probe, e.host.IntersectingNodes(probe, isGroup)); ok {
		shifted = e.placeRightOf(&n, target, nodes)
	} else if leftmost, ok := leftmostGroup(snapshot); ok {
		e.placeLeftOf(&n, leftmost)
	} else {
		n.Position = pos
		if n.IsGroup() {
			n.Size = e.opts.DefaultGroupSize
		}
	}

	nodes = append(nodes, n)
	e.commit(op, nodes, start)
	e.hooks.OnPlace(n.ID, kind.String(), shifted)
	e.logger.Debug("placed", "node", n.ID, "kind", kind, "x", n.Position.X, "y", n.Position.Y, "shifted", shifted)
	return n.ID, nil
}

// placeRightOf positions n at g's right edge and shifts the groups at or
// beyond that edge by n's slot width. It returns the number of shifted
// groups.
func (e *Engine) placeRightOf(n *canvas.Node, g canvas.Node, nodes []canvas.Node) int {
	gs := e.groupSize(g)
	right := g.Position.X + gs.Width

	if n.IsGroup() {
		n.Size = gs
	}
	width := n.SizeOr(gs).Width
	n.Position = geom.Point{X: right, Y: g.Position.Y}

	shifted := 0
	for i := range nodes {
		if nodes[i].IsGroup() && nodes[i].ID != g.ID && nodes[i].Position.X >= right {
			nodes[i].Position.X += width
			shifted++
		}
	}
	return shifted
}

// placeLeftOf positions n so that its slot ends at leftmost's left edge.
func (e *Engine) placeLeftOf(n *canvas.Node, leftmost canvas.Node) {
	ls := e.groupSize(leftmost)

	if n.IsGroup() {
		n.Size = ls
	}
	width := n.SizeOr(ls).Width
	n.Position = geom.Point{X: leftmost.Position.X - width, Y: leftmost.Position.Y}
}

// leftmostGroup returns the group with the smallest x, the earliest one on
// ties.
func leftmostGroup(nodes []canvas.Node) (canvas.Node, bool) {
	var best canvas.Node
	found := false
	for _, n := range nodes {
		if !n.IsGroup() {
			continue
		}
		if !found || n.Position.X < best.Position.X {
			best, found = n, true
		}
	}
	return best, found
}
