package grouping

import (
	"time"

	"github.com/matzehuels/groupflow/pkg/canvas"
)

// dragged resolves the node delivered with a drag event against the
// snapshot. The event carries the node's current position in its current
// frame; kind and parent always come from the snapshot.
func (e *Engine) dragged(ix *canvas.Index, ev canvas.Node) (canvas.Node, bool) {
	stored, ok := ix.Node(ev.ID)
	if !ok {
		return canvas.Node{}, false
	}
	stored.Position = ev.Position
	if ev.HasSize() {
		stored.Size = ev.Size
	}
	return stored, true
}

// dropTarget returns the group under n's current bounds.
func (e *Engine) dropTarget(ix *canvas.Index, n canvas.Node) (canvas.Node, bool, error) {
	bounds, err := ix.Bounds(n)
	if err != nil {
		return canvas.Node{}, false, err
	}
	hits := e.host.IntersectingNodes(bounds, isGroup)
	target, ok := e.pickTarget(ix, bounds, hits)
	return target, ok, nil
}

// DragMove previews membership while a node is being dragged. When the
// node's bounds intersect a group other than its current parent, that group
// is highlighted as the drop target and every other group is cleared. No
// parent or position is changed.
func (e *Engine) DragMove(ev canvas.Node) error {
	const op = "drag_move"
	start := time.Now()

	snapshot := e.host.Nodes()
	ix := canvas.NewIndex(snapshot)
	n, ok := e.dragged(ix, ev)
	if !ok {
		return e.abort(op, missing("node", ev.ID))
	}
	if !participates(n) {
		return nil
	}

	target, found, err := e.dropTarget(ix, n)
	if err != nil {
		return e.abort(op, err)
	}
	candidate := ""
	if found && target.ID != n.ParentID {
		candidate = target.ID
	}

	if !highlightsDiffer(snapshot, candidate) {
		return nil
	}
	e.host.UpdateNodes(func(nodes []canvas.Node) []canvas.Node {
		return canvas.SortRenderOrder(withHighlight(canvas.Clone(nodes), candidate))
	})
	e.hooks.OnCommit(op, len(snapshot), time.Since(start))
	e.logger.Debug("drop target", "node", n.ID, "group", candidate)
	return nil
}

// DragStop ends a drag gesture. If the node's final bounds intersect a
// group other than its current parent, the node is re-expressed in that
// group's frame and attached to it. Otherwise membership is unchanged: this
// engine never detaches on drag stop. Drop-target highlights are cleared in
// both cases.
func (e *Engine) DragStop(ev canvas.Node) error {
	const op = "drag_stop"
	start := time.Now()

	snapshot := e.host.Nodes()
	ix := canvas.NewIndex(snapshot)
	n, ok := e.dragged(ix, ev)
	if !ok {
		return e.abort(op, missing("node", ev.ID))
	}
	if !participates(n) {
		return nil
	}

	target, found, err := e.dropTarget(ix, n)
	if err != nil {
		return e.abort(op, err)
	}

	if !found || target.ID == n.ParentID {
		if highlightsDiffer(snapshot, "") {
			e.commit(op, withHighlight(canvas.Clone(snapshot), ""), start)
		}
		return nil
	}

	abs, err := ix.Absolute(n)
	if err != nil {
		return e.abort(op, err)
	}
	local, err := canvas.ToLocal(abs, target)
	if err != nil {
		return e.abort(op, err)
	}

	nodes := withHighlight(canvas.Clone(snapshot), "")
	i := ix.Position(n.ID)
	prev := nodes[i].ParentID
	nodes[i].Position = local
	nodes[i].Size = n.Size
	nodes[i].ParentID = target.ID
	nodes[i].Contained = true

	e.commit(op, nodes, start)
	e.hooks.OnAttach(n.ID, target.ID)
	e.logger.Debug("attached", "node", n.ID, "group", target.ID, "from", prev, "x", local.X, "y", local.Y)
	return nil
}

// withHighlight marks the group with id candidate as the drop target and
// clears every other group, modifying nodes in place.
func withHighlight(nodes []canvas.Node, candidate string) []canvas.Node {
	for i := range nodes {
		if !nodes[i].IsGroup() {
			continue
		}
		if nodes[i].ID == candidate {
			nodes[i].Highlight = canvas.HighlightDropTarget
		} else {
			nodes[i].Highlight = canvas.HighlightNone
		}
	}
	return nodes
}

func highlightsDiffer(nodes []canvas.Node, candidate string) bool {
	for _, n := range nodes {
		if !n.IsGroup() {
			continue
		}
		want := canvas.HighlightNone
		if n.ID == candidate {
			want = canvas.HighlightDropTarget
		}
		if n.Highlight != want {
			return true
		}
	}
	return false
}
