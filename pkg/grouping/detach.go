package grouping

import (
	"time"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
)

// Detach removes the listed nodes from their groups. Each member's position
// is converted from its parent's frame to absolute coordinates using the
// parent's position in the current snapshot. Ids that are unknown or already
// top-level are ignored.
//
// When removeParentID is non-empty, that node is deleted from the
// collection after its members have been converted. Members missing from
// nodeIDs are detached as well so no node is left referencing it.
func (e *Engine) Detach(nodeIDs []string, removeParentID string) error {
	return e.detach("detach", nodeIDs, removeParentID)
}

// DeleteGroup removes group id. Its members are detached first and keep
// their absolute positions on the canvas.
func (e *Engine) DeleteGroup(id string) error {
	const op = "delete_group"
	snapshot := e.host.Nodes()
	g, ok := canvas.NewIndex(snapshot).Node(id)
	if !ok {
		return e.abort(op, missing("group", id))
	}
	if !g.IsGroup() {
		return e.abort(op, errors.New(errors.ErrCodeInvalidKind, "node %q is a %s, not a group", id, g.Kind))
	}

	var members []string
	for _, m := range canvas.Members(snapshot, id) {
		members = append(members, m.ID)
	}
	return e.detach(op, members, id)
}

func (e *Engine) detach(op string, nodeIDs []string, removeParentID string) error {
	start := time.Now()

	want := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		want[id] = true
	}

	snapshot := e.host.Nodes()
	ix := canvas.NewIndex(snapshot)

	// A removed parent takes no members with it: every member is detached,
	// listed or not.
	if removeParentID != "" {
		for _, m := range canvas.Members(snapshot, removeParentID) {
			want[m.ID] = true
		}
	}
	nodes := make([]canvas.Node, 0, len(snapshot))
	changed := false

	type detached struct{ node, group string }
	var events []detached

	for _, n := range snapshot {
		if n.ID == removeParentID {
			changed = true
			continue
		}
		if !want[n.ID] || n.ParentID == "" {
			nodes = append(nodes, n)
			continue
		}

		abs := n.Position
		if parent, ok := ix.Node(n.ParentID); ok {
			var err error
			if abs, err = canvas.ToAbsolute(n.Position, parent); err != nil {
				return e.abort(op, err)
			}
		} else {
			e.logger.Warn("parent missing, keeping stored position as absolute",
				"node", n.ID, "parent", n.ParentID, "code", errors.ErrCodeMissingEntity)
		}

		nodes = append(nodes, n.Detached(abs))
		events = append(events, detached{node: n.ID, group: n.ParentID})
		changed = true
	}

	if !changed {
		return nil
	}

	e.commit(op, nodes, start)
	for _, ev := range events {
		e.hooks.OnDetach(ev.node, ev.group)
	}
	e.logger.Debug("detached", "nodes", len(events), "removed", removeParentID)
	return nil
}
