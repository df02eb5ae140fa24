package canvas

import (
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

// Index is a read-only id lookup over a collection snapshot. It resolves
// frames and bounds against that snapshot, so it must be rebuilt after every
// commit.
type Index struct {
	nodes []Node
	pos   map[string]int
}

// NewIndex indexes nodes by id. Duplicate ids resolve to the first
// occurrence.
func NewIndex(nodes []Node) *Index {
	pos := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := pos[n.ID]; !dup {
			pos[n.ID] = i
		}
	}
	return &Index{nodes: nodes, pos: pos}
}

// Node returns the node with the given id.
func (ix *Index) Node(id string) (Node, bool) {
	i, ok := ix.pos[id]
	if !ok {
		return Node{}, false
	}
	return ix.nodes[i], true
}

// Position returns the collection index of id, or -1.
func (ix *Index) Position(id string) int {
	if i, ok := ix.pos[id]; ok {
		return i
	}
	return -1
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.nodes) }

// Absolute returns n's position in canvas coordinates. The parent is looked
// up in the indexed snapshot, so the result reflects the parent's current
// position rather than any cached value.
func (ix *Index) Absolute(n Node) (geom.Point, error) {
	if n.ParentID == "" {
		return n.Position, nil
	}
	parent, ok := ix.Node(n.ParentID)
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeMissingEntity, "parent %q of node %q not found", n.ParentID, n.ID)
	}
	return ToAbsolute(n.Position, parent)
}

// Bounds returns n's rectangle in canvas coordinates. Nodes without a size
// have degenerate bounds at their absolute position.
func (ix *Index) Bounds(n Node) (geom.Rect, error) {
	abs, err := ix.Absolute(n)
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.RectAt(abs, n.Size), nil
}

// AbsolutePosition resolves the canvas position of node id in nodes.
func AbsolutePosition(nodes []Node, id string) (geom.Point, error) {
	ix := NewIndex(nodes)
	n, ok := ix.Node(id)
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeMissingEntity, "node %q not found", id)
	}
	return ix.Absolute(n)
}

// ToLocal converts an absolute canvas position into parent's local frame.
func ToLocal(abs geom.Point, parent Node) (geom.Point, error) {
	if err := checkFrame(parent); err != nil {
		return geom.Point{}, err
	}
	return geom.RelativePosition(abs, parent.Position), nil
}

// ToAbsolute converts a position in parent's local frame into canvas
// coordinates.
func ToAbsolute(local geom.Point, parent Node) (geom.Point, error) {
	if err := checkFrame(parent); err != nil {
		return geom.Point{}, err
	}
	return local.Add(parent.Position), nil
}

// checkFrame asserts that parent can define a local frame: it must be a
// group and must itself be unparented, which keeps chains one level deep.
func checkFrame(parent Node) error {
	if !parent.IsGroup() {
		return errors.New(errors.ErrCodeInvalidKind, "node %q is a %s, only groups define a local frame", parent.ID, parent.Kind)
	}
	if parent.ParentID != "" {
		return errors.New(errors.ErrCodeNestedGroup, "group %q has parent %q: groups cannot be nested", parent.ID, parent.ParentID)
	}
	return nil
}
