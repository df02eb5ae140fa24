package canvas

import (
	"strings"

	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

// Kind is the closed set of node variants. Adding a kind means revisiting
// every switch over Kind in this module.
type Kind int

const (
	// KindSimple is a plain node that may become a member of a group.
	KindSimple Kind = iota
	// KindGroup is a container that owns members and defines a local frame.
	KindGroup
)

// String returns the wire name of the kind ("simple" or "group").
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSimple, KindGroup:
		return true
	}
	return false
}

// ParseKind converts a wire name into a Kind. "node" is accepted as an
// alias for simple, matching palette payloads.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "node":
		return KindSimple, nil
	case "group":
		return KindGroup, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidKind, "unknown node kind %q (want simple or group)", s)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidKind, "cannot encode node kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name accepted by ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Highlight is a transient UI marker. It never takes part in structural
// invariants.
type Highlight string

const (
	HighlightNone       Highlight = ""
	HighlightDropTarget Highlight = "active-drop-target"
)

// Node is an element of the canvas.
//
// Position is relative to the parent group when ParentID is set and absolute
// otherwise. Size is optional: the zero Size means "not known", which is
// normal for simple nodes and malformed for groups.
type Node struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"kind"`
	Label     string     `json:"label,omitempty"`
	Position  geom.Point `json:"position"`
	Size      geom.Size  `json:"size"`
	ParentID  string     `json:"parent_id,omitempty"`
	Contained bool       `json:"contained,omitempty"` // rendered bounds are confined to the parent
	Highlight Highlight  `json:"highlight,omitempty"`
}

// IsGroup reports whether the node is a group container.
func (n Node) IsGroup() bool { return n.Kind == KindGroup }

// IsMember reports whether the node is attached to a group.
func (n Node) IsMember() bool { return n.ParentID != "" }

// HasSize reports whether the node carries dimensions.
func (n Node) HasSize() bool { return !n.Size.IsZero() }

// SizeOr returns the node's size, or def when it has none.
func (n Node) SizeOr(def geom.Size) geom.Size {
	if n.HasSize() {
		return n.Size
	}
	return def
}

// Detached returns a copy of n moved to absolute position abs with its
// parent reference cleared.
func (n Node) Detached(abs geom.Point) Node {
	n.Position = abs
	n.ParentID = ""
	n.Contained = false
	return n
}

// EdgeStyle describes how a connection is drawn.
type EdgeStyle struct {
	StrokeWidth float64 `json:"stroke_width"`
	Marker      string  `json:"marker"`
}

// DefaultEdgeStyle is applied to new connections: 2px stroke, closed arrow.
var DefaultEdgeStyle = EdgeStyle{StrokeWidth: 2, Marker: "arrowclosed"}

// Edge connects two nodes. The grouping engine carries edges along
// unchanged.
type Edge struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	Style  EdgeStyle `json:"style"`
}

// Clone returns a copy of nodes that can be mutated without affecting the
// original snapshot.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

// Groups returns the group nodes of a collection in collection order.
func Groups(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if n.IsGroup() {
			out = append(out, n)
		}
	}
	return out
}

// Members returns the nodes attached to groupID in collection order.
func Members(nodes []Node, groupID string) []Node {
	var out []Node
	for _, n := range nodes {
		if n.ParentID == groupID {
			out = append(out, n)
		}
	}
	return out
}
