package store

import (
	"fmt"
	"sync"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

// Viewport maps screen coordinates onto the canvas. A zero Zoom is treated
// as 1.
type Viewport struct {
	PanX float64 `json:"pan_x" toml:"pan_x" yaml:"pan_x"`
	PanY float64 `json:"pan_y" toml:"pan_y" yaml:"pan_y"`
	Zoom float64 `json:"zoom" toml:"zoom" yaml:"zoom"`
}

// ScreenToCanvas converts a screen point into canvas coordinates.
func (v Viewport) ScreenToCanvas(p geom.Point) geom.Point {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return geom.Point{X: (p.X - v.PanX) / zoom, Y: (p.Y - v.PanY) / zoom}
}

// Snapshot is one committed state of the store.
type Snapshot struct {
	Version int
	Nodes   []canvas.Node
	Edges   []canvas.Edge
}

// Store is a concurrency-safe node and edge collection. The zero value is
// not usable; call New.
type Store struct {
	mu       sync.RWMutex
	nodes    []canvas.Node
	edges    []canvas.Edge
	viewport Viewport
	version  int

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New returns a store seeded with nodes and edges. The nodes are put into
// render order; edges referring to unknown nodes are dropped.
func New(nodes []canvas.Node, edges []canvas.Edge, vp Viewport) *Store {
	s := &Store{viewport: vp, subs: make(map[int]func(Snapshot))}
	s.nodes = canvas.SortRenderOrder(nodes)
	s.edges = prune(s.nodes, edges)
	return s
}

// Nodes returns the latest committed collection.
func (s *Store) Nodes() []canvas.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes
}

// Edges returns the latest committed edges.
func (s *Store) Edges() []canvas.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edges
}

// Viewport returns the current viewport.
func (s *Store) Viewport() Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// SetViewport replaces the viewport.
func (s *Store) SetViewport(vp Viewport) {
	s.mu.Lock()
	s.viewport = vp
	s.mu.Unlock()
}

// Snapshot returns the current state with its version.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Version: s.version, Nodes: s.nodes, Edges: s.edges}
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (canvas.Node, bool) {
	return canvas.NewIndex(s.Nodes()).Node(id)
}

// IntersectingNodes returns the nodes whose absolute bounds intersect box
// and satisfy filter. Nodes without dimensions, or whose parent cannot be
// resolved, never intersect anything.
func (s *Store) IntersectingNodes(box geom.Rect, filter func(canvas.Node) bool) []canvas.Node {
	nodes := s.Nodes()
	ix := canvas.NewIndex(nodes)

	var hits []canvas.Node
	for _, n := range nodes {
		if !n.HasSize() {
			continue
		}
		if filter != nil && !filter(n) {
			continue
		}
		bounds, err := ix.Bounds(n)
		if err != nil {
			continue
		}
		if geom.Intersects(bounds, box) {
			hits = append(hits, n)
		}
	}
	return hits
}

// ScreenToCanvas converts p using the current viewport.
func (s *Store) ScreenToCanvas(p geom.Point) geom.Point {
	return s.Viewport().ScreenToCanvas(p)
}

// CommitNodes replaces the node collection.
func (s *Store) CommitNodes(nodes []canvas.Node) {
	s.UpdateNodes(func([]canvas.Node) []canvas.Node { return nodes })
}

// UpdateNodes replaces the node collection with fn applied to the latest
// one. fn runs under the store's write lock and must not call back into the
// store.
func (s *Store) UpdateNodes(fn func([]canvas.Node) []canvas.Node) {
	s.mu.Lock()
	s.nodes = fn(s.nodes)
	s.edges = prune(s.nodes, s.edges)
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// MoveNode sets the position of node id in its current frame, as a host
// does while a node is being dragged. The returned node carries the new
// position and can be handed to the engine's drag callbacks.
func (s *Store) MoveNode(id string, pos geom.Point) (canvas.Node, error) {
	if err := errors.ValidateFinite("x", pos.X); err != nil {
		return canvas.Node{}, err
	}
	if err := errors.ValidateFinite("y", pos.Y); err != nil {
		return canvas.Node{}, err
	}

	var moved canvas.Node
	found := false
	s.UpdateNodes(func(nodes []canvas.Node) []canvas.Node {
		i := canvas.NewIndex(nodes).Position(id)
		if i < 0 {
			return nodes
		}
		next := canvas.Clone(nodes)
		next[i].Position = pos
		moved, found = next[i], true
		return next
	})
	if !found {
		return canvas.Node{}, errors.New(errors.ErrCodeMissingEntity, "node %q not found", id)
	}
	return moved, nil
}

// Connect adds an edge from source to target with the default edge style.
// Connecting the same pair twice returns the existing edge.
func (s *Store) Connect(source, target string) (canvas.Edge, error) {
	s.mu.Lock()
	ix := canvas.NewIndex(s.nodes)
	for _, id := range []string{source, target} {
		if _, ok := ix.Node(id); !ok {
			s.mu.Unlock()
			return canvas.Edge{}, errors.New(errors.ErrCodeMissingEntity, "node %q not found", id)
		}
	}
	for _, e := range s.edges {
		if e.Source == source && e.Target == target {
			s.mu.Unlock()
			return e, nil
		}
	}

	edge := canvas.Edge{
		ID:     EdgeID(source, target),
		Source: source,
		Target: target,
		Style:  canvas.DefaultEdgeStyle,
	}
	edges := make([]canvas.Edge, len(s.edges), len(s.edges)+1)
	copy(edges, s.edges)
	s.edges = append(edges, edge)
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return edge, nil
}

// EdgeID returns the id Connect assigns to an edge between two nodes.
func EdgeID(source, target string) string {
	return fmt.Sprintf("e_%s-%s", source, target)
}

// Subscribe registers fn to receive every committed snapshot. Snapshots are
// delivered synchronously on the committing goroutine, after the store's
// lock has been released. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// prune drops edges whose endpoints are not in nodes. The input slice is
// returned unchanged when nothing is dropped.
func prune(nodes []canvas.Node, edges []canvas.Edge) []canvas.Edge {
	ix := canvas.NewIndex(nodes)
	keep := func(e canvas.Edge) bool {
		_, src := ix.Node(e.Source)
		_, dst := ix.Node(e.Target)
		return src && dst
	}

	for i, e := range edges {
		if keep(e) {
			continue
		}
		out := make([]canvas.Edge, i, len(edges))
		copy(out, edges[:i])
		for _, rest := range edges[i+1:] {
			if keep(rest) {
				out = append(out, rest)
			}
		}
		return out
	}
	return edges
}
