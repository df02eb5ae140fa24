package grouping_test

import (
	"testing"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
	"github.com/matzehuels/groupflow/pkg/grouping"
	"github.com/matzehuels/groupflow/pkg/ids"
	"github.com/matzehuels/groupflow/pkg/observability"
	"github.com/matzehuels/groupflow/pkg/store"
)

func group(id string, x, y, w, h float64) canvas.Node {
	return canvas.Node{
		ID:       id,
		Kind:     canvas.KindGroup,
		Label:    id,
		Position: geom.Point{X: x, Y: y},
		Size:     geom.Size{Width: w, Height: h},
	}
}

func simple(id string, x, y float64, parent string) canvas.Node {
	return canvas.Node{
		ID:        id,
		Kind:      canvas.KindSimple,
		Label:     id,
		Position:  geom.Point{X: x, Y: y},
		Size:      geom.Size{Width: 20, Height: 20},
		ParentID:  parent,
		Contained: parent != "",
	}
}

func setup(t *testing.T, opts grouping.Options, nodes ...canvas.Node) (*grouping.Engine, *store.Store, *observability.Counters) {
	t.Helper()
	st := store.New(nodes, nil, store.Viewport{})
	counters := observability.NewCounters()
	opts.Hooks = counters
	return grouping.New(st, ids.NewSequence("", 0), opts), st, counters
}

func mustNode(t *testing.T, st *store.Store, id string) canvas.Node {
	t.Helper()
	n, ok := st.Node(id)
	if !ok {
		t.Fatalf("node %q not in store", id)
	}
	return n
}

func assertValid(t *testing.T, st *store.Store) {
	t.Helper()
	if err := canvas.Validate(st.Nodes()); err != nil {
		t.Fatalf("invalid collection: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o grouping.Options
	o.SetDefaults()
	if o.ProbeSize != grouping.DefaultProbeSize {
		t.Errorf("ProbeSize = %v", o.ProbeSize)
	}
	if o.MinGroupSize != grouping.DefaultMinGroupSize {
		t.Errorf("MinGroupSize = %v", o.MinGroupSize)
	}
	if o.TieBreak != grouping.TieBreakLargestOverlap {
		t.Errorf("TieBreak = %q", o.TieBreak)
	}
	if o.Logger == nil || o.Hooks == nil {
		t.Error("Logger and Hooks must be set")
	}
}

func TestParseTieBreak(t *testing.T) {
	tests := []struct {
		in      string
		want    grouping.TieBreak
		wantErr bool
	}{
		{"", grouping.TieBreakLargestOverlap, false},
		{"largest-overlap", grouping.TieBreakLargestOverlap, false},
		{"first", grouping.TieBreakFirst, false},
		{"closest", "", true},
	}
	for _, tt := range tests {
		got, err := grouping.ParseTieBreak(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTieBreak(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseTieBreak(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewWithNilSource(t *testing.T) {
	eng, _, _ := setup(t, grouping.Options{})
	if eng.String() == "" {
		t.Error("String() is empty")
	}
	eng = grouping.New(store.New(nil, nil, store.Viewport{}), nil, grouping.Options{})
	id, err := eng.Drop(canvas.KindSimple, geom.Point{})
	if err != nil {
		t.Fatal(err)
	}
	if id != "dndnode_0" {
		t.Errorf("first id = %q, want dndnode_0", id)
	}
}

func TestAbortedOperationsCommitNothing(t *testing.T) {
	eng, st, counters := setup(t, grouping.Options{},
		group("g", 0, 0, 100, 100),
		simple("a", 200, 200, ""),
	)
	v := st.Snapshot().Version

	tests := []struct {
		name string
		run  func() error
		noop bool
		code errors.Code
	}{
		{"drag move stale id", func() error { return eng.DragMove(canvas.Node{ID: "ghost"}) }, true, errors.ErrCodeMissingEntity},
		{"drag stop stale id", func() error { return eng.DragStop(canvas.Node{ID: "ghost"}) }, true, errors.ErrCodeMissingEntity},
		{"resize stale id", func() error { return eng.Resize("ghost", geom.Size{Width: 200}) }, true, errors.ErrCodeMissingEntity},
		{"resize simple node", func() error { return eng.Resize("a", geom.Size{Width: 200}) }, false, errors.ErrCodeInvalidKind},
		{"delete stale group", func() error { return eng.DeleteGroup("ghost") }, true, errors.ErrCodeMissingEntity},
		{"delete simple node", func() error { return eng.DeleteGroup("a") }, false, errors.ErrCodeInvalidKind},
		{"drop unknown kind", func() error { _, err := eng.Drop(canvas.Kind(9), geom.Point{}); return err }, false, errors.ErrCodeInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if got := errors.IsNoOp(err); got != tt.noop {
				t.Errorf("IsNoOp = %v, want %v", got, tt.noop)
			}
			if got := st.Snapshot().Version; got != v {
				t.Errorf("store version moved from %d to %d", v, got)
			}
		})
	}
	if got := counters.Aborts.Load(); got != int64(len(tests)) {
		t.Errorf("Aborts = %d, want %d", got, len(tests))
	}
}

func TestGroupsDoNotParticipateInDrag(t *testing.T) {
	eng, st, _ := setup(t, grouping.Options{},
		group("g", 0, 0, 100, 100),
		group("h", 100, 0, 100, 100),
	)
	v := st.Snapshot().Version

	moved := mustNode(t, st, "h")
	moved.Position.X = 50
	if err := eng.DragMove(moved); err != nil {
		t.Fatal(err)
	}
	if err := eng.DragStop(moved); err != nil {
		t.Fatal(err)
	}
	if st.Snapshot().Version != v {
		t.Error("dragging a group committed a change")
	}
	if mustNode(t, st, "h").ParentID != "" {
		t.Error("group acquired a parent")
	}
}
