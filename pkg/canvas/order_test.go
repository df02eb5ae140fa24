package canvas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestSortRenderOrder(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  []string
	}{
		{
			name: "Empty",
			want: []string{},
		},
		{
			name: "AlreadyOrdered",
			nodes: []Node{
				{ID: "g1", Kind: KindGroup},
				{ID: "a", ParentID: "g1"},
				{ID: "b"},
			},
			want: []string{"g1", "a", "b"},
		},
		{
			name: "MemberBeforeParent",
			nodes: []Node{
				{ID: "a", ParentID: "g1"},
				{ID: "b"},
				{ID: "g1", Kind: KindGroup},
				{ID: "c"},
			},
			want: []string{"b", "g1", "a", "c"},
		},
		{
			name: "StableAmongMembers",
			nodes: []Node{
				{ID: "m2", ParentID: "g"},
				{ID: "m1", ParentID: "g"},
				{ID: "g", Kind: KindGroup},
				{ID: "m3", ParentID: "g"},
			},
			want: []string{"g", "m2", "m1", "m3"},
		},
		{
			name: "UnrelatedGroupsKeepOrder",
			nodes: []Node{
				{ID: "s"},
				{ID: "g2", Kind: KindGroup},
				{ID: "g1", Kind: KindGroup},
				{ID: "x", ParentID: "g1"},
			},
			want: []string{"s", "g2", "g1", "x"},
		},
		{
			name: "OrphanKeptAtEnd",
			nodes: []Node{
				{ID: "o", ParentID: "missing"},
				{ID: "a"},
			},
			want: []string{"a", "o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortRenderOrder(tt.nodes)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("SortRenderOrder() mismatch (-want +got):\n%s", diff)
			}
			if len(got) != len(tt.nodes) {
				t.Errorf("len = %d, want %d", len(got), len(tt.nodes))
			}
		})
	}
}

func TestSortRenderOrderIdempotent(t *testing.T) {
	nodes := []Node{
		{ID: "a", ParentID: "g2"},
		{ID: "b", ParentID: "g1"},
		{ID: "g1", Kind: KindGroup},
		{ID: "c"},
		{ID: "g2", Kind: KindGroup},
		{ID: "d", ParentID: "g1"},
		{ID: "o", ParentID: "gone"},
	}

	once := SortRenderOrder(nodes)
	twice := SortRenderOrder(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second sort changed order (-once +twice):\n%s", diff)
	}
	if !IsRenderOrdered(once) {
		t.Errorf("result not render ordered: %v", ids(once))
	}
}

func TestSortRenderOrderDoesNotMutateInput(t *testing.T) {
	nodes := []Node{
		{ID: "a", ParentID: "g"},
		{ID: "g", Kind: KindGroup},
	}
	_ = SortRenderOrder(nodes)
	if nodes[0].ID != "a" || nodes[1].ID != "g" {
		t.Errorf("input reordered: %v", ids(nodes))
	}
}

func TestSortRenderOrderCycle(t *testing.T) {
	nodes := []Node{
		{ID: "a", ParentID: "b"},
		{ID: "b", ParentID: "a"},
		{ID: "c"},
	}
	got := SortRenderOrder(nodes)
	if diff := cmp.Diff([]string{"c", "a", "b"}, ids(got)); diff != "" {
		t.Errorf("cycle handling mismatch (-want +got):\n%s", diff)
	}
}

func TestIsRenderOrdered(t *testing.T) {
	if IsRenderOrdered([]Node{{ID: "a", ParentID: "g"}, {ID: "g", Kind: KindGroup}}) {
		t.Error("member before parent should not be ordered")
	}
	if !IsRenderOrdered([]Node{{ID: "g", Kind: KindGroup}, {ID: "a", ParentID: "g"}}) {
		t.Error("parent before member should be ordered")
	}
}
