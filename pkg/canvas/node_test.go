package canvas

import (
	"testing"

	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"simple", KindSimple, false},
		{"node", KindSimple, false},
		{" Group ", KindGroup, false},
		{"frame", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidKind) {
				t.Errorf("error code = %s", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for _, k := range []Kind{KindSimple, KindGroup} {
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), parsed, err)
		}
	}
	if Kind(7).Valid() || Kind(7).String() != "unknown" {
		t.Error("undeclared kind should be invalid")
	}
}

func TestNodeDetached(t *testing.T) {
	n := Node{ID: "a", ParentID: "g", Contained: true, Position: geom.Point{X: 1, Y: 2}}
	d := n.Detached(geom.Point{X: 11, Y: 12})
	if d.ParentID != "" || d.Contained || d.Position != (geom.Point{X: 11, Y: 12}) {
		t.Errorf("Detached = %+v", d)
	}
	if n.ParentID != "g" {
		t.Error("Detached must not modify the receiver")
	}
}

func TestSizeOr(t *testing.T) {
	def := geom.Size{Width: 100, Height: 100}
	if got := (Node{}).SizeOr(def); got != def {
		t.Errorf("SizeOr on sizeless node = %v", got)
	}
	own := geom.Size{Width: 80, Height: 40}
	if got := (Node{Size: own}).SizeOr(def); got != own {
		t.Errorf("SizeOr = %v, want %v", got, own)
	}
}

func TestMembersAndGroups(t *testing.T) {
	nodes := []Node{
		{ID: "g", Kind: KindGroup},
		{ID: "a", ParentID: "g"},
		{ID: "b"},
		{ID: "c", ParentID: "g"},
	}
	if got := ids(Members(nodes, "g")); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Members = %v", got)
	}
	if got := ids(Groups(nodes)); len(got) != 1 || got[0] != "g" {
		t.Errorf("Groups = %v", got)
	}
	cl := Clone(nodes)
	cl[0].ID = "changed"
	if nodes[0].ID != "g" {
		t.Error("Clone shares backing array")
	}
}
