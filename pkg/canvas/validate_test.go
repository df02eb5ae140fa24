package canvas

import (
	"strings"
	"testing"

	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
)

func group(id string, x, w float64) Node {
	return Node{ID: id, Kind: KindGroup, Position: geom.Point{X: x}, Size: geom.Size{Width: w, Height: 100}}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []Node
		wantCode errors.Code
		wantMsg  string
	}{
		{
			name: "Valid",
			nodes: []Node{
				group("g1", 0, 100),
				{ID: "a", ParentID: "g1"},
				group("g2", 100, 50),
				{ID: "free"},
			},
		},
		{
			name:     "NestedGroup",
			nodes:    []Node{group("g1", 0, 100), {ID: "g2", Kind: KindGroup, ParentID: "g1", Position: geom.Point{X: 500}}},
			wantCode: errors.ErrCodeNestedGroup,
		},
		{
			name:     "MissingParent",
			nodes:    []Node{{ID: "a", ParentID: "ghost"}},
			wantCode: errors.ErrCodeMissingEntity,
		},
		{
			name:     "SimpleParent",
			nodes:    []Node{{ID: "s"}, {ID: "a", ParentID: "s"}},
			wantCode: errors.ErrCodeInvalidKind,
		},
		{
			name:     "MemberBeforeParent",
			nodes:    []Node{{ID: "a", ParentID: "g1"}, group("g1", 0, 100)},
			wantCode: errors.ErrCodeInvariant,
			wantMsg:  "precedes its parent",
		},
		{
			name:     "OverlappingGroups",
			nodes:    []Node{group("g1", 0, 100), group("g2", 99, 100)},
			wantCode: errors.ErrCodeInvariant,
			wantMsg:  "overlap horizontally",
		},
		{
			name:     "DuplicateID",
			nodes:    []Node{{ID: "a"}, {ID: "a"}},
			wantCode: errors.ErrCodeInvariant,
			wantMsg:  "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.nodes)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Validate() = %v, want code %s", err, tt.wantCode)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %v, want message containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateAdjacentGroupsDoNotOverlap(t *testing.T) {
	if err := Validate([]Node{group("a", 0, 100), group("b", 100, 100), group("c", 200, 10)}); err != nil {
		t.Errorf("touching groups reported as overlapping: %v", err)
	}
}

func TestValidateWideGroupReportsEveryCoveredGroup(t *testing.T) {
	err := Validate([]Node{group("A", 0, 500), group("B", 100, 50), group("C", 200, 10), group("D", 500, 10)})
	if !errors.Is(err, errors.ErrCodeInvariant) {
		t.Fatalf("Validate() = %v, want %s", err, errors.ErrCodeInvariant)
	}
	msg := err.Error()
	for _, want := range []string{`"A" [0,500] and "B"`, `"A" [0,500] and "C"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() = %v, want overlap %s", err, want)
		}
	}
	if strings.Contains(msg, `"D"`) {
		t.Errorf("Validate() = %v, D touches A and must not be reported", err)
	}
}
