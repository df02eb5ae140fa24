package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/geom"
)

func snapshot() ([]canvas.Node, []canvas.Edge) {
	nodes := []canvas.Node{
		{ID: "g", Kind: canvas.KindGroup, Label: "Ingest", Position: geom.Point{X: 100, Y: 0}, Size: geom.Size{Width: 200, Height: 100}},
		{ID: "m", Kind: canvas.KindSimple, Label: "parser", Position: geom.Point{X: 10, Y: 20}, Size: geom.Size{Width: 40, Height: 20}, ParentID: "g"},
		{ID: "free", Kind: canvas.KindSimple, Position: geom.Point{X: 400, Y: 50}},
	}
	edges := []canvas.Edge{
		{ID: "e1", Source: "m", Target: "free", Style: canvas.DefaultEdgeStyle},
		{ID: "dangling", Source: "m", Target: "nowhere"},
	}
	return nodes, edges
}

func TestToDOT(t *testing.T) {
	nodes, edges := snapshot()
	got := ToDOT(nodes, edges, Options{})

	for _, want := range []string{
		"digraph canvas {",
		"layout=neato;",
		`subgraph "cluster_g" {`,
		// group center 200,50 flipped
		`"g" [label="Ingest", pos="200,-50!"`,
		// member absolute 110,20 size 40x20, center 130,30
		`"m" [label="parser", pos="130,-30!"`,
		// default node size 80x30 at 400,50, center 440,65
		`"free" [label="free", pos="440,-65!"`,
		`"m" -> "free" [penwidth=2, arrowhead=normal];`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "nowhere") {
		t.Error("edge to unknown node exported")
	}

	// members are written inside the cluster
	cluster := got[strings.Index(got, "subgraph"):]
	cluster = cluster[:strings.Index(cluster, "  }\n")]
	if !strings.Contains(cluster, `"m" [`) || strings.Contains(cluster, `"free" [`) {
		t.Errorf("cluster contents wrong:\n%s", cluster)
	}
}

func TestToDOTScaleAndDetail(t *testing.T) {
	nodes, _ := snapshot()
	got := ToDOT(nodes, nil, Options{Scale: 2, Detailed: true})
	if !strings.Contains(got, `pos="400,-100!"`) {
		t.Errorf("scaled group position missing:\n%s", got)
	}
	if !strings.Contains(got, `label="parser\nm (110, 20)"`) {
		t.Errorf("detailed label missing:\n%s", got)
	}
}

func TestToDOTHighlight(t *testing.T) {
	nodes, _ := snapshot()
	nodes[0].Highlight = canvas.HighlightDropTarget
	if got := ToDOT(nodes, nil, Options{}); !strings.Contains(got, "penwidth=2") {
		t.Error("highlighted group not emphasized")
	}
}

func TestEdgeAttrs(t *testing.T) {
	tests := []struct {
		style canvas.EdgeStyle
		want  string
	}{
		{canvas.DefaultEdgeStyle, "penwidth=2, arrowhead=normal"},
		{canvas.EdgeStyle{Marker: "arrow"}, "arrowhead=vee"},
		{canvas.EdgeStyle{StrokeWidth: 1.5}, "penwidth=1.5, arrowhead=none"},
	}
	for _, tt := range tests {
		if got := strings.Join(edgeAttrs(canvas.Edge{Style: tt.style}), ", "); got != tt.want {
			t.Errorf("edgeAttrs(%+v) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	nodes, edges := snapshot()
	svg, err := RenderSVG(context.Background(), ToDOT(nodes, edges, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
