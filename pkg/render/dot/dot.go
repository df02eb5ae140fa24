package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/groupflow/pkg/canvas"
	"github.com/matzehuels/groupflow/pkg/errors"
	"github.com/matzehuels/groupflow/pkg/geom"
	"github.com/matzehuels/groupflow/pkg/render"
)

// Options configures DOT export.
type Options struct {
	// Scale is the number of points per canvas unit. Zero means 1.
	Scale float64

	// NodeSize is the drawn size of nodes without dimensions.
	// Zero means 80x30.
	NodeSize geom.Size

	// Detailed adds ids and canvas coordinates to labels.
	Detailed bool
}

func (o *Options) setDefaults() {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.NodeSize.IsZero() {
		o.NodeSize = geom.Size{Width: 80, Height: 30}
	}
}

const pointsPerInch = 72

// ToDOT converts a snapshot to DOT. Nodes are emitted in collection order,
// so groups are drawn before their members.
func ToDOT(nodes []canvas.Node, edges []canvas.Edge, opts Options) string {
	opts.setDefaults()
	ix := canvas.NewIndex(nodes)

	var buf bytes.Buffer
	buf.WriteString("digraph canvas {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.8];\n")
	buf.WriteString("\n")

	written := make(map[string]bool, len(nodes))
	for _, g := range nodes {
		if !g.IsGroup() {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+g.ID)
		fmt.Fprintf(&buf, "    style=invis;\n")
		fmt.Fprintf(&buf, "    %q [%s];\n", g.ID, strings.Join(nodeAttrs(ix, g, opts), ", "))
		written[g.ID] = true
		for _, m := range canvas.Members(nodes, g.ID) {
			if m.IsGroup() {
				continue
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", m.ID, strings.Join(nodeAttrs(ix, m, opts), ", "))
			written[m.ID] = true
		}
		buf.WriteString("  }\n")
	}

	for _, n := range nodes {
		if written[n.ID] {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(ix, n, opts), ", "))
		written[n.ID] = true
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		if !written[e.Source] || !written[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(ix *canvas.Index, n canvas.Node, opts Options) []string {
	abs, err := ix.Absolute(n)
	if err != nil {
		// unresolvable parent: draw at the stored position
		abs = n.Position
	}
	size := n.Size
	if !n.HasSize() {
		size = opts.NodeSize
	}
	box := geom.RectAt(abs, size)

	attrs := []string{
		fmt.Sprintf("label=%q", label(n, abs, opts.Detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", num(box.CenterX()*opts.Scale), num(-box.CenterY()*opts.Scale)),
		fmt.Sprintf("width=%s", num(size.Width*opts.Scale/pointsPerInch)),
		fmt.Sprintf("height=%s", num(size.Height*opts.Scale/pointsPerInch)),
	}
	if n.IsGroup() {
		attrs = append(attrs, "fillcolor=\"#f4f6f8\"", "labelloc=t")
		if n.Highlight == canvas.HighlightDropTarget {
			attrs = append(attrs, "color=\"#2f80ed\"", "penwidth=2")
		} else {
			attrs = append(attrs, "color=\"#8a94a6\"")
		}
	}
	return attrs
}

func label(n canvas.Node, abs geom.Point, detailed bool) string {
	text := n.Label
	if text == "" {
		text = n.ID
	}
	if !detailed {
		return text
	}
	return fmt.Sprintf("%s\n%s (%s, %s)", text, n.ID, num(abs.X), num(abs.Y))
}

func edgeAttrs(e canvas.Edge) []string {
	var attrs []string
	if e.Style.StrokeWidth > 0 {
		attrs = append(attrs, "penwidth="+num(e.Style.StrokeWidth))
	}
	switch e.Style.Marker {
	case "arrowclosed":
		attrs = append(attrs, "arrowhead=normal")
	case "arrow":
		attrs = append(attrs, "arrowhead=vee")
	default:
		attrs = append(attrs, "arrowhead=none")
	}
	return attrs
}

func num(f float64) string {
	if f == 0 {
		f = 0 // no "-0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// Render exports a snapshot and renders it in the given format
// (svg, pdf or png).
func Render(ctx context.Context, nodes []canvas.Node, edges []canvas.Edge, opts Options, format string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, ToDOT(nodes, edges, opts))
	if err != nil {
		return nil, err
	}
	return render.Convert(svg, format, scale)
}
