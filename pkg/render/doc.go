// Package render turns committed canvas snapshots into images.
//
// The [dot] subpackage exports a snapshot as Graphviz DOT with every node
// pinned at its canvas position and renders it to SVG in-process. This
// package converts that SVG to other formats:
//
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(nodes, edges, dot.Options{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// PDF and PNG conversion shells out to rsvg-convert from librsvg.
package render
