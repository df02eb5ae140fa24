// Package dot exports canvas snapshots as Graphviz DOT and renders them.
//
// Every group becomes a cluster subgraph holding the group's own box and its
// members. All nodes carry pinned positions (pos="x,y!") and the graph asks
// for the neato engine, so the drawing reproduces the canvas layout instead
// of letting Graphviz arrange nodes:
//
//	src := dot.ToDOT(st.Nodes(), st.Edges(), dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Canvas y grows downward and Graphviz y grows upward; ToDOT flips the axis.
// One canvas unit maps to Options.Scale points.
//
// Rendering runs in-process through [github.com/goccy/go-graphviz].
package dot
