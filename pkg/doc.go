// Package pkg provides the libraries behind groupflow, a spatial grouping
// engine for node canvases.
//
// # Overview
//
// A canvas holds simple nodes and group containers. Groups sit side by side
// in a horizontal strip that never overlaps; a simple node dragged onto a
// group becomes its member and is positioned relative to it. The pkg
// directory is organized as follows:
//
//  1. [geom] - Points, sizes, rectangles and intersection tests
//  2. [canvas] - Node model, coordinate frames, render order, invariants
//  3. [grouping] - The engine: attach, detach, resize, drop and delete
//  4. [store] - The single authoritative node/edge collection
//  5. [scenario] - Scripted gesture replay from TOML or YAML
//  6. [render/dot] - Graphviz export and SVG rendering
//
// # Architecture
//
// A gesture flows through the packages like this:
//
//	host event (drag stop, drop, resize, ...)
//	         ↓
//	    [grouping] Engine reads host nodes, computes the new collection
//	         ↓
//	    [canvas] sorts parents before members
//	         ↓
//	    [store] commits once and publishes a snapshot
//	         ↓
//	    subscribers, [render/dot], HTTP clients
//
// # Quick Start
//
//	st := store.New(nodes, nil, store.Viewport{})
//	eng := grouping.New(st, ids.NewSequence("", 0), grouping.Options{})
//
//	// The host applies the drag, then asks the engine to regroup.
//	n, err := st.MoveNode("n", geom.Point{X: 130, Y: 40})
//	if err != nil {
//	    return err
//	}
//	if err := eng.DragStop(n); err != nil && !errors.IsNoOp(err) {
//	    return err
//	}
//
// # Supporting Packages
//
//   - [errors] - Coded errors; engine failures always mean "nothing committed"
//   - [ids] - Sequential and UUIDv7 id sources for dropped nodes
//   - [observability] - Engine and HTTP hooks
//   - [cache] - Render cache for Graphviz output
//   - [render] - SVG to PDF/PNG conversion
//   - [buildinfo] - Version information set at link time
package pkg
