// Package scenario loads scripted canvas sessions and replays them against a
// grouping engine.
//
// A scenario seeds a store with nodes and edges and then lists the gestures
// a user would perform: palette drops, drags, resizes, detaches, group
// deletions and connections. Scenarios are written in TOML or YAML:
//
//	name = "two groups"
//
//	[options]
//	tie_break = "largest-overlap"
//
//	[[node]]
//	id = "g"
//	kind = "group"
//	x = 100
//	width = 100
//	height = 100
//
//	[[event]]
//	type = "drop"
//	kind = "simple"
//	x = 20
//	y = 20
//
//	[[event]]
//	type = "resize"
//	group = "g"
//	width = 150
//
//	[[expect]]
//	node = "dndnode_0"
//	x = 0
//
// The YAML form uses the plural keys nodes, edges, events and expect.
//
// Drag positions are given in the dragged node's current frame, which is how
// a host reports them: absolute for top-level nodes and relative to the
// parent for members.
package scenario
