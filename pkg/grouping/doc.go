// Package grouping implements the spatial grouping engine: the rules that
// attach nodes to groups by geometric intersection, keep groups laid out as
// a non-overlapping left-to-right strip, and place newly dropped nodes.
//
// # Collaborators
//
// The engine owns no state. It reads the latest committed collection from a
// [Host], asks the host for hit-testing and screen-to-canvas conversion, and
// hands back a complete, render-ordered collection through CommitNodes or
// UpdateNodes. Ids for new nodes come from an [ids.Source].
//
//	st := store.New(nil, nil, store.Viewport{})
//	eng := grouping.New(st, ids.NewSequence("", 0), grouping.Options{})
//	id, err := eng.Drop(canvas.KindGroup, geom.Point{X: 40, Y: 40})
//
// # Entry Points
//
//   - [Engine.DragMove]: preview only, highlights the candidate group
//   - [Engine.DragStop]: attaches the node to the intersected group
//   - [Engine.Resize]: commits a group's new size and shifts groups to its right
//   - [Engine.Drop]: creates a node beside an intersected group or left of the strip
//   - [Engine.Detach]: converts members back to absolute coordinates
//   - [Engine.DeleteGroup]: detaches all members, then removes the group
//
// # Errors
//
// Entry points never panic on bad input. A non-nil error always means that
// nothing was committed; MISSING_ENTITY and MALFORMED_GEOMETRY errors can be
// treated as benign no-ops (see errors.IsNoOp).
//
// # Concurrency
//
// An Engine is meant to be driven from a single event loop. Each call runs
// to completion and commits at most once. Hosts that receive events from
// several goroutines must serialize calls.
package grouping
