// Package canvas defines the node collection manipulated by the grouping
// engine, together with the frame transforms and ordering rules every
// committed collection must respect.
//
// # Positions and Frames
//
// A [Node]'s Position has two meanings. When ParentID is empty the position is
// in absolute canvas coordinates. When ParentID names a group, the position is
// relative to that group's origin. Groups are never nested, so a parent chain
// is always zero or one level deep; [Index.Absolute], [ToLocal] and
// [ToAbsolute] assert this instead of assuming it and fail with a
// NESTED_GROUP error when it is violated.
//
//	ix := canvas.NewIndex(nodes)
//	abs, err := ix.Absolute(child) // parent.Position + child.Position
//
// # Render Order
//
// Hosts resolve parent bounds while walking the collection, so a group must
// appear before any of its members. [SortRenderOrder] restores this order with
// the minimum amount of movement and is idempotent.
//
// # Invariants
//
// [Validate] checks a collection against the layout invariants:
//
//   - a group never has a parent
//   - every parent reference names an existing group
//   - parents precede their members
//   - groups never overlap horizontally
//
// # Concurrency
//
// Collections are plain slices of values. Treat a committed collection as an
// immutable snapshot: copy before mutating.
package canvas
