// Package store holds the single authoritative node and edge collection of a
// canvas.
//
// A [Store] implements the host side of the grouping engine: it answers
// hit-testing and coordinate queries and accepts whole-collection commits.
// Every commit replaces the collection wholesale, so a slice returned by
// [Store.Nodes] is an immutable snapshot that stays valid after later
// commits.
//
// Observers register with [Store.Subscribe] and receive each committed
// snapshot. Edges whose endpoints disappear in a commit are pruned in the
// same step, which keeps [Store.Edges] consistent with [Store.Nodes].
package store
