// Package geom provides the 2D primitives used by the grouping engine.
//
// Coordinates follow screen conventions: x grows to the right and y grows
// downward, so a [Rect]'s Top is its minimum y and Bottom its maximum y.
//
// All functions are pure and total. There are no error conditions: a zero
// [Size] is a valid degenerate rectangle that still intersects any rectangle
// strictly containing its origin.
package geom
