package geom

import "math"

// Point is a position on the canvas or inside a group's local frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// ApproxEqual reports whether p and q differ by at most tol on both axes.
func (p Point) ApproxEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Size holds the dimensions of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectAt builds a rectangle from an origin and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Left returns the minimum x.
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum x.
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the minimum y.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the maximum y.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center point.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center point.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Intersects reports whether a and b overlap on both axes.
// Rectangles that only share an edge do not intersect.
func Intersects(a, b Rect) bool {
	return a.Left() < b.Right() && b.Left() < a.Right() &&
		a.Top() < b.Bottom() && b.Top() < a.Bottom()
}

// Overlap returns the area shared by a and b, or 0 if they do not intersect.
func Overlap(a, b Rect) float64 {
	if !Intersects(a, b) {
		return 0
	}
	w := math.Min(a.Right(), b.Right()) - math.Max(a.Left(), b.Left())
	h := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Top(), b.Top())
	return w * h
}

// RelativePosition returns child expressed relative to parent.
func RelativePosition(child, parent Point) Point {
	return child.Sub(parent)
}

// HorizontalOverlap reports whether the x-spans of a and b overlap.
// Shared edges do not count.
func HorizontalOverlap(a, b Rect) bool {
	return a.Left() < b.Right() && b.Left() < a.Right()
}
