package layout

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Offset is a 2D point or vector in logical pixels.
type Offset struct {
	X float64
	Y float64
}

// Size is a width and height in logical pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle in window coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the height of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Size returns the size of the rectangle.
func (r Rect) Size() Size { return Size{Width: r.Width(), Height: r.Height()} }

// Center returns the center point of the rectangle.
func (r Rect) Center() Offset {
	return Offset{X: (r.Left + r.Right) * 0.5, Y: (r.Top + r.Bottom) * 0.5}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent boxes never both contain a point.
func (r Rect) Contains(p Offset) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Translate returns a new rect offset by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersect returns the overlap of two rectangles, or an empty rect.
func (r Rect) Intersect(other Rect) Rect {
	left := math.Max(r.Left, other.Left)
	top := math.Max(r.Top, other.Top)
	right := math.Min(r.Right, other.Right)
	bottom := math.Min(r.Bottom, other.Bottom)
	if left >= right || top >= bottom {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Union returns the smallest rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Equal reports whether two rects match within epsilon.
func (r Rect) Equal(other Rect) bool {
	return floatEqual(r.Left, other.Left) && floatEqual(r.Top, other.Top) &&
		floatEqual(r.Right, other.Right) && floatEqual(r.Bottom, other.Bottom)
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
