package cv

import (
	"image"
	"math"
)

// Point is an image coordinate: X is the column, Y the row.
type Point struct {
	X, Y int
}

// BoundingBox locates the object within a frame. X2/Y2 are exclusive.
type BoundingBox struct {
	X1, Y1, X2, Y2 int
}

// NewBoundingBox creates a box of the given size anchored at topLeft
func NewBoundingBox(topLeft Point, width, height int) BoundingBox {
	return BoundingBox{
		X1: topLeft.X,
		Y1: topLeft.Y,
		X2: topLeft.X + width,
		Y2: topLeft.Y + height,
	}
}

// TopLeft returns the top-left corner
func (b BoundingBox) TopLeft() Point {
	return Point{X: b.X1, Y: b.Y1}
}

// BottomRight returns the bottom-right corner
func (b BoundingBox) BottomRight() Point {
	return Point{X: b.X2, Y: b.Y2}
}

// Width returns the width of the box
func (b BoundingBox) Width() int {
	return b.X2 - b.X1
}

// Height returns the height of the box
func (b BoundingBox) Height() int {
	return b.Y2 - b.Y1
}

// Contains checks if a point is within the box
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X1 && p.X < b.X2 && p.Y >= b.Y1 && p.Y < b.Y2
}

// LaunchPoint is the horizontal middle of the box at its bottom edge
func (b BoundingBox) LaunchPoint() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: b.Y2}
}

// Rect converts the box to an image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
