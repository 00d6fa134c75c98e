package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// EdgeValue marks an edge pixel in an EdgeMap
const EdgeValue uint8 = 255

// EdgeConfig tunes the blur and the hysteresis thresholds
type EdgeConfig struct {
	BlurKernel    int // odd, e.g. 3 for a 3x3 kernel
	LowThreshold  float32
	HighThreshold float32
}

// DefaultEdgeConfig returns recommended settings
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		BlurKernel:    3,
		LowThreshold:  50,
		HighThreshold: 150,
	}
}

// EdgeMap is a binary single-channel image: every pixel is 0 or 255.
type EdgeMap struct {
	img *image.Gray
}

// NewEdgeMap creates an all-zero edge map
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{img: image.NewGray(image.Rect(0, 0, width, height))}
}

// EdgeMapFromGray wraps an existing grayscale image
func EdgeMapFromGray(img *image.Gray) *EdgeMap {
	return &EdgeMap{img: img}
}

// Width returns the number of columns
func (e *EdgeMap) Width() int {
	return e.img.Rect.Dx()
}

// Height returns the number of rows
func (e *EdgeMap) Height() int {
	return e.img.Rect.Dy()
}

// IsEdge reports whether the pixel at (row, col) is an edge
func (e *EdgeMap) IsEdge(row, col int) bool {
	return e.At(row, col) == EdgeValue
}

// At returns the raw value at (row, col)
func (e *EdgeMap) At(row, col int) uint8 {
	return e.img.GrayAt(e.img.Rect.Min.X+col, e.img.Rect.Min.Y+row).Y
}

// Set writes the value at (row, col)
func (e *EdgeMap) Set(row, col int, v uint8) {
	e.img.Pix[e.img.PixOffset(e.img.Rect.Min.X+col, e.img.Rect.Min.Y+row)] = v
}

// Blank zeroes every pixel inside the box, clipped to the map
func (e *EdgeMap) Blank(box BoundingBox) {
	r := box.Rect().Intersect(image.Rect(0, 0, e.Width(), e.Height()))
	for row := r.Min.Y; row < r.Max.Y; row++ {
		for col := r.Min.X; col < r.Max.X; col++ {
			e.Set(row, col, 0)
		}
	}
}

// Gray exposes the backing image
func (e *EdgeMap) Gray() *image.Gray {
	return e.img
}

// ExtractEdges blurs the frame, runs Canny and removes the object's own
// outline so it cannot be taken for a platform edge.
func ExtractEdges(frame *Frame, box BoundingBox, cfg EdgeConfig) (*EdgeMap, error) {
	if cfg.BlurKernel < 1 || cfg.BlurKernel%2 == 0 {
		return nil, fmt.Errorf("blur kernel must be a positive odd number, got %d", cfg.BlurKernel)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(frame.mat, &blurred, image.Pt(cfg.BlurKernel, cfg.BlurKernel), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, cfg.LowThreshold, cfg.HighThreshold)

	width, height := edges.Cols(), edges.Rows()
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}

	// Canny output is a fresh continuous CV_8UC1 matrix
	img := &image.Gray{
		Pix:    edges.ToBytes(),
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}

	edgeMap := EdgeMapFromGray(img)
	edgeMap.Blank(box)
	return edgeMap, nil
}
