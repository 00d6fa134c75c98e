package cv

import (
	"errors"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// Frame is one captured screen image. It owns an OpenCV matrix and must
// be closed by whoever created it.
type Frame struct {
	mat gocv.Mat
}

// LoadFrame reads a color frame from a local image file
func LoadFrame(path string) (*Frame, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &CaptureUnavailableError{Path: path, Err: err}
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, &CaptureUnavailableError{Path: path, Err: errors.New("file is not a readable image")}
	}
	return &Frame{mat: mat}, nil
}

// DecodeFrame decodes an encoded (PNG/JPEG) image held in memory
func DecodeFrame(data []byte) (*Frame, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, &CaptureUnavailableError{Err: err}
	}
	if mat.Empty() {
		mat.Close()
		return nil, &CaptureUnavailableError{Err: errors.New("buffer is not a readable image")}
	}
	return &Frame{mat: mat}, nil
}

// NewFrameFromImage converts a Go image into a frame. *image.Gray input
// yields a single-channel frame, anything else a 3-channel BGR frame.
func NewFrameFromImage(img image.Image) (*Frame, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	var (
		mat gocv.Mat
		err error
	)
	if gray, ok := img.(*image.Gray); ok {
		mat, err = gocv.ImageGrayToMatGray(gray)
	} else {
		mat, err = gocv.ImageToMatRGB(img)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	return &Frame{mat: mat}, nil
}

// Width returns the frame width in pixels
func (f *Frame) Width() int {
	return f.mat.Cols()
}

// Height returns the frame height in pixels
func (f *Frame) Height() int {
	return f.mat.Rows()
}

// Channels returns the number of color channels
func (f *Frame) Channels() int {
	return f.mat.Channels()
}

// IsGray reports whether the frame already is grayscale (exactly one channel)
func (f *Frame) IsGray() bool {
	return f.Channels() == 1
}

// Close releases the underlying matrix
func (f *Frame) Close() error {
	return f.mat.Close()
}
