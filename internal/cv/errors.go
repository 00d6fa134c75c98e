package cv

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingEdge is returned when the scan band holds no edge pixel
	ErrMissingEdge = errors.New("no edge pixel found in scan band")
	// ErrTemplateTooLarge is returned when the template does not fit the frame
	ErrTemplateTooLarge = errors.New("template larger than frame")
	// ErrEmptyImage is returned for zero-sized frames or templates
	ErrEmptyImage = errors.New("empty image")
)

// DegenerateMatchError reports a best match whose score is below the
// configured minimum confidence.
type DegenerateMatchError struct {
	Confidence    float64
	MinConfidence float64
	Location      Point
}

func (e *DegenerateMatchError) Error() string {
	return fmt.Sprintf("best match at (%d,%d) scored %.3f, below minimum %.3f",
		e.Location.X, e.Location.Y, e.Confidence, e.MinConfidence)
}

// CaptureUnavailableError reports a frame that could not be retrieved or decoded.
type CaptureUnavailableError struct {
	Path string
	Err  error
}

func (e *CaptureUnavailableError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("capture unavailable: %v", e.Err)
	}
	return fmt.Sprintf("capture unavailable (%s): %v", e.Path, e.Err)
}

func (e *CaptureUnavailableError) Unwrap() error {
	return e.Err
}
