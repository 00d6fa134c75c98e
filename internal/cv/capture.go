package cv

import (
	"context"
)

// Capturer supplies a fresh frame per cycle
type Capturer interface {
	CaptureFrame(ctx context.Context) (*Frame, error)
}

// FileCapturer reads frames from a fixed local file. Used for offline
// measurement of saved screenshots.
type FileCapturer struct {
	Path string
}

// CaptureFrame loads the file as a color frame
func (c *FileCapturer) CaptureFrame(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFrame(c.Path)
}
