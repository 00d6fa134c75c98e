package adb

import (
	"context"

	"jordanella.com/autojump-go/internal/cv"
)

// Default screenshot locations, matching what the game bot has always used
const (
	DefaultRemoteScreenshot = "/sdcard/screenshot.png"
	DefaultLocalScreenshot  = "screenshot.png"
)

// ScreenCapturer captures frames from the device screen via screencap and
// pull. It implements cv.Capturer.
type ScreenCapturer struct {
	ctrl   *Controller
	remote string
	local  string
}

// NewScreenCapturer creates a capturer writing through the given paths
func NewScreenCapturer(ctrl *Controller, remotePath, localPath string) *ScreenCapturer {
	if remotePath == "" {
		remotePath = DefaultRemoteScreenshot
	}
	if localPath == "" {
		localPath = DefaultLocalScreenshot
	}
	return &ScreenCapturer{ctrl: ctrl, remote: remotePath, local: localPath}
}

// LocalPath returns where pulled screenshots land
func (s *ScreenCapturer) LocalPath() string {
	return s.local
}

// CaptureFrame takes a screenshot and loads it as a frame
func (s *ScreenCapturer) CaptureFrame(ctx context.Context) (*cv.Frame, error) {
	if err := s.ctrl.Screenshot(ctx, s.remote, s.local); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &cv.CaptureUnavailableError{Path: s.local, Err: err}
	}
	return cv.LoadFrame(s.local)
}
