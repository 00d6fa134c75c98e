package adb

import (
	"context"
	"fmt"
	"strconv"
)

// Point is a touch coordinate in device pixels
type Point struct {
	X, Y int
}

// Area is a rectangle of device pixels, [MinX,MaxX) × [MinY,MaxY)
type Area struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether p lies inside the area
func (a Area) Contains(p Point) bool {
	return p.X >= a.MinX && p.X < a.MaxX && p.Y >= a.MinY && p.Y < a.MaxY
}

// Shell executes a shell command on the device and returns its output
func (c *Controller) Shell(ctx context.Context, args ...string) (string, error) {
	return c.command(ctx, append([]string{"shell"}, args...)...)
}

// Press holds a touch at (x, y) for duration milliseconds, expressed as a
// zero-length swipe.
func (c *Controller) Press(ctx context.Context, p Point, durationMs int) error {
	if durationMs < 1 {
		return fmt.Errorf("invalid press duration %dms", durationMs)
	}
	x, y := strconv.Itoa(p.X), strconv.Itoa(p.Y)
	_, err := c.Shell(ctx, "input", "swipe", x, y, x, y, strconv.Itoa(durationMs))
	return err
}

// Swipe performs a swipe gesture
func (c *Controller) Swipe(ctx context.Context, from, to Point, durationMs int) error {
	_, err := c.Shell(ctx, "input", "swipe",
		strconv.Itoa(from.X), strconv.Itoa(from.Y),
		strconv.Itoa(to.X), strconv.Itoa(to.Y),
		strconv.Itoa(durationMs))
	return err
}

// Tap performs a tap at the specified coordinates
func (c *Controller) Tap(ctx context.Context, p Point) error {
	_, err := c.Shell(ctx, "input", "tap", strconv.Itoa(p.X), strconv.Itoa(p.Y))
	return err
}

// Mkdir creates a directory (and parents) on the device
func (c *Controller) Mkdir(ctx context.Context, remotePath string) error {
	if _, err := c.Shell(ctx, "mkdir", "-p", remotePath); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	return nil
}

// Push copies a file from local to device
func (c *Controller) Push(ctx context.Context, localPath, remotePath string) error {
	if _, err := c.command(ctx, "push", localPath, remotePath); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

// Pull copies a file from device to local
func (c *Controller) Pull(ctx context.Context, remotePath, localPath string) error {
	if _, err := c.command(ctx, "pull", remotePath, localPath); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	return nil
}

// Screenshot captures the screen to remotePath on the device and pulls it
// to localPath.
func (c *Controller) Screenshot(ctx context.Context, remotePath, localPath string) error {
	if _, err := c.Shell(ctx, "screencap", "-p", remotePath); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := c.Pull(ctx, remotePath, localPath); err != nil {
		return fmt.Errorf("failed to pull screenshot: %w", err)
	}
	return nil
}

// GetWindowSize returns the current window/screen size
func (c *Controller) GetWindowSize(ctx context.Context) (width, height int, err error) {
	output, err := c.Shell(ctx, "wm", "size")
	if err != nil {
		return 0, 0, err
	}

	// "Physical size: 1080x1920", possibly followed by an override line
	var w, h int
	if _, err := fmt.Sscanf(output, "Physical size: %dx%d", &w, &h); err != nil {
		if _, err := fmt.Sscanf(output, "Override size: %dx%d", &w, &h); err != nil {
			return 0, 0, fmt.Errorf("failed to parse window size: %s", output)
		}
	}
	return w, h, nil
}
