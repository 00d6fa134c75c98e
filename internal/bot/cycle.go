package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"jordanella.com/autojump-go/internal/adb"
	"jordanella.com/autojump-go/internal/cv"
)

// CycleResult describes one completed cycle
type CycleResult struct {
	ID          string
	Measurement *cv.Measurement
	DurationMs  int // mapped duration, may be below 1
	PressMs     int // duration actually dispatched, at least 1
	PressPoint  adb.Point
	Pressed     bool
	DebugImage  string
}

// Main bot loop implementation
func (b *Bot) runCycle(ctx context.Context) (*CycleResult, error) {
	id := uuid.NewString()
	logger := b.logger.WithContext(map[string]interface{}{"cycle": id[:8]})
	logger.Debug("Start detecting")

	frame, err := b.capturer.CaptureFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	defer frame.Close()

	m, edges, err := b.detector.MeasureWithEdges(frame)
	result := &CycleResult{ID: id, Measurement: m}
	if b.opts.DebugDir != "" && edges != nil {
		path, dumpErr := b.dumpDebug(id, edges, m)
		if dumpErr != nil {
			logger.WarnWithContext("Debug dump failed", map[string]interface{}{
				"dir":   b.opts.DebugDir,
				"error": dumpErr.Error(),
			})
		}
		result.DebugImage = path
	}
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}

	result.DurationMs = b.mapper.Duration(m.Distance)
	// adb rejects presses shorter than 1ms
	result.PressMs = max(result.DurationMs, 1)
	result.PressPoint = b.pressPoint()
	logger.InfoWithContext("Jump measured", map[string]interface{}{
		"distance": fmt.Sprintf("%.2f", m.Distance),
		"duration": result.DurationMs,
	})

	if b.presser == nil {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.presser.Press(ctx, result.PressPoint, result.PressMs); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &pressError{err: err}
	}
	result.Pressed = true
	return result, nil
}

// dumpDebug writes the cycle's edge map with the detection drawn on it
func (b *Bot) dumpDebug(id string, edges *cv.EdgeMap, m *cv.Measurement) (string, error) {
	if err := os.MkdirAll(b.opts.DebugDir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.png", time.Now().Format("20060102_150405"), id[:8])
	path := filepath.Join(b.opts.DebugDir, name)
	if err := cv.WriteDebugImage(path, edges, m); err != nil {
		return "", err
	}
	return path, nil
}
