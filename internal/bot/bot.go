package bot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"jordanella.com/autojump-go/internal/adb"
	"jordanella.com/autojump-go/internal/cv"
	"jordanella.com/autojump-go/internal/logging"
)

// Presser dispatches the press-and-hold gesture
type Presser interface {
	Press(ctx context.Context, p adb.Point, durationMs int) error
}

// Measurer runs the measurement pipeline on one frame
type Measurer interface {
	MeasureWithEdges(frame *cv.Frame) (*cv.Measurement, *cv.EdgeMap, error)
}

// Options configures the cycle runner
type Options struct {
	PressArea  adb.Area
	CycleDelay time.Duration
	DebugDir   string // Empty disables the per-cycle debug dump
}

// DefaultOptions returns the settings the game has always been played with
func DefaultOptions() Options {
	return Options{
		PressArea:  adb.Area{MinX: 0, MinY: 600, MaxX: 1000, MaxY: 1500},
		CycleDelay: time.Second,
	}
}

// Core Bot struct definition
type Bot struct {
	capturer cv.Capturer
	detector Measurer
	presser  Presser // nil: measure only
	mapper   *DurationMapper
	opts     Options
	rng      *rand.Rand
	logger   *logging.Logger
	throttle *logging.Throttle
	stats    Stats
	wait     func(ctx context.Context, d time.Duration) error
}

// New creates a bot. presser may be nil for dry runs that only measure.
func New(capturer cv.Capturer, detector Measurer, presser Presser, mapper *DurationMapper, opts Options) *Bot {
	if a := opts.PressArea; a.MaxX <= a.MinX || a.MaxY <= a.MinY {
		opts.PressArea = DefaultOptions().PressArea
	}
	return &Bot{
		capturer: capturer,
		detector: detector,
		presser:  presser,
		mapper:   mapper,
		opts:     opts,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:   logging.NewLogger("Bot"),
		throttle: logging.NewThrottle(30*time.Second, 5),
		wait:     sleepContext,
	}
}

// WithRand replaces the random source used for press locations
func (b *Bot) WithRand(rng *rand.Rand) *Bot {
	b.rng = rng
	return b
}

// Stats returns a snapshot of the cycle counters
func (b *Bot) Stats() Stats {
	return b.stats
}

// Run plays until ctx is cancelled. Failed cycles are logged and retried
// after the cycle delay; only shutdown ends the loop, and that is not an
// error.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.InfoWithContext("Bot started", map[string]interface{}{
		"delay": b.opts.CycleDelay.String(),
	})
	defer func() {
		b.logger.InfoWithContext("Bot stopped", b.stats.fields())
	}()

	for {
		if _, err := b.RunOnce(ctx); err != nil {
			cycleErr := classifyCycleError(err)
			if cycleErr.Action == ActionStop {
				if ctx.Err() != nil {
					return nil
				}
				return cycleErr
			}
			b.reportSkip(cycleErr)
		}

		if err := b.wait(ctx, b.opts.CycleDelay); err != nil {
			return nil
		}
	}
}

// RunOnce performs a single capture, measure, press cycle
func (b *Bot) RunOnce(ctx context.Context) (*CycleResult, error) {
	b.stats.Cycles++
	result, err := b.runCycle(ctx)
	if err != nil {
		b.stats.Skipped++
		return nil, err
	}
	if result.Pressed {
		b.stats.Jumps++
	}
	return result, nil
}

func (b *Bot) reportSkip(cycleErr *CycleError) {
	ok, dropped := b.throttle.Allow()
	if !ok {
		return
	}
	fields := map[string]interface{}{
		"type":   cycleErr.Type.String(),
		"action": cycleErr.Action.String(),
	}
	if dropped > 0 {
		fields["suppressed"] = dropped
	}
	b.logger.ErrorWithContext("Cycle skipped", cycleErr.Err, fields)
}

// pressPoint draws a uniform point inside the press area
func (b *Bot) pressPoint() adb.Point {
	a := b.opts.PressArea
	return adb.Point{
		X: a.MinX + b.rng.IntN(a.MaxX-a.MinX),
		Y: a.MinY + b.rng.IntN(a.MaxY-a.MinY),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Stats counts cycles over the bot's lifetime
type Stats struct {
	Cycles  int
	Jumps   int
	Skipped int
}

func (s Stats) fields() map[string]interface{} {
	return map[string]interface{}{
		"cycles":  s.Cycles,
		"jumps":   s.Jumps,
		"skipped": s.Skipped,
	}
}

// String renders the counters for the final summary line
func (s Stats) String() string {
	return fmt.Sprintf("%d cycles, %d jumps, %d skipped", s.Cycles, s.Jumps, s.Skipped)
}
