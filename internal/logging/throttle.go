package logging

import (
	"sync"
	"time"

	"github.com/juju/ratelimit"
)

// Throttle limits how often a repeating log line is emitted. Lines over
// the limit are counted and reported with the next line that gets through.
type Throttle struct {
	bucket     *ratelimit.Bucket
	mu         sync.Mutex
	suppressed int
}

// NewThrottle allows burst lines immediately and one more every interval.
func NewThrottle(interval time.Duration, burst int64) *Throttle {
	return &Throttle{bucket: ratelimit.NewBucket(interval, burst)}
}

func newThrottleWithClock(interval time.Duration, burst int64, clock ratelimit.Clock) *Throttle {
	return &Throttle{bucket: ratelimit.NewBucketWithClock(interval, burst, clock)}
}

// Allow reports whether the caller may log now, and how many lines were
// dropped since the last allowed one.
func (t *Throttle) Allow() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bucket.TakeAvailable(1) == 0 {
		t.suppressed++
		return false, 0
	}
	dropped := t.suppressed
	t.suppressed = 0
	return true, dropped
}
