package throttle

import (
	"context"
	"log"
	"time"

	"github.com/benbjohnson/clock"
)

// Stats are diagnostic counters for the limiter.
type Stats struct {
	Calls  int           `json:"calls"`
	Waited time.Duration `json:"waited"`
}

// Limiter enforces a minimum interval between outbound calls. It is created
// once per run and is not safe for concurrent use.
type Limiter struct {
	clock    clock.Clock
	interval time.Duration
	last     time.Time
	stats    Stats
}

// NewLimiter returns a limiter allowing rate calls per second. A rate of
// zero or less disables throttling.
func NewLimiter(rate float64, clk clock.Clock) *Limiter {
	if clk == nil {
		clk = clock.New()
	}
	var interval time.Duration
	if rate > 0 {
		interval = time.Duration(float64(time.Second) / rate)
	}
	return &Limiter{clock: clk, interval: interval}
}

// Wait blocks until the minimum interval since the previous call has
// elapsed, then records the current call.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.stats.Calls++
	if l.interval > 0 && !l.last.IsZero() {
		if d := l.interval - l.clock.Since(l.last); d > 0 {
			log.Printf("rate limit: waiting %s", d)
			l.clock.Sleep(d)
			l.stats.Waited += d
		}
	}
	l.last = l.clock.Now()
	return nil
}

// Stats returns the counters accumulated so far.
func (l *Limiter) Stats() Stats {
	return l.stats
}
