package throttle

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/benbjohnson/clock"
	"github.com/sethvargo/go-retry"
)

// ErrorClass decides how the retry policy treats a failure.
type ErrorClass int

const (
	// Permanent errors are returned immediately.
	Permanent ErrorClass = iota
	// RateLimited errors back off exponentially up to MaxRetries.
	RateLimited
	// Transient errors are retried once after a fixed delay.
	Transient
)

func (c ErrorClass) String() string {
	switch c {
	case RateLimited:
		return "rate-limited"
	case Transient:
		return "transient"
	default:
		return "permanent"
	}
}

// RetryPolicy retries an operation according to the class of its error.
type RetryPolicy struct {
	MaxRetries     int
	RateLimitBase  time.Duration
	TransientDelay time.Duration
	Classify       func(error) ErrorClass
	Clock          clock.Clock
}

// NewRetryPolicy returns the default policy: rate-limited calls back off
// 1s, 2s, 4s and so on up to maxRetries, other transient failures get one
// retry after 1s.
func NewRetryPolicy(maxRetries int, classify func(error) ErrorClass, clk clock.Clock) RetryPolicy {
	if clk == nil {
		clk = clock.New()
	}
	return RetryPolicy{
		MaxRetries:     maxRetries,
		RateLimitBase:  time.Second,
		TransientDelay: time.Second,
		Classify:       classify,
		Clock:          clk,
	}
}

// Do runs op until it succeeds, fails permanently or exhausts its retries.
// Exhausted rate-limit retries are reported as domain.ErrRateLimitExceeded.
func (p RetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	rateLimited := retry.WithMaxRetries(uint64(max(p.MaxRetries, 0)), retry.NewExponential(positive(p.RateLimitBase)))
	transient := retry.WithMaxRetries(1, retry.NewConstant(positive(p.TransientDelay)))
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		class := p.classify(err)
		var backoff retry.Backoff
		switch class {
		case RateLimited:
			backoff = rateLimited
		case Transient:
			backoff = transient
		default:
			return err
		}

		delay, stop := backoff.Next()
		if stop {
			if class == RateLimited {
				return fmt.Errorf("%w after %d retries: %w", domain.ErrRateLimitExceeded, p.MaxRetries, err)
			}
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		log.Printf("retry: %s error on attempt %d, sleeping %s: %v", class, attempt, delay, err)
		clk.Sleep(delay)
	}
}

func (p RetryPolicy) classify(err error) ErrorClass {
	if p.Classify == nil {
		return Permanent
	}
	return p.Classify(err)
}

func positive(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	return d
}
