package throttle_test

import (
	"time"

	"github.com/benbjohnson/clock"
)

// steppingClock is a mock clock whose Sleep advances time instead of
// blocking, recording every requested duration.
type steppingClock struct {
	*clock.Mock
	slept []time.Duration
}

func newSteppingClock() *steppingClock {
	return &steppingClock{Mock: clock.NewMock()}
}

func (c *steppingClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.Mock.Add(d)
}
