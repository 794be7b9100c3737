// Package scheduler owns the periodic task that drives the interview
// countdown. Exactly one task runs per active session; every transition out
// of the active state must release it so repeated interviews never
// accumulate orphaned timers.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultInterval = time.Second

// Clock runs a single cancellable periodic task.
type Clock struct {
	mu       sync.Mutex
	interval time.Duration
	runner   *cron.Cron
}

// New creates a clock firing at the given interval. Cron's @every spec
// rounds sub-second durations up to a full second, so anything below one
// second is clamped to that floor rather than silently firing slower than
// asked for.
func New(interval time.Duration) *Clock {
	if interval < DefaultInterval {
		interval = DefaultInterval
	}
	return &Clock{interval: interval}
}

// Start begins invoking fn once per interval. A previously running task is
// cancelled first, so at most one task is ever live.
func (c *Clock) Start(fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	runner := cron.New()
	if _, err := runner.AddFunc(fmt.Sprintf("@every %s", c.interval), fn); err != nil {
		return fmt.Errorf("schedule periodic task: %w", err)
	}
	runner.Start()
	c.runner = runner

	return nil
}

// Stop cancels the running task. Safe to call repeatedly and on a clock
// that never started.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Running reports whether a task is currently scheduled.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runner != nil
}

func (c *Clock) stopLocked() {
	if c.runner != nil {
		c.runner.Stop()
		c.runner = nil
	}
}
