package clock

import (
	"sync"
	"time"
)

// Clock provides the current time. Tests swap in a TestClock.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// TestClock returns a fixed time that tests move explicitly.
type TestClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
}

func NewTestClock(t time.Time) *TestClock {
	return &TestClock{CurrentTime: t}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.CurrentTime = c.CurrentTime.Add(d)
	c.mu.Unlock()
}

// DateKey formats t as the daily bucket key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
