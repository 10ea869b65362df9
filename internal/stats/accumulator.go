// Package stats accumulates completed pomodoros and work/break time into a
// daily bucket.
package stats

import (
	"pomodoro/tracker/internal/clock"
	"pomodoro/tracker/internal/model"
)

type Kind string

const (
	KindWork  Kind = "work"
	KindBreak Kind = "break"
)

// Accumulator holds the bucket for the current day. It only ever adds.
//
// When a record arrives on a later date than the bucket's, the bucket is
// closed and a fresh one started. Weekly and monthly rollups are not
// derived from closed buckets; callers that want them keep the closed
// buckets themselves.
type Accumulator struct {
	clock  clock.Clock
	daily  model.StatsBucket
	closed []model.StatsBucket
}

func NewAccumulator(c clock.Clock) *Accumulator {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Accumulator{
		clock: c,
		daily: model.StatsBucket{Date: clock.DateKey(c.Now())},
	}
}

// Record adds seconds to the work or break counter.
func (a *Accumulator) Record(kind Kind, seconds int) {
	if seconds <= 0 {
		return
	}
	a.rollover()
	switch kind {
	case KindWork:
		a.daily.WorkSeconds += seconds
	case KindBreak:
		a.daily.BreakSeconds += seconds
	}
}

func (a *Accumulator) RecordPomodoro() {
	a.rollover()
	a.daily.Pomodoros++
}

// Daily returns a copy of today's bucket. A bucket left over from an
// earlier day reads as empty until the next record closes it.
func (a *Accumulator) Daily() model.StatsBucket {
	today := clock.DateKey(a.clock.Now())
	if today != a.daily.Date {
		return model.StatsBucket{Date: today}
	}
	return a.daily
}

// DrainClosed returns buckets closed by date rollover since the last call.
func (a *Accumulator) DrainClosed() []model.StatsBucket {
	if len(a.closed) == 0 {
		return nil
	}
	out := a.closed
	a.closed = nil
	return out
}

// DrainAll closes the current bucket too, then drains. Used at shutdown.
func (a *Accumulator) DrainAll() []model.StatsBucket {
	a.rollover()
	if !empty(a.daily) {
		a.closed = append(a.closed, a.daily)
	}
	a.daily = model.StatsBucket{Date: a.daily.Date}
	return a.DrainClosed()
}

// Requeue returns closed buckets that could not be stored, so the next
// drain hands them out again.
func (a *Accumulator) Requeue(buckets ...model.StatsBucket) {
	a.closed = append(a.closed, buckets...)
}

// Pending reports whether closed buckets are waiting to be drained.
func (a *Accumulator) Pending() bool {
	return len(a.closed) > 0
}

func (a *Accumulator) rollover() {
	today := clock.DateKey(a.clock.Now())
	if today == a.daily.Date {
		return
	}
	if !empty(a.daily) {
		a.closed = append(a.closed, a.daily)
	}
	a.daily = model.StatsBucket{Date: today}
}

func empty(b model.StatsBucket) bool {
	return b.Pomodoros == 0 && b.WorkSeconds == 0 && b.BreakSeconds == 0
}
