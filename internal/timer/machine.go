// Package timer implements the Pomodoro session state machine.
//
// A Machine does no locking and no I/O. The caller serializes access and
// applies the Completion returned by Tick to statistics and rewards.
package timer

import (
	"fmt"

	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/model"
)

// Completion describes a phase that just ran out.
type Completion struct {
	Phase   model.Phase
	Seconds int
	Next    model.Phase
}

// Pomodoro reports whether the completed phase was a work phase.
func (c Completion) Pomodoro() bool {
	return c.Phase == model.PhaseWork
}

type Machine struct {
	cfg   model.SessionConfig
	state model.TimerState
}

// New returns a machine at the start of a work phase, paused.
func New(cfg model.SessionConfig) *Machine {
	m := &Machine{cfg: cfg}
	m.enter(model.PhaseWork)
	return m
}

// Restore rebuilds a machine from a previously captured state. Unknown
// phases fall back to Work and negative values are clamped.
func Restore(cfg model.SessionConfig, state model.TimerState) *Machine {
	if !state.Phase.Valid() {
		state.Phase = model.PhaseWork
		state.Remaining = cfg.WorkDuration
	}
	state.Remaining = clamp(state.Remaining)
	if state.CompletedWorkSessionsInCycle < 0 {
		state.CompletedWorkSessionsInCycle = 0
	}
	if state.TotalPomodoros < 0 {
		state.TotalPomodoros = 0
	}
	return &Machine{cfg: cfg, state: state}
}

func (m *Machine) State() model.TimerState {
	return m.state
}

func (m *Machine) Config() model.SessionConfig {
	return m.cfg
}

func (m *Machine) Start() {
	m.state.Running = true
}

func (m *Machine) Pause() {
	m.state.Running = false
}

func (m *Machine) Toggle() {
	if m.state.Running {
		m.Pause()
		return
	}
	m.Start()
}

// Reset pauses and rewinds the current phase to its full duration.
func (m *Machine) Reset() {
	m.state.Running = false
	m.state.Remaining = clamp(m.cfg.DurationFor(m.state.Phase))
}

// Tick advances the countdown by one second. It returns a non-nil
// Completion when the current phase ran out; the machine is then paused
// at the start of the next phase.
func (m *Machine) Tick() *Completion {
	if !m.state.Running {
		return nil
	}
	m.state.Remaining--
	if m.state.Remaining > 0 {
		return nil
	}
	m.state.Remaining = 0
	c := m.completeSession()
	m.state.Running = false
	return &c
}

func (m *Machine) completeSession() Completion {
	done := m.state.Phase
	c := Completion{Phase: done, Seconds: m.cfg.DurationFor(done)}

	if done == model.PhaseWork {
		m.state.TotalPomodoros++
		m.state.CompletedWorkSessionsInCycle++
		// The cycle counter is never reset; a long break falls on every
		// multiple of SessionsBeforeLongBreak.
		if m.cfg.SessionsBeforeLongBreak > 0 &&
			m.state.CompletedWorkSessionsInCycle%m.cfg.SessionsBeforeLongBreak == 0 {
			c.Next = model.PhaseLongBreak
		} else {
			c.Next = model.PhaseBreak
		}
	} else {
		c.Next = model.PhaseWork
	}

	m.enter(c.Next)
	return c
}

func (m *Machine) enter(phase model.Phase) {
	m.state.Phase = phase
	m.state.Remaining = clamp(m.cfg.DurationFor(phase))
}

func (m *Machine) SetWorkDuration(seconds int) {
	m.cfg.WorkDuration = seconds
	m.resyncIdle(model.PhaseWork)
}

// SetBreakDuration only resyncs a short break; a long break in progress
// keeps its own duration.
func (m *Machine) SetBreakDuration(seconds int) {
	m.cfg.BreakDuration = seconds
	m.resyncIdle(model.PhaseBreak)
}

func (m *Machine) SetLongBreakDuration(seconds int) {
	m.cfg.LongBreakDuration = seconds
	m.resyncIdle(model.PhaseLongBreak)
}

func (m *Machine) SetSessionsBeforeLongBreak(n int) error {
	if n < 1 {
		return apperrors.InvalidArgument(fmt.Sprintf("sessions before long break must be at least 1, got %d", n))
	}
	m.cfg.SessionsBeforeLongBreak = n
	return nil
}

func (m *Machine) resyncIdle(phase model.Phase) {
	if m.state.Running || m.state.Phase != phase {
		return
	}
	m.state.Remaining = clamp(m.cfg.DurationFor(phase))
}

func clamp(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds
}
