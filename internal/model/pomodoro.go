package model

import "time"

type Phase string

const (
	PhaseWork      Phase = "work"
	PhaseBreak     Phase = "break"
	PhaseLongBreak Phase = "long_break"
)

func (p Phase) Valid() bool {
	return p == PhaseWork || p == PhaseBreak || p == PhaseLongBreak
}

const (
	DefaultWorkDurationSeconds      = 25 * 60
	DefaultBreakDurationSeconds     = 5 * 60
	DefaultLongBreakDurationSeconds = 15 * 60
	DefaultSessionsBeforeLongBreak  = 4

	// PointsPerPomodoro is awarded for every completed work phase.
	PointsPerPomodoro = 10
)

type SessionConfig struct {
	WorkDuration            int `json:"workDuration"`
	BreakDuration           int `json:"breakDuration"`
	LongBreakDuration       int `json:"longBreakDuration"`
	SessionsBeforeLongBreak int `json:"sessionsBeforeLongBreak"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WorkDuration:            DefaultWorkDurationSeconds,
		BreakDuration:           DefaultBreakDurationSeconds,
		LongBreakDuration:       DefaultLongBreakDurationSeconds,
		SessionsBeforeLongBreak: DefaultSessionsBeforeLongBreak,
	}
}

// DurationFor returns the configured length of phase in seconds.
func (c SessionConfig) DurationFor(phase Phase) int {
	switch phase {
	case PhaseBreak:
		return c.BreakDuration
	case PhaseLongBreak:
		return c.LongBreakDuration
	default:
		return c.WorkDuration
	}
}

type TimerState struct {
	Phase                        Phase `json:"phase"`
	Remaining                    int   `json:"remaining"`
	Running                      bool  `json:"running"`
	CompletedWorkSessionsInCycle int   `json:"completedWorkSessionsInCycle"`
	TotalPomodoros               int   `json:"totalPomodoros"`
}

type StatsBucket struct {
	Date         string `json:"date"`
	Pomodoros    int    `json:"pomodoros"`
	WorkSeconds  int    `json:"workSeconds"`
	BreakSeconds int    `json:"breakSeconds"`
}

// SessionEntry is one completed phase in the history log.
type SessionEntry struct {
	ID          string    `json:"id"`
	Phase       Phase     `json:"phase"`
	Seconds     int       `json:"seconds"`
	Tag         string    `json:"tag,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}
