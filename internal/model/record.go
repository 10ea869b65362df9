package model

// Record is the persisted snapshot of everything that survives a restart.
// Timer progress and statistics are not part of it.
type Record struct {
	Tags                    []Tag      `json:"tags"`
	ShopItems               []ShopItem `json:"shopItems"`
	Points                  int        `json:"points"`
	Theme                   string     `json:"theme"`
	WorkTime                int        `json:"workTime"`
	BreakTime               int        `json:"breakTime"`
	LongBreakTime           int        `json:"longBreakTime"`
	SessionsBeforeLongBreak int        `json:"sessionsBeforeLongBreak"`
	CurrentTag              string     `json:"currentTag,omitempty"`
}

func DefaultRecord() Record {
	cfg := DefaultSessionConfig()
	return Record{
		Tags:                    DefaultTags(),
		ShopItems:               DefaultShopItems(),
		Points:                  0,
		Theme:                   DefaultTheme,
		WorkTime:                cfg.WorkDuration,
		BreakTime:               cfg.BreakDuration,
		LongBreakTime:           cfg.LongBreakDuration,
		SessionsBeforeLongBreak: cfg.SessionsBeforeLongBreak,
		CurrentTag:              DefaultCurrentTag,
	}
}

func (r Record) SessionConfig() SessionConfig {
	return SessionConfig{
		WorkDuration:            r.WorkTime,
		BreakDuration:           r.BreakTime,
		LongBreakDuration:       r.LongBreakTime,
		SessionsBeforeLongBreak: r.SessionsBeforeLongBreak,
	}
}
