package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pomodoro/tracker/internal/catalog"
	"pomodoro/tracker/internal/clock"
	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/metrics"
	"pomodoro/tracker/internal/model"
	"pomodoro/tracker/internal/repository"
	"pomodoro/tracker/internal/rewards"
	"pomodoro/tracker/internal/stats"
	"pomodoro/tracker/internal/theme"
	"pomodoro/tracker/internal/timer"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Store loads and saves the persisted record.
type Store interface {
	Load(ctx context.Context) (model.Record, error)
	Save(ctx context.Context, record model.Record) error
}

// HistoryStore is implemented by stores that also keep completed sessions
// and closed daily buckets.
type HistoryStore interface {
	AppendSession(ctx context.Context, entry model.SessionEntry) error
	ListSessions(ctx context.Context, limit int) ([]model.SessionEntry, error)
	SaveDailyStats(ctx context.Context, bucket model.StatsBucket) error
	ListDailyStats(ctx context.Context, limit int) ([]model.StatsBucket, error)
}

// PomodoroService owns the timer, statistics, ledger and catalogs. Every
// mutation happens under one mutex, and the record is saved before the
// mutation returns so saves land in mutation order.
type PomodoroService struct {
	mu      sync.Mutex
	store   Store
	history HistoryStore
	clock   clock.Clock
	logger  zerolog.Logger

	machine *timer.Machine
	stats   *stats.Accumulator
	ledger  *rewards.Ledger
	catalog *catalog.Catalog

	warning string
	closed  bool
}

type StateView struct {
	Phase                        model.Phase         `json:"phase"`
	Remaining                    int                 `json:"remaining"`
	RemainingText                string              `json:"remainingText"`
	Running                      bool                `json:"running"`
	CompletedWorkSessionsInCycle int                 `json:"completedWorkSessionsInCycle"`
	TotalPomodoros               int                 `json:"totalPomodoros"`
	Config                       model.SessionConfig `json:"config"`
	Points                       int                 `json:"points"`
	Theme                        string              `json:"theme"`
	Palette                      theme.Palette       `json:"palette"`
	CurrentTag                   string              `json:"currentTag,omitempty"`
	Warning                      string              `json:"warning,omitempty"`
}

type StatsView struct {
	Daily                        model.StatsBucket `json:"daily"`
	TotalPomodoros               int               `json:"totalPomodoros"`
	CompletedWorkSessionsInCycle int               `json:"completedWorkSessionsInCycle"`
}

// SettingsInput carries the settings to change. Nil fields are left alone.
type SettingsInput struct {
	WorkDuration            *int `json:"workDuration"`
	BreakDuration           *int `json:"breakDuration"`
	LongBreakDuration       *int `json:"longBreakDuration"`
	SessionsBeforeLongBreak *int `json:"sessionsBeforeLongBreak"`
}

// NewPomodoroService loads the persisted record and builds the aggregate
// from it. A missing or unreadable record is replaced by defaults.
func NewPomodoroService(ctx context.Context, store Store, c clock.Clock, logger zerolog.Logger) *PomodoroService {
	if c == nil {
		c = clock.RealClock{}
	}
	s := &PomodoroService{
		store:  store,
		clock:  c,
		logger: logger.With().Str("component", "service").Logger(),
	}
	if h, ok := store.(HistoryStore); ok {
		s.history = h
	}

	record := s.loadRecord(ctx)
	s.machine = timer.New(record.SessionConfig())
	s.stats = stats.NewAccumulator(c)
	s.ledger = rewards.NewLedger(record.Points, record.ShopItems)
	s.catalog = catalog.New(record.Tags, record.CurrentTag, record.Theme)
	s.observe()
	return s
}

func (s *PomodoroService) loadRecord(ctx context.Context) model.Record {
	record, err := s.store.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info().Msg("No saved data, starting from defaults")
		return model.DefaultRecord()
	}
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("load").Inc()
		s.logger.Warn().Err(err).Msg("Saved data unreadable, starting from defaults")
		return model.DefaultRecord()
	}
	if record.SessionsBeforeLongBreak < 1 {
		s.logger.Warn().Int("value", record.SessionsBeforeLongBreak).Msg("Invalid sessionsBeforeLongBreak in saved data, using default")
		record.SessionsBeforeLongBreak = model.DefaultSessionsBeforeLongBreak
	}
	return record
}

func (s *PomodoroService) Snapshot() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *PomodoroService) Start(ctx context.Context) (StateView, error) {
	return s.timerOp(func() { s.machine.Start() })
}

func (s *PomodoroService) Pause(ctx context.Context) (StateView, error) {
	return s.timerOp(func() { s.machine.Pause() })
}

func (s *PomodoroService) Toggle(ctx context.Context) (StateView, error) {
	return s.timerOp(func() { s.machine.Toggle() })
}

func (s *PomodoroService) Reset(ctx context.Context) (StateView, error) {
	return s.timerOp(func() { s.machine.Reset() })
}

func (s *PomodoroService) timerOp(op func()) (StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return StateView{}, errClosed()
	}
	op()
	s.observe()
	return s.view(), nil
}

// Tick advances the timer by one second. Failures while recording a
// completion are logged and surfaced as a warning; they never stop the
// timer.
func (s *PomodoroService) Tick(ctx context.Context) StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.view()
	}
	if c := s.machine.Tick(); c != nil {
		s.applyCompletion(ctx, c)
	}
	s.observe()
	return s.view()
}

func (s *PomodoroService) applyCompletion(ctx context.Context, c *timer.Completion) {
	metrics.PhaseCompletionsTotal.WithLabelValues(string(c.Phase)).Inc()

	if c.Pomodoro() {
		s.stats.RecordPomodoro()
		s.stats.Record(stats.KindWork, c.Seconds)
		if err := s.ledger.Award(model.PointsPerPomodoro); err != nil {
			s.logger.Error().Err(err).Msg("Failed to award points")
		} else {
			metrics.PointsAwardedTotal.Add(model.PointsPerPomodoro)
		}
	} else {
		s.stats.Record(stats.KindBreak, c.Seconds)
	}

	s.logger.Info().
		Str("phase", string(c.Phase)).
		Str("next", string(c.Next)).
		Int("seconds", c.Seconds).
		Int("points", s.ledger.Points()).
		Msg("Phase completed")

	s.appendHistory(ctx, model.SessionEntry{
		ID:          uuid.NewString(),
		Phase:       c.Phase,
		Seconds:     c.Seconds,
		Tag:         s.catalog.CurrentTag(),
		CompletedAt: s.clock.Now().UTC(),
	})
	s.flushClosedBuckets(ctx)
	s.persist(ctx)
}

func (s *PomodoroService) appendHistory(ctx context.Context, entry model.SessionEntry) {
	if s.history == nil {
		return
	}
	if err := s.history.AppendSession(ctx, entry); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("history").Inc()
		s.logger.Warn().Err(err).Str("session_id", entry.ID).Msg("Failed to record session history")
	}
}

func (s *PomodoroService) flushClosedBuckets(ctx context.Context) {
	closed := s.stats.DrainClosed()
	if s.history == nil {
		return
	}
	_ = s.saveBuckets(ctx, closed)
}

// saveBuckets stores each bucket in the history store. Buckets that fail
// are requeued for the next flush; the last error is returned.
func (s *PomodoroService) saveBuckets(ctx context.Context, buckets []model.StatsBucket) error {
	var lastErr error
	for _, bucket := range buckets {
		if err := s.history.SaveDailyStats(ctx, bucket); err != nil {
			metrics.PersistenceErrorsTotal.WithLabelValues("daily_stats").Inc()
			s.logger.Warn().Err(err).Str("date", bucket.Date).Msg("Failed to save daily stats")
			s.stats.Requeue(bucket)
			lastErr = err
		}
	}
	return lastErr
}

// UpdateSettings applies any subset of the session settings. All values
// are checked before any is applied.
func (s *PomodoroService) UpdateSettings(ctx context.Context, input SettingsInput) (StateView, error) {
	if input.SessionsBeforeLongBreak != nil && *input.SessionsBeforeLongBreak < 1 {
		return StateView{}, apperrors.InvalidArgument(fmt.Sprintf(
			"sessions before long break must be at least 1, got %d", *input.SessionsBeforeLongBreak))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return StateView{}, errClosed()
	}

	if input.WorkDuration != nil {
		s.machine.SetWorkDuration(*input.WorkDuration)
	}
	if input.BreakDuration != nil {
		s.machine.SetBreakDuration(*input.BreakDuration)
	}
	if input.LongBreakDuration != nil {
		s.machine.SetLongBreakDuration(*input.LongBreakDuration)
	}
	if input.SessionsBeforeLongBreak != nil {
		if err := s.machine.SetSessionsBeforeLongBreak(*input.SessionsBeforeLongBreak); err != nil {
			return StateView{}, err
		}
	}

	s.logger.Debug().Interface("config", s.machine.Config()).Msg("Settings updated")
	s.persist(ctx)
	s.observe()
	return s.view(), nil
}

func (s *PomodoroService) SetWorkDuration(ctx context.Context, seconds int) (StateView, error) {
	return s.UpdateSettings(ctx, SettingsInput{WorkDuration: &seconds})
}

func (s *PomodoroService) SetBreakDuration(ctx context.Context, seconds int) (StateView, error) {
	return s.UpdateSettings(ctx, SettingsInput{BreakDuration: &seconds})
}

func (s *PomodoroService) SetLongBreakDuration(ctx context.Context, seconds int) (StateView, error) {
	return s.UpdateSettings(ctx, SettingsInput{LongBreakDuration: &seconds})
}

func (s *PomodoroService) SetSessionsBeforeLongBreak(ctx context.Context, n int) (StateView, error) {
	return s.UpdateSettings(ctx, SettingsInput{SessionsBeforeLongBreak: &n})
}

func (s *PomodoroService) Tags() []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Tags()
}

func (s *PomodoroService) AddTag(ctx context.Context, name, color string) (model.Tag, StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Tag{}, StateView{}, errClosed()
	}
	tag, err := s.catalog.AddTag(name, color)
	if err != nil {
		return model.Tag{}, StateView{}, err
	}
	s.persist(ctx)
	return tag, s.view(), nil
}

func (s *PomodoroService) SetCurrentTag(ctx context.Context, name string) (StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return StateView{}, errClosed()
	}
	if err := s.catalog.SetCurrentTag(name); err != nil {
		return StateView{}, err
	}
	s.persist(ctx)
	return s.view(), nil
}

func (s *PomodoroService) ShopItems() []model.ShopItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Items()
}

func (s *PomodoroService) AddShopItem(ctx context.Context, name string, cost int, description string) (model.ShopItem, StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.ShopItem{}, StateView{}, errClosed()
	}
	item, err := s.ledger.AddItem(name, cost, description)
	if err != nil {
		return model.ShopItem{}, StateView{}, err
	}
	s.persist(ctx)
	return item, s.view(), nil
}

// Purchase redeems the shop item at index. The balance check and the
// deduction happen under the service lock.
func (s *PomodoroService) Purchase(ctx context.Context, index int) (model.ShopItem, StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.ShopItem{}, StateView{}, errClosed()
	}
	item, err := s.ledger.Purchase(index)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(purchaseResult(err)).Inc()
		return model.ShopItem{}, StateView{}, err
	}
	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("item", item.Name).Int("cost", item.Cost).Int("points", s.ledger.Points()).Msg("Item purchased")

	s.persist(ctx)
	s.observe()
	return item, s.view(), nil
}

func purchaseResult(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return string(appErr.Code)
	}
	return "error"
}

func (s *PomodoroService) SetTheme(ctx context.Context, name string) (StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return StateView{}, errClosed()
	}
	if err := s.catalog.SetTheme(name); err != nil {
		return StateView{}, err
	}
	s.persist(ctx)
	return s.view(), nil
}

// ImportCatalog appends every tag and shop item from imp. Nothing is
// applied when any entry is invalid.
func (s *PomodoroService) ImportCatalog(ctx context.Context, imp catalog.Import) (StateView, error) {
	if err := imp.Validate(); err != nil {
		return StateView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return StateView{}, errClosed()
	}
	for _, tag := range imp.Tags {
		if _, err := s.catalog.AddTag(tag.Name, tag.Color); err != nil {
			return StateView{}, err
		}
	}
	for _, item := range imp.ShopItems {
		if _, err := s.ledger.AddItem(item.Name, item.Cost, item.Description); err != nil {
			return StateView{}, err
		}
	}
	s.logger.Info().Int("tags", len(imp.Tags)).Int("shop_items", len(imp.ShopItems)).Msg("Catalog imported")
	s.persist(ctx)
	return s.view(), nil
}

func (s *PomodoroService) Stats() StatsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.machine.State()
	return StatsView{
		Daily:                        s.stats.Daily(),
		TotalPomodoros:               state.TotalPomodoros,
		CompletedWorkSessionsInCycle: state.CompletedWorkSessionsInCycle,
	}
}

// History returns the most recent completed sessions, newest first. A
// limit outside 1..200 means 50.
func (s *PomodoroService) History(ctx context.Context, limit int) ([]model.SessionEntry, error) {
	if s.history == nil {
		return nil, apperrors.NotFound("session history is not kept by the configured store")
	}
	limit = clampLimit(limit)
	sessions, err := s.history.ListSessions(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list session history")
		return nil, apperrors.PersistenceUnavailable("failed to get history", err)
	}
	return sessions, nil
}

// DailyHistory returns closed daily buckets, newest first.
func (s *PomodoroService) DailyHistory(ctx context.Context, limit int) ([]model.StatsBucket, error) {
	if s.history == nil {
		return nil, apperrors.NotFound("daily history is not kept by the configured store")
	}
	buckets, err := s.history.ListDailyStats(ctx, clampLimit(limit))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list daily stats")
		return nil, apperrors.PersistenceUnavailable("failed to get daily stats", err)
	}
	return buckets, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxHistoryLimit {
		return defaultHistoryLimit
	}
	return limit
}

// Close stops accepting mutations and saves the record one last time. The
// current daily bucket is handed to the history store when there is one.
// Daily buckets that could not be stored stay queued, and calling Close
// again retries them.
func (s *PomodoroService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed && (s.history == nil || !s.stats.Pending()) {
		return nil
	}
	s.closed = true
	s.machine.Pause()

	var statsErr error
	if s.history != nil {
		statsErr = s.saveBuckets(ctx, s.stats.DrainAll())
	}

	if err := s.store.Save(ctx, s.record()); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("save").Inc()
		s.logger.Error().Err(err).Msg("Final save failed")
		return apperrors.PersistenceUnavailable("save on shutdown", err)
	}
	if statsErr != nil {
		return apperrors.PersistenceUnavailable("save daily stats on shutdown", statsErr)
	}
	s.logger.Info().Msg("State saved on shutdown")
	return nil
}

// persist saves the record. A failure is kept as a warning on the next
// views and cleared by the next successful save.
func (s *PomodoroService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.record()); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("save").Inc()
		s.logger.Warn().Err(err).Msg("Failed to save state")
		s.warning = fmt.Sprintf("changes not saved: %v", err)
		return
	}
	s.warning = ""
}

func (s *PomodoroService) record() model.Record {
	cfg := s.machine.Config()
	return model.Record{
		Tags:                    s.catalog.Tags(),
		ShopItems:               s.ledger.Items(),
		Points:                  s.ledger.Points(),
		Theme:                   s.catalog.Theme(),
		WorkTime:                cfg.WorkDuration,
		BreakTime:               cfg.BreakDuration,
		LongBreakTime:           cfg.LongBreakDuration,
		SessionsBeforeLongBreak: cfg.SessionsBeforeLongBreak,
		CurrentTag:              s.catalog.CurrentTag(),
	}
}

func (s *PomodoroService) observe() {
	metrics.RemainingSeconds.Set(float64(s.machine.State().Remaining))
	metrics.PointsBalance.Set(float64(s.ledger.Points()))
}

func (s *PomodoroService) view() StateView {
	state := s.machine.State()
	palette, _ := theme.Lookup(s.catalog.Theme())
	return StateView{
		Phase:                        state.Phase,
		Remaining:                    state.Remaining,
		RemainingText:                timer.FormatRemaining(state.Remaining),
		Running:                      state.Running,
		CompletedWorkSessionsInCycle: state.CompletedWorkSessionsInCycle,
		TotalPomodoros:               state.TotalPomodoros,
		Config:                       s.machine.Config(),
		Points:                       s.ledger.Points(),
		Theme:                        s.catalog.Theme(),
		Palette:                      palette,
		CurrentTag:                   s.catalog.CurrentTag(),
		Warning:                      s.warning,
	}
}

func errClosed() error {
	return apperrors.Unavailable("service is shutting down")
}
