package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/tracker/internal/db"
	"pomodoro/tracker/internal/model"
	"pomodoro/tracker/internal/repository"
)

type recordStore interface {
	Load(ctx context.Context) (model.Record, error)
	Save(ctx context.Context, record model.Record) error
}

func newSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "pomodoro.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if _, err := db.RunMigrations(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return repository.NewSQLiteStore(database)
}

func stores(t *testing.T) map[string]recordStore {
	t.Helper()
	return map[string]recordStore{
		"file":   repository.NewFileStore(filepath.Join(t.TempDir(), "data", "pomodoro_data.json")),
		"sqlite": newSQLiteStore(t),
	}
}

func sampleRecord() model.Record {
	record := model.DefaultRecord()
	record.Points = 130
	record.Theme = "purple"
	record.WorkTime = 1200
	record.SessionsBeforeLongBreak = 3
	record.Tags = append(record.Tags, model.Tag{Name: "Reading", Color: "ORANGE"})
	record.ShopItems = append(record.ShopItems, model.ShopItem{Name: "Nap", Cost: 0, Description: "Twenty minutes"})
	record.CurrentTag = "Reading"
	return record
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(context.Background())
			require.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleRecord()

			require.NoError(t, store.Save(ctx, want))
			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			want.Points = 0
			want.Tags = want.Tags[:1]
			want.CurrentTag = ""
			require.NoError(t, store.Save(ctx, want))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got, "save overwrites the whole record")
		})
	}
}

func TestFileStoreCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomodoro_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := repository.NewFileStore(path).Load(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestFileStoreFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomodoro_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"points": 40, "breakTime": 120}`), 0o644))

	got, err := repository.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)

	want := model.DefaultRecord()
	want.CurrentTag = ""
	want.Points = 40
	want.BreakTime = 120
	assert.Equal(t, want, got)
}

func TestFileStoreRejectsNullDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomodoro_data.json")
	require.NoError(t, os.WriteFile(path, []byte("null\n"), 0o644))

	_, err := repository.NewFileStore(path).Load(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := repository.NewFileStore(filepath.Join(dir, "pomodoro_data.json"))

	require.NoError(t, store.Save(context.Background(), model.DefaultRecord()))
	require.NoError(t, store.Save(context.Background(), sampleRecord()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pomodoro_data.json", entries[0].Name())
}

func TestFileStoreUsesRecordFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomodoro_data.json")
	require.NoError(t, repository.NewFileStore(path).Save(context.Background(), model.DefaultRecord()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, field := range []string{`"tags"`, `"shopItems"`, `"points"`, `"theme"`, `"workTime"`, `"breakTime"`, `"longBreakTime"`, `"sessionsBeforeLongBreak"`} {
		assert.Contains(t, string(data), field)
	}
}

func TestSessionHistoryNewestFirst(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	entries := []model.SessionEntry{
		{ID: "a", Phase: model.PhaseWork, Seconds: 1500, Tag: "Work", CompletedAt: base},
		{ID: "b", Phase: model.PhaseBreak, Seconds: 300, CompletedAt: base.Add(5 * time.Minute)},
		{ID: "c", Phase: model.PhaseWork, Seconds: 1500, Tag: "Study", CompletedAt: base.Add(30 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.AppendSession(ctx, e))
	}

	got, err := store.ListSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entries[2], got[0])
	assert.Equal(t, entries[1], got[1])
}

func TestDailyStatsAccumulatePerDate(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDailyStats(ctx, model.StatsBucket{Date: "2024-03-01", Pomodoros: 2, WorkSeconds: 3000, BreakSeconds: 300}))
	require.NoError(t, store.SaveDailyStats(ctx, model.StatsBucket{Date: "2024-03-01", Pomodoros: 1, WorkSeconds: 1500}))
	require.NoError(t, store.SaveDailyStats(ctx, model.StatsBucket{Date: "2024-03-02", BreakSeconds: 900}))

	got, err := store.ListDailyStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []model.StatsBucket{
		{Date: "2024-03-02", BreakSeconds: 900},
		{Date: "2024-03-01", Pomodoros: 3, WorkSeconds: 4500, BreakSeconds: 300},
	}, got)
}
