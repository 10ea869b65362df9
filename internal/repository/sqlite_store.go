package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pomodoro/tracker/internal/model"
)

// SQLiteStore persists the record across the settings, tags and shop_items
// tables, and keeps the session history and closed daily buckets.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (r *SQLiteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

func (r *SQLiteStore) Load(ctx context.Context) (model.Record, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return model.Record{}, err
	}
	defer tx.Rollback()

	record := model.Record{}
	var currentTag sql.NullString
	err = tx.QueryRowContext(
		ctx,
		`SELECT points, theme, work_time, break_time, long_break_time,
		        sessions_before_long_break, current_tag
		 FROM settings WHERE id = 1`,
	).Scan(
		&record.Points,
		&record.Theme,
		&record.WorkTime,
		&record.BreakTime,
		&record.LongBreakTime,
		&record.SessionsBeforeLongBreak,
		&currentTag,
	)
	if err == sql.ErrNoRows {
		return model.Record{}, ErrNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("scan settings: %w", err)
	}
	if currentTag.Valid {
		record.CurrentTag = currentTag.String
	}

	record.Tags, err = r.listTagsTx(ctx, tx)
	if err != nil {
		return model.Record{}, err
	}
	record.ShopItems, err = r.listShopItemsTx(ctx, tx)
	if err != nil {
		return model.Record{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return model.Record{}, fmt.Errorf("commit load: %w", commitErr)
	}
	return record, nil
}

// Save overwrites the whole record in one transaction.
func (r *SQLiteStore) Save(ctx context.Context, record model.Record) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var currentTag interface{}
	if record.CurrentTag != "" {
		currentTag = record.CurrentTag
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO settings (
			id, points, theme, work_time, break_time, long_break_time,
			sessions_before_long_break, current_tag, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			points = excluded.points,
			theme = excluded.theme,
			work_time = excluded.work_time,
			break_time = excluded.break_time,
			long_break_time = excluded.long_break_time,
			sessions_before_long_break = excluded.sessions_before_long_break,
			current_tag = excluded.current_tag,
			updated_at = excluded.updated_at`,
		record.Points,
		record.Theme,
		record.WorkTime,
		record.BreakTime,
		record.LongBreakTime,
		record.SessionsBeforeLongBreak,
		currentTag,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tags`); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for i, tag := range record.Tags {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO tags (position, name, color) VALUES (?, ?, ?)`,
			i, tag.Name, tag.Color,
		); err != nil {
			return fmt.Errorf("insert tag %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shop_items`); err != nil {
		return fmt.Errorf("clear shop items: %w", err)
	}
	for i, item := range record.ShopItems {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO shop_items (position, name, cost, description) VALUES (?, ?, ?, ?)`,
			i, item.Name, item.Cost, item.Description,
		); err != nil {
			return fmt.Errorf("insert shop item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (r *SQLiteStore) AppendSession(ctx context.Context, entry model.SessionEntry) error {
	var tag interface{}
	if entry.Tag != "" {
		tag = entry.Tag
	}
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, phase, seconds, tag, completed_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Phase),
		entry.Seconds,
		tag,
		formatTime(entry.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]model.SessionEntry, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, phase, seconds, tag, completed_at
		 FROM sessions
		 ORDER BY completed_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.SessionEntry, 0, limit)
	for rows.Next() {
		entry, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// SaveDailyStats adds bucket to the stored totals for its date. A date can
// be flushed more than once when the process restarts during the day.
func (r *SQLiteStore) SaveDailyStats(ctx context.Context, bucket model.StatsBucket) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO daily_stats (date, pomodoros, work_seconds, break_seconds)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			pomodoros = pomodoros + excluded.pomodoros,
			work_seconds = work_seconds + excluded.work_seconds,
			break_seconds = break_seconds + excluded.break_seconds`,
		bucket.Date,
		bucket.Pomodoros,
		bucket.WorkSeconds,
		bucket.BreakSeconds,
	)
	if err != nil {
		return fmt.Errorf("save daily stats %s: %w", bucket.Date, err)
	}
	return nil
}

func (r *SQLiteStore) ListDailyStats(ctx context.Context, limit int) ([]model.StatsBucket, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT date, pomodoros, work_seconds, break_seconds
		 FROM daily_stats
		 ORDER BY date DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}
	defer rows.Close()

	buckets := make([]model.StatsBucket, 0, limit)
	for rows.Next() {
		var b model.StatsBucket
		if err := rows.Scan(&b.Date, &b.Pomodoros, &b.WorkSeconds, &b.BreakSeconds); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return buckets, nil
}

func (r *SQLiteStore) listTagsTx(ctx context.Context, tx *sql.Tx) ([]model.Tag, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name, color FROM tags ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.Name, &tag.Color); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

func (r *SQLiteStore) listShopItemsTx(ctx context.Context, tx *sql.Tx) ([]model.ShopItem, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name, cost, description FROM shop_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list shop items: %w", err)
	}
	defer rows.Close()

	items := []model.ShopItem{}
	for rows.Next() {
		var item model.ShopItem
		if err := rows.Scan(&item.Name, &item.Cost, &item.Description); err != nil {
			return nil, fmt.Errorf("scan shop item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shop items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(s scanner) (*model.SessionEntry, error) {
	entry := model.SessionEntry{}
	var phase string
	var tag sql.NullString
	var completedAt string
	err := s.Scan(
		&entry.ID,
		&phase,
		&entry.Seconds,
		&tag,
		&completedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	entry.Phase = model.Phase(phase)
	if tag.Valid {
		entry.Tag = tag.String
	}

	parsed, err := parseTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session completed_at: %w", err)
	}
	entry.CompletedAt = parsed
	return &entry, nil
}
