package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kaiwa-bot/api/internal/hint"

	"github.com/Masterminds/squirrel"
)

// HintRepo caches generated hints per (context_hash, engine, model, level).
type HintRepo struct {
	q Querier
}

func NewHintRepo(q Querier) *HintRepo {
	return &HintRepo{q: q}
}

// Find returns the cached hints for the key. If maxAge > 0 and the record is
// older, or the stored JSON is broken, it reports ErrNotFound so the caller
// regenerates.
func (r *HintRepo) Find(ctx context.Context, contextHash, engine, model string, level int, maxAge time.Duration) ([]hint.Hint, error) {
	sql, args, err := builder().
		Select("hints_json", "created_at").
		From("hints_cache").
		Where(squirrel.Eq{
			"context_hash": contextHash,
			"engine":       engine,
			"model":        model,
			"level":        level,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("find hints: %w", err)
	}

	var (
		js []byte
		ts time.Time
	)
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&js, &ts); err != nil {
		return nil, err
	}
	if maxAge > 0 && time.Since(ts) > maxAge {
		return nil, ErrNotFound
	}
	var hs []hint.Hint
	if err := json.Unmarshal(js, &hs); err != nil {
		return nil, ErrNotFound
	}
	return hs, nil
}

// Upsert saves or refreshes the hints for the key.
func (r *HintRepo) Upsert(ctx context.Context, contextHash, engine, model string, level int, hs []hint.Hint) error {
	js, err := json.Marshal(hs)
	if err != nil {
		return fmt.Errorf("upsert hints: %w", err)
	}
	sql, args, err := builder().
		Insert("hints_cache").
		Columns("context_hash", "engine", "model", "level", "hints_json").
		Values(contextHash, engine, model, level, js).
		Suffix(`ON CONFLICT (context_hash, engine, model, level)
DO UPDATE SET hints_json = EXCLUDED.hints_json, created_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("upsert hints: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert hints: %w", err)
	}
	return nil
}

// PurgeOlderThan drops stale cache rows so the table does not grow
// unbounded. Returns the number of rows removed.
func (r *HintRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	sql, args, err := builder().
		Delete("hints_cache").
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("purge hints: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("purge hints: %w", err)
	}
	return tag.RowsAffected(), nil
}
