package store

import (
	"context"
	"fmt"

	"kaiwa-bot/api/internal/llm"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
)

// Session is one running conversation, keyed by the delivery surface's chat
// identifier (e.g. "tg:12345").
type Session struct {
	ID    uuid.UUID `db:"id"`
	Level int       `db:"level"`
}

// ConversationRepo persists sessions and their append-only turn history.
type ConversationRepo struct {
	q Querier
}

func NewConversationRepo(q Querier) *ConversationRepo {
	return &ConversationRepo{q: q}
}

// EnsureSession returns the session for a chat key, creating it with the
// given default level on first contact.
func (r *ConversationRepo) EnsureSession(ctx context.Context, chatKey string, defaultLevel int) (Session, error) {
	sql, args, err := builder().
		Insert("sessions").
		Columns("id", "chat_key", "level").
		Values(uuid.New(), chatKey, defaultLevel).
		// The no-op update makes the insert always return the row.
		Suffix("ON CONFLICT (chat_key) DO UPDATE SET chat_key = EXCLUDED.chat_key RETURNING id, level").
		ToSql()
	if err != nil {
		return Session{}, fmt.Errorf("ensure session: %w", err)
	}

	var s Session
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Level); err != nil {
		return Session{}, fmt.Errorf("ensure session: %w", err)
	}
	return s, nil
}

// SetLevel updates the learner level (1..5) for a session.
func (r *ConversationRepo) SetLevel(ctx context.Context, id uuid.UUID, level int) error {
	if level < 1 || level > 5 {
		return fmt.Errorf("level must be in 1..5, got %d", level)
	}
	sql, args, err := builder().
		Update("sessions").
		Set("level", level).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("set level: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes the session (turns go with it via FK cascade), so the next
// EnsureSession starts a fresh conversation.
func (r *ConversationRepo) Reset(ctx context.Context, chatKey string) error {
	sql, args, err := builder().
		Delete("sessions").
		Where(squirrel.Eq{"chat_key": chatKey}).
		ToSql()
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// AppendTurn stores one dialogue turn at the end of the session history.
func (r *ConversationRepo) AppendTurn(ctx context.Context, sessionID uuid.UUID, isUser bool, text string) error {
	sql, args, err := builder().
		Insert("turns").
		Columns("session_id", "is_user", "body").
		Values(sessionID, isUser, text).
		ToSql()
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

type turnRow struct {
	IsUser bool   `db:"is_user"`
	Body   string `db:"body"`
}

// History returns the last limit turns of a session in chronological order.
func (r *ConversationRepo) History(ctx context.Context, sessionID uuid.UUID, limit int) ([]llm.ConversationTurn, error) {
	sql, args, err := builder().
		Select("is_user", "body").
		From("turns").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	var rs []turnRow
	if err := pgxscan.ScanAll(&rs, rows); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	// Newest-first from the query; flip back to dialogue order.
	out := make([]llm.ConversationTurn, len(rs))
	for i, tr := range rs {
		out[len(rs)-1-i] = llm.ConversationTurn{Text: tr.Body, IsUser: tr.IsUser}
	}
	return out, nil
}
