package store

import (
	"context"
	"testing"
	"time"

	"kaiwa-bot/api/internal/hint"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHintRepoFindFresh(t *testing.T) {
	mock := newMock(t)
	repo := NewHintRepo(mock)

	// squirrel renders the Eq map in sorted key order:
	// context_hash, engine, level, model.
	js := []byte(`[{"japanese":"はい","korean":"네","romaji":"hai"}]`)
	mock.ExpectQuery(`SELECT hints_json, created_at FROM hints_cache`).
		WithArgs("hash", "gemini", 3, "gemini-2.5-flash").
		WillReturnRows(pgxmock.NewRows([]string{"hints_json", "created_at"}).
			AddRow(js, time.Now().Add(-time.Hour)))

	hs, err := repo.Find(context.Background(), "hash", "gemini", "gemini-2.5-flash", 3, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "はい", hs[0].Japanese)
	assert.Equal(t, "hai", hs[0].Romaji)
}

func TestHintRepoFindStale(t *testing.T) {
	mock := newMock(t)
	repo := NewHintRepo(mock)

	js := []byte(`[{"japanese":"はい","korean":"네"}]`)
	mock.ExpectQuery(`SELECT hints_json, created_at FROM hints_cache`).
		WithArgs("hash", "gemini", 3, "m").
		WillReturnRows(pgxmock.NewRows([]string{"hints_json", "created_at"}).
			AddRow(js, time.Now().Add(-48*time.Hour)))

	_, err := repo.Find(context.Background(), "hash", "gemini", "m", 3, 24*time.Hour)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHintRepoFindBrokenJSON(t *testing.T) {
	mock := newMock(t)
	repo := NewHintRepo(mock)

	mock.ExpectQuery(`SELECT hints_json, created_at FROM hints_cache`).
		WithArgs("hash", "gemini", 3, "m").
		WillReturnRows(pgxmock.NewRows([]string{"hints_json", "created_at"}).
			AddRow([]byte(`{broken`), time.Now()))

	_, err := repo.Find(context.Background(), "hash", "gemini", "m", 3, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHintRepoFindMiss(t *testing.T) {
	mock := newMock(t)
	repo := NewHintRepo(mock)

	mock.ExpectQuery(`SELECT hints_json, created_at FROM hints_cache`).
		WithArgs("hash", "gemini", 3, "m").
		WillReturnError(ErrNotFound)

	_, err := repo.Find(context.Background(), "hash", "gemini", "m", 3, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHintRepoUpsert(t *testing.T) {
	mock := newMock(t)
	repo := NewHintRepo(mock)

	mock.ExpectExec(`INSERT INTO hints_cache`).
		WithArgs("hash", "gemini", "gemini-2.5-flash", 3, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Upsert(context.Background(), "hash", "gemini", "gemini-2.5-flash", 3, []hint.Hint{
		{Japanese: "はい", Korean: "네"},
	})
	require.NoError(t, err)
}

func TestHintRepoPurgeOlderThan(t *testing.T) {
	mock := newMock(t)
	repo := NewHintRepo(mock)

	mock.ExpectExec(`DELETE FROM hints_cache`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := repo.PurgeOlderThan(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = repo.PurgeOlderThan(context.Background(), 0)
	assert.Error(t, err)
}
