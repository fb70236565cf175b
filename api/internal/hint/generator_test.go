package hint

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kaiwa-bot/api/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine returns a canned response (or error) from Generate and records
// the prompt it was asked for.
type fakeEngine struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake-model" }
func (f *fakeEngine) Chat(context.Context, llm.ChatInput) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeEngine) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestSuggestHappyPath(t *testing.T) {
	eng := &fakeEngine{response: `[
		{"japanese":"おはよう","korean":"좋은 아침","romaji":"ohayou","explanation":"아침 인사"},
		{"japanese":"こんにちは","korean":"안녕하세요"},
		{"japanese":"こんばんは","korean":"안녕하세요 (저녁)"}
	]`}
	g := NewGenerator(nil)

	hints := g.Suggest(context.Background(), eng, "学習者: おはよう", 1)

	require.Len(t, hints, 3)
	assert.Equal(t, "おはよう", hints[0].Japanese)
	assert.False(t, IsFallback(hints))
}

func TestSuggestPromptEmbedsContextAndLevel(t *testing.T) {
	eng := &fakeEngine{response: "not json"}
	g := NewGenerator(nil)

	g.Suggest(context.Background(), eng, "学習者: こんにちは", 4)

	assert.True(t, strings.Contains(eng.lastPrompt, "学習者: こんにちは"))
	assert.True(t, strings.Contains(eng.lastPrompt, "Learner level: 4"))
}

func TestSuggestFallbackOnEngineError(t *testing.T) {
	eng := &fakeEngine{err: errors.New("boom")}
	g := NewGenerator(nil)

	hints := g.Suggest(context.Background(), eng, "ctx", 3)

	assert.Equal(t, Fallback, hints)
}

func TestSuggestFallbackOnUnparsableOutput(t *testing.T) {
	eng := &fakeEngine{response: "模型の出力はJSONではありません"}
	g := NewGenerator(nil)

	hints := g.Suggest(context.Background(), eng, "ctx", 3)

	assert.Equal(t, Fallback, hints)
	assert.True(t, IsFallback(hints))
}

func TestSuggestFallbackIsStableAcrossCalls(t *testing.T) {
	eng := &fakeEngine{response: "[]"}
	g := NewGenerator(nil)

	first := g.Suggest(context.Background(), eng, "ctx", 3)
	second := g.Suggest(context.Background(), eng, "ctx", 3)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, Fallback, first)

	// Mutating a returned slice must not poison the table.
	first[0].Japanese = "mutated"
	assert.Equal(t, "すみません", Fallback[0].Japanese)
}

func TestSuggestKeepsPartialResults(t *testing.T) {
	// One usable record out of three: used as-is, no fallback.
	eng := &fakeEngine{response: `[
		{"japanese":"はい","korean":"네"},
		{"japanese":"いいえ"},
		{"korean":"감사합니다"}
	]`}
	g := NewGenerator(nil)

	hints := g.Suggest(context.Background(), eng, "ctx", 2)

	require.Len(t, hints, 1)
	assert.Equal(t, "はい", hints[0].Japanese)
}
