package gemini

import (
	"testing"

	"kaiwa-bot/api/internal/llm"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textOf(t *testing.T, c *genai.Content) string {
	t.Helper()
	require.Len(t, c.Parts, 1)
	txt, ok := c.Parts[0].(genai.Text)
	require.True(t, ok)
	return string(txt)
}

func TestBuildSessionEmptyHistory(t *testing.T) {
	system, history := buildSession("you are a tutor", nil)

	require.NotNil(t, system)
	assert.Equal(t, "system", system.Role)
	assert.Equal(t, "you are a tutor", textOf(t, system))
	assert.Empty(t, history, "empty history yields exactly one system seed and nothing else")
}

func TestBuildSessionKeepsOrderAndRoles(t *testing.T) {
	turns := []llm.ConversationTurn{
		{Text: "こんにちは", IsUser: true},
		{Text: "こんにちは！元気ですか？", IsUser: false},
		{Text: "元気です", IsUser: true},
	}
	system, history := buildSession("persona", turns)

	require.NotNil(t, system)
	require.Len(t, history, 3)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "こんにちは", textOf(t, history[0]))
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, "user", history[2].Role)
	assert.Equal(t, "元気です", textOf(t, history[2]))
}

func TestBuildSessionNoSystemPrompt(t *testing.T) {
	system, history := buildSession("  ", []llm.ConversationTurn{{Text: "hi", IsUser: true}})
	assert.Nil(t, system)
	assert.Len(t, history, 1)
}

func TestFirstText(t *testing.T) {
	assert.Empty(t, firstText(nil))
	assert.Empty(t, firstText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("返事")}}},
		},
	}
	assert.Equal(t, "返事", firstText(resp))
}
