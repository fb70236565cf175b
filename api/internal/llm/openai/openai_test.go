package openai

import (
	"testing"

	"kaiwa-bot/api/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	in := llm.ChatInput{
		Message:      "元気です",
		SystemPrompt: "persona",
		History: []llm.ConversationTurn{
			{Text: "こんにちは", IsUser: true},
			{Text: "こんにちは！", IsUser: false},
		},
	}
	msgs := buildMessages(in)

	require.Len(t, msgs, 4)
	assert.Equal(t, message{Role: "system", Content: "persona"}, msgs[0])
	assert.Equal(t, message{Role: "user", Content: "こんにちは"}, msgs[1])
	assert.Equal(t, message{Role: "assistant", Content: "こんにちは！"}, msgs[2])
	assert.Equal(t, message{Role: "user", Content: "元気です"}, msgs[3])
}

func TestBuildMessagesEmptyHistory(t *testing.T) {
	msgs := buildMessages(llm.ChatInput{Message: "hi", SystemPrompt: "p"})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
}

func TestBuildMessagesNoSystemPrompt(t *testing.T) {
	msgs := buildMessages(llm.ChatInput{Message: "hi"})
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
}
