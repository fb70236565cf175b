// Package llm defines the engine contract shared by all model providers.
package llm

import "context"

// ErrorReply is what the user sees when the model returned a reply without
// any text. Transport failures are real errors and never produce it.
const ErrorReply = "エラーが発生しました"

// ConversationTurn is one message of the dialogue history, tagged by speaker.
type ConversationTurn struct {
	Text   string `json:"text"`
	IsUser bool   `json:"is_user"`
}

// ChatInput carries everything a single chat call needs. History is supplied
// by the caller and replayed to the model in original order after one
// system-role seed built from SystemPrompt.
type ChatInput struct {
	Message      string             `json:"message"`
	History      []ConversationTurn `json:"history,omitempty"`
	SystemPrompt string             `json:"system_prompt,omitempty"`
}

// Engine is one model provider. Chat drives the running conversation;
// Generate is a historyless one-shot used by the hint pipeline. Both are
// single-attempt: no retries, no backoff.
type Engine interface {
	Name() string
	GetModel() string
	Chat(ctx context.Context, in ChatInput) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}
