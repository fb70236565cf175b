// Package openai implements llm.Engine over the chat/completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kaiwa-bot/api/internal/llm"
)

const completionsURL = "https://api.openai.com/v1/chat/completions"

type Engine struct {
	APIKey string
	Model  string
	httpc  *http.Client
}

func New(key, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(key),
		Model:  strings.TrimSpace(model),
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.Model }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (e *Engine) Chat(ctx context.Context, in llm.ChatInput) (string, error) {
	msgs := buildMessages(in)
	out, err := e.complete(ctx, msgs, 0.8)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return llm.ErrorReply, nil
	}
	return out, nil
}

func (e *Engine) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := e.complete(ctx, []message{{Role: "user", Content: prompt}}, 0.7)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("openai generate: empty response")
	}
	return out, nil
}

// buildMessages lays out one system seed, the history in original order,
// then the newest user message.
func buildMessages(in llm.ChatInput) []message {
	msgs := make([]message, 0, len(in.History)+2)
	if strings.TrimSpace(in.SystemPrompt) != "" {
		msgs = append(msgs, message{Role: "system", Content: in.SystemPrompt})
	}
	for _, t := range in.History {
		role := "assistant"
		if t.IsUser {
			role = "user"
		}
		msgs = append(msgs, message{Role: role, Content: t.Text})
	}
	return append(msgs, message{Role: "user", Content: in.Message})
}

func (e *Engine) complete(ctx context.Context, msgs []message, temperature float64) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}
	body := map[string]any{
		"model":       e.Model,
		"messages":    msgs,
		"temperature": temperature,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionsURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(raw.Choices[0].Message.Content), nil
}
