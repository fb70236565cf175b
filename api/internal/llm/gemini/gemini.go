// Package gemini implements llm.Engine over the Gemini generateContent API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kaiwa-bot/api/internal/llm"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Chat sends the newest user message on top of a session seeded with one
// system instruction and the caller-supplied history. Single attempt; a
// reply that carries no text yields llm.ErrorReply, not an error.
func (e *Engine) Chat(ctx context.Context, in llm.ChatInput) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{Temperature: ptrFloat32(0.8)}

	system, history := buildSession(in.SystemPrompt, in.History)
	if system != nil {
		m.SystemInstruction = system
	}

	cs := m.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(in.Message))
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return llm.ErrorReply, nil
	}
	return txt, nil
}

// Generate is the historyless one-shot used for hint generation. The model
// is asked for JSON, so the response MIME type is pinned.
func (e *Engine) Generate(ctx context.Context, prompt string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0.7),
		ResponseMIMEType: "application/json",
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return "", errors.New("gemini generate: empty response")
	}
	return txt, nil
}

// buildSession maps the wrapper's view of a conversation onto genai
// contents: exactly one system-role seed (nil when the prompt is empty) and
// the history turns tagged user/model in original order.
func buildSession(systemPrompt string, turns []llm.ConversationTurn) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	if strings.TrimSpace(systemPrompt) != "" {
		system = &genai.Content{
			Role:  "system",
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "model"
		if t.IsUser {
			role = "user"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return system, history
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok && strings.TrimSpace(string(t)) != "" {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
