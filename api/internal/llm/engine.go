package llm

import (
	"fmt"
	"strings"
	"sync"
)

// Engines is the configured engine set. Gemini is the default.
type Engines struct {
	Gemini Engine
	OpenAI Engine
}

// Get resolves an engine by user-facing name; empty means the default.
func (e *Engines) Get(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini":
		if e.Gemini == nil {
			return nil, fmt.Errorf("gemini engine is not configured")
		}
		return e.Gemini, nil
	case "gpt", "openai":
		if e.OpenAI == nil {
			return nil, fmt.Errorf("openai engine is not configured")
		}
		return e.OpenAI, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

// Manager keeps a per-chat engine override on top of a default.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
