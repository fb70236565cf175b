// Package handle exposes the chat wrapper as a JSON API for app clients.
package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"kaiwa-bot/api/internal/hint"
	"kaiwa-bot/api/internal/llm"

	"go.uber.org/zap"
)

// requestTimeout bounds one upstream model call.
const requestTimeout = 70 * time.Second

type Handle struct {
	engs  *llm.Engines
	hints *hint.Generator
	log   *zap.SugaredLogger
}

func New(engs *llm.Engines, hints *hint.Generator, log *zap.SugaredLogger) *Handle {
	return &Handle{
		engs:  engs,
		hints: hints,
		log:   log,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
