package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"kaiwa-bot/api/internal/llm"
	"kaiwa-bot/api/internal/prompt"
)

type ChatRequest struct {
	LLMName string `json:"llm_name,omitempty"`
	llm.ChatInput
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat relays one conversation turn. The wrapper is stateless: the app
// supplies the history on every call.
func (h *Handle) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SystemPrompt) == "" {
		req.SystemPrompt = prompt.Load(prompt.ChatSystem)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	engine, err := h.engs.Get(req.LLMName)
	if err != nil {
		http.Error(w, "chat error: "+err.Error(), http.StatusBadGateway)
		return
	}

	reply, err := engine.Chat(ctx, req.ChatInput)
	if err != nil {
		h.log.Warnf("chat on %s failed: %v", engine.Name(), err)
		http.Error(w, "chat error: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
