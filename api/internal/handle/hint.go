package handle

import (
	"context"
	"encoding/json"
	"net/http"

	"kaiwa-bot/api/internal/hint"
)

type HintsRequest struct {
	LLMName string `json:"llm_name,omitempty"`
	Context string `json:"context"`
	Level   int    `json:"level"`
}

type HintsResponse struct {
	Hints []hint.Hint `json:"hints"`
}

// Hints returns 3 suggested phrases for the given conversation context.
// Generation failures are invisible here: the generator falls back to its
// static table, so the endpoint only errors on bad requests.
func (h *Handle) Hints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req HintsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Level < 1 || req.Level > 5 {
		http.Error(w, "level must be in 1..5", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	engine, err := h.engs.Get(req.LLMName)
	if err != nil {
		http.Error(w, "hints error: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, HintsResponse{
		Hints: h.hints.Suggest(ctx, engine, req.Context, req.Level),
	})
}
