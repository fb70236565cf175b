package main

import (
	"fmt"
	"net/http"
	"os"

	"kaiwa-bot/api/internal/config"
	"kaiwa-bot/api/internal/handle"
	"kaiwa-bot/api/internal/hint"
	"kaiwa-bot/api/internal/llm"
	"kaiwa-bot/api/internal/llm/gemini"
	"kaiwa-bot/api/internal/llm/openai"
	"kaiwa-bot/api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level).Sugar()
	defer func() { _ = log.Sync() }()

	engines := &llm.Engines{
		Gemini: gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model),
		OpenAI: openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
	}
	h := handle.New(engines, hint.NewGenerator(log), log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/chat/message", h.Chat)
	mux.HandleFunc("/v1/chat/hints", h.Hints)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Infof("kaiwa-api listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
