package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"kaiwa-bot/api/internal/config"
	"kaiwa-bot/api/internal/hint"
	"kaiwa-bot/api/internal/llm"
	"kaiwa-bot/api/internal/llm/gemini"
	"kaiwa-bot/api/internal/llm/openai"
	"kaiwa-bot/api/internal/logger"
	"kaiwa-bot/api/internal/store"
	"kaiwa-bot/api/internal/telegram"
	"kaiwa-bot/api/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level).Sugar()
	defer func() { _ = log.Sync() }()

	if strings.TrimSpace(cfg.Telegram.BotToken) == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	// --- Postgres ---
	dsn := resolveDSN(cfg.Database.DSN)
	if dsn == "" {
		log.Fatal("database DSN is empty: set DATABASE_URL or POSTGRES_* env vars")
	}
	cfg.Database.DSN = dsn

	ctx := context.Background()
	if err := store.Migrate(ctx, dsn); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	pool, err := store.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()
	log.Infof("db connected: %s", safeDSNSummary(dsn))

	convRepo := store.NewConversationRepo(pool)
	hintRepo := store.NewHintRepo(pool)

	// --- Telegram bot ---
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	bot.Debug = false
	log.Infof("authorized as @%s", bot.Self.UserName)

	engines := llm.Engines{
		Gemini: gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model),
		OpenAI: openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
	}
	manager := llm.NewManager(engines.Gemini)

	r := &telegram.Router{
		Bot:        bot,
		Engines:    engines,
		EngManager: manager,

		Conv:      convRepo,
		HintCache: hintRepo,
		Hints:     hint.NewGenerator(log),
		Log:       log,

		HistoryLimit: cfg.Chat.HistoryLimit,
		HintTTL:      cfg.Chat.HintCacheTTL,
		DefaultLevel: cfg.Chat.DefaultLevel,
	}

	// DefaultServeMux so that ListenForWebhook, which registers on the
	// default mux, shares the listener with healthz.
	http.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port

	if webhookURL := strings.TrimSpace(cfg.Telegram.WebhookURL); webhookURL != "" {
		startWebhookMode(log, addr, bot, r, webhookURL)
	} else {
		startPollingMode(log, addr, bot, r)
	}
}

// ---------------- Modes -----------------

func startWebhookMode(log *zap.SugaredLogger, addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) {
	path := "/webhook/" + util.ShortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		log.Fatalf("webhook: %v", err)
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		log.Fatalf("webhook register: %v", err)
	}

	updates := bot.ListenForWebhook(path)

	go func() {
		for upd := range updates {
			r.HandleUpdate(upd)
		}
		log.Warn("webhook updates channel closed")
	}()

	log.Infof("webhook listening on %s%s", addr, path)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("http: %v", err)
	}
}

func startPollingMode(log *zap.SugaredLogger, addr string, bot *tgbotapi.BotAPI, r *telegram.Router) {
	go func() {
		log.Infof("health server listening on %s/healthz", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatalf("http: %v", err)
		}
	}()

	runPolling(context.Background(), log, bot, r.HandleUpdate)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, log *zap.SugaredLogger, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Info("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			log.Warnf("polling error: %v; retry in %v", err, d)
			time.Sleep(d)
			continue
		}

		// An empty batch means the 30s long poll expired; loop straight
		// back into the next GetUpdates.
		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}
	}
}

// ---------------- Helpers -----------------

func resolveDSN(configured string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	// Build DSN from POSTGRES_* / PG* env vars (single-container default).
	user := getenvDefault("POSTGRES_USER", "kaiwa")
	pass := os.Getenv("POSTGRES_PASSWORD")
	host := getenvDefault("PGHOST", "db")
	port := getenvDefault("PGPORT", "5432")
	db := getenvDefault("POSTGRES_DB", "kaiwa")

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func safeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	user := u.User.Username()
	host := u.Host
	port := ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, user)
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, user)
}
