package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kaiwa-bot/api/internal/hint"
	"kaiwa-bot/api/internal/llm"
	"kaiwa-bot/api/internal/store"
	"kaiwa-bot/api/internal/util"
)

// sendHints suggests 3 phrases for the learner's next turn, going through
// the cache first. Fallback results are shown but never cached, so a
// transient model failure does not poison the cache for the TTL window.
func (r *Router) sendHints(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	sess, err := r.Conv.EnsureSession(ctx, chatKey(chatID), r.DefaultLevel)
	if err != nil {
		r.Log.Warnf("ensure session for %d failed: %v", chatID, err)
		r.sendMarkdown(chatID, formatHints(hint.Fallback), nil)
		return
	}
	history, err := r.Conv.History(ctx, sess.ID, r.HistoryLimit)
	if err != nil {
		// A lost history still allows (contextless) suggestions.
		r.Log.Warnf("history for %d failed: %v", chatID, err)
		history = nil
	}

	convContext := renderContext(history)
	eng := r.EngManager.Get(chatID)
	hash := util.SHA256Hex([]byte(convContext))

	cached, err := r.HintCache.Find(ctx, hash, eng.Name(), eng.GetModel(), sess.Level, r.HintTTL)
	if err == nil {
		r.sendMarkdown(chatID, formatHints(cached), nil)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		r.Log.Warnf("hint cache lookup for %d failed: %v", chatID, err)
	}

	hs := r.Hints.Suggest(ctx, eng, convContext, sess.Level)
	if !hint.IsFallback(hs) {
		if err := r.HintCache.Upsert(ctx, hash, eng.Name(), eng.GetModel(), sess.Level, hs); err != nil {
			r.Log.Warnf("hint cache upsert for %d failed: %v", chatID, err)
		}
	}
	r.sendMarkdown(chatID, formatHints(hs), nil)
}

// renderContext flattens stored turns into the textual context the hint
// prompt embeds. Newest turn last.
func renderContext(turns []llm.ConversationTurn) string {
	var b strings.Builder
	for _, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		if t.IsUser {
			b.WriteString("学習者: ")
		} else {
			b.WriteString("相手: ")
		}
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func formatHints(hs []hint.Hint) string {
	var b strings.Builder
	b.WriteString("💡 *추천 표현*\n")
	for i, h := range hs {
		fmt.Fprintf(&b, "\n%d. *%s*", i+1, safe(h.Japanese))
		if t := strings.TrimSpace(h.Romaji); t != "" {
			fmt.Fprintf(&b, " (%s)", safe(t))
		}
		fmt.Fprintf(&b, "\n   %s\n", safe(h.Korean))
		if t := strings.TrimSpace(h.Explanation); t != "" {
			fmt.Fprintf(&b, "   _%s_\n", safe(t))
		}
	}
	return b.String()
}
