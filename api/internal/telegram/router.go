// Package telegram is the bot delivery surface for the conversation wrapper.
package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"kaiwa-bot/api/internal/hint"
	"kaiwa-bot/api/internal/llm"
	"kaiwa-bot/api/internal/store"
)

// chatTimeout bounds one model call triggered from a bot update.
const chatTimeout = 70 * time.Second

type Router struct {
	Bot        *tgbotapi.BotAPI
	Engines    llm.Engines
	EngManager *llm.Manager

	Conv      *store.ConversationRepo
	HintCache *store.HintRepo
	Hints     *hint.Generator
	Log       *zap.SugaredLogger

	HistoryLimit int
	HintTTL      time.Duration
	DefaultLevel int
}

// HandleUpdate dispatches one Telegram update.
func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}
	if txt := strings.TrimSpace(upd.Message.Text); txt != "" {
		r.handleText(upd.Message.Chat.ID, txt)
	}
}

func chatKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.Log.Warnf("send to %d failed: %v", chatID, err)
	}
}

func (r *Router) sendMarkdown(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Warnf("send to %d failed: %v", chatID, err)
	}
}
