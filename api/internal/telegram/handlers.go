package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kaiwa-bot/api/internal/llm"
	"kaiwa-bot/api/internal/prompt"
)

const welcome = `일본어 회화 연습 봇입니다 🇯🇵
메시지를 보내면 일본어로 대화를 이어갑니다.

명령어:
/level — 레벨 설정 (1=초급 … 5=고급)
/hint — 다음에 할 수 있는 말 3가지 추천
/reset — 대화를 처음부터 다시 시작
/engine — 모델 전환 (gemini | gpt)`

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start", "help":
		r.send(cid, welcome)
	case "health":
		r.send(cid, "✅ OK")
	case "level":
		r.handleLevelCommand(cid, upd.Message.CommandArguments())
	case "hint":
		r.sendHints(cid)
	case "reset":
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		if err := r.Conv.Reset(ctx, chatKey(cid)); err != nil {
			r.Log.Warnf("reset for %d failed: %v", cid, err)
		}
		r.send(cid, "새 대화를 시작합니다. こんにちは！")
	case "engine":
		r.handleEngineCommand(cid, upd.Message.CommandArguments())
	default:
		r.send(cid, "모르는 명령어입니다. /help 를 참고하세요.")
	}
}

func (r *Router) handleLevelCommand(chatID int64, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "레벨을 선택하세요:")
		msg.ReplyMarkup = makeLevelKeyboard()
		if _, err := r.Bot.Send(msg); err != nil {
			r.Log.Warnf("send to %d failed: %v", chatID, err)
		}
		return
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < 1 || n > 5 {
		r.send(chatID, "레벨은 1부터 5까지입니다. 예: /level 2")
		return
	}
	r.setLevel(chatID, n)
}

func (r *Router) setLevel(chatID int64, level int) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	sess, err := r.Conv.EnsureSession(ctx, chatKey(chatID), r.DefaultLevel)
	if err != nil {
		r.Log.Warnf("ensure session for %d failed: %v", chatID, err)
		r.send(chatID, "레벨을 저장하지 못했습니다.")
		return
	}
	if err := r.Conv.SetLevel(ctx, sess.ID, level); err != nil {
		r.Log.Warnf("set level for %d failed: %v", chatID, err)
		r.send(chatID, "레벨을 저장하지 못했습니다.")
		return
	}
	r.send(chatID, "레벨을 "+strconv.Itoa(level)+"(으)로 설정했습니다.")
}

func (r *Router) handleEngineCommand(chatID int64, args string) {
	fields := strings.Fields(strings.TrimSpace(args))
	if len(fields) == 0 {
		cur := r.EngManager.Get(chatID)
		r.send(chatID, "현재 모델: "+cur.Name()+" ("+cur.GetModel()+")\n사용법: /engine gemini | /engine gpt")
		return
	}
	eng, err := r.Engines.Get(fields[0])
	if err != nil {
		r.send(chatID, "사용할 수 없는 모델입니다. gemini | gpt 중에서 선택하세요.")
		return
	}
	r.EngManager.Set(chatID, eng)
	r.send(chatID, "모델을 "+eng.Name()+"(으)로 전환했습니다.")
}

// handleText runs one conversation turn: replay stored history, call the
// model, persist both sides.
func (r *Router) handleText(chatID int64, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	sess, err := r.Conv.EnsureSession(ctx, chatKey(chatID), r.DefaultLevel)
	if err != nil {
		r.Log.Warnf("ensure session for %d failed: %v", chatID, err)
		r.send(chatID, llm.ErrorReply)
		return
	}
	history, err := r.Conv.History(ctx, sess.ID, r.HistoryLimit)
	if err != nil {
		r.Log.Warnf("history for %d failed: %v", chatID, err)
		// A lost history still allows a (contextless) reply.
		history = nil
	}

	eng := r.EngManager.Get(chatID)
	reply, err := eng.Chat(ctx, llm.ChatInput{
		Message:      text,
		History:      history,
		SystemPrompt: prompt.Load(prompt.ChatSystem),
	})
	if err != nil {
		r.Log.Warnf("chat on %s for %d failed: %v", eng.Name(), chatID, err)
		r.send(chatID, llm.ErrorReply)
		return
	}

	if err := r.Conv.AppendTurn(ctx, sess.ID, true, text); err != nil {
		r.Log.Warnf("append user turn for %d failed: %v", chatID, err)
	}
	if err := r.Conv.AppendTurn(ctx, sess.ID, false, reply); err != nil {
		r.Log.Warnf("append model turn for %d failed: %v", chatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, reply)
	msg.ReplyMarkup = makeHintKeyboard()
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Warnf("send to %d failed: %v", chatID, err)
	}
}

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	// Ack first so the button stops spinning.
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.Log.Warnf("callback ack failed: %v", err)
	}
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID

	switch {
	case cb.Data == cbHint:
		r.sendHints(cid)
	case strings.HasPrefix(cb.Data, cbLevelPrefix):
		if n, err := strconv.Atoi(strings.TrimPrefix(cb.Data, cbLevelPrefix)); err == nil && n >= 1 && n <= 5 {
			r.setLevel(cid, n)
		}
	}
}
