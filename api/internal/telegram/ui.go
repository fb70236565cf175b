package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cbHint        = "hint_next"
	cbLevelPrefix = "level_"
)

// Inline button shown under partner replies to request suggestions.
func makeHintKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData("💡 힌트 보기", cbHint)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn),
	)
}

// Level picker 1..5.
func makeLevelKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := tgbotapi.NewInlineKeyboardRow()
	for n := 1; n <= 5; n++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%s%d", cbLevelPrefix, n),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// Light escaping against Markdown injection from model output.
func safe(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "[", "\\[")
	return s
}
