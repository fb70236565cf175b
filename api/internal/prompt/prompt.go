// Package prompt holds the model prompts with an operator override hook.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Prompt names accepted by Load.
const (
	ChatSystem = "chat.system"
	HintUser   = "hint.user"
)

// chatSystem is the default conversation-partner persona.
const chatSystem = `あなたは日本語会話の練習相手です。学習者は韓国語話者です。
自然で簡単な日本語で、短く親しみやすく返答してください。
相手のレベルに合わせて、難しい単語や長い文は避けてください。`

// hintUser is the one-shot template for phrase suggestions. It embeds the
// conversation context and the learner level, in that order.
const hintUser = `You are helping a Korean speaker practice Japanese conversation.

Current conversation:
%s

Learner level: %d (1 = beginner, 5 = advanced).

Suggest exactly 3 short Japanese phrases the learner could naturally say next.
Respond with ONLY a JSON array of 3 objects, no prose, no markdown:
[{"japanese": "...", "korean": "...", "romaji": "...", "explanation": "..."}]
"korean" is the Korean translation of the phrase. "explanation" is one short
sentence in Korean about when to use the phrase.`

var defaults = map[string]string{
	ChatSystem: chatSystem,
	HintUser:   hintUser,
}

// Load returns the named prompt, preferring <PROMPT_DIR>/<name>.txt when the
// operator supplied one, otherwise the embedded default.
func Load(name string) string {
	if dir := os.Getenv("PROMPT_DIR"); dir != "" {
		p := filepath.Join(dir, name+".txt")
		if b, err := os.ReadFile(p); err == nil && len(b) > 0 {
			return strings.TrimSpace(string(b))
		}
	}
	return defaults[name]
}

// Hint renders the suggestion prompt for the given conversation context and
// learner level. An override template must carry exactly one %s (context)
// and one %d (level); anything else falls back to the embedded default so
// Sprintf never leaks %! noise into the prompt.
func Hint(conversationContext string, userLevel int) string {
	tmpl := Load(HintUser)
	if strings.Count(tmpl, "%s") != 1 || strings.Count(tmpl, "%d") != 1 {
		tmpl = defaults[HintUser]
	}
	return fmt.Sprintf(tmpl, conversationContext, userLevel)
}
