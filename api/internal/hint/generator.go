package hint

import (
	"context"

	"kaiwa-bot/api/internal/llm"
	"kaiwa-bot/api/internal/prompt"

	"go.uber.org/zap"
)

// Generator asks an engine for 3 suggested phrases and degrades to the
// static fallback on any failure. Hint generation is never observable as an
// error state by callers.
type Generator struct {
	log *zap.SugaredLogger
}

func NewGenerator(log *zap.SugaredLogger) *Generator {
	return &Generator{log: log}
}

// Suggest issues a one-shot generation for the given conversation context
// and learner level. Happy path is exactly 3 hints; any non-empty parse
// result is used as-is; an empty one (or a transport failure) yields the
// fallback table.
func (g *Generator) Suggest(ctx context.Context, eng llm.Engine, conversationContext string, userLevel int) []Hint {
	raw, err := eng.Generate(ctx, prompt.Hint(conversationContext, userLevel))
	if err != nil {
		if g.log != nil {
			g.log.Warnf("hint generation failed on %s: %v; using fallback", eng.Name(), err)
		}
		return fallbackCopy()
	}

	hints := ParseHints(raw)
	if len(hints) == 0 {
		if g.log != nil {
			g.log.Warnf("hint response from %s had no usable records; using fallback", eng.Name())
		}
		return fallbackCopy()
	}
	return hints
}
