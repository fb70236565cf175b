package hint

import (
	"encoding/json"
	"strings"

	"kaiwa-bot/api/internal/util"
)

// ParseHints extracts hint records from freeform model output. Markdown
// fences are stripped first; the remainder must be a JSON array. A record
// missing japanese or korean is dropped, the rest of the array survives.
// Malformed JSON or a non-array top level yields an empty result — never an
// error: callers treat empty as "use fallback".
func ParseHints(raw string) []Hint {
	raw = util.StripCodeFences(raw)
	if raw == "" {
		return nil
	}

	var records []Hint
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil
	}

	out := make([]Hint, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Japanese) == "" || strings.TrimSpace(r.Korean) == "" {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
