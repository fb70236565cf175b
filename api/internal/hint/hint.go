// Package hint produces suggested phrases for the learner's next turn.
package hint

// Hint is one suggested phrase. Japanese and Korean are always present on a
// parsed hint; Romaji and Explanation may be empty.
type Hint struct {
	Japanese    string `json:"japanese"`
	Korean      string `json:"korean"`
	Romaji      string `json:"romaji,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// Fallback is returned whenever the model yields nothing usable. It is a
// fixed table, never computed, so callers and tests can rely on it
// byte for byte.
var Fallback = []Hint{
	{
		Japanese:    "すみません",
		Korean:      "실례합니다",
		Romaji:      "sumimasen",
		Explanation: "사과하거나 상대방에게 말을 걸 때 쓰는 표현이에요.",
	},
	{
		Japanese:    "お願いします",
		Korean:      "부탁합니다",
		Romaji:      "onegaishimasu",
		Explanation: "정중하게 부탁할 때 쓰는 표현이에요.",
	},
	{
		Japanese:    "ありがとうございます",
		Korean:      "감사합니다",
		Romaji:      "arigatou gozaimasu",
		Explanation: "정중한 감사 인사예요.",
	},
}

// IsFallback reports whether hs is exactly the fallback table. Used to keep
// fallback results out of the cache.
func IsFallback(hs []Hint) bool {
	if len(hs) != len(Fallback) {
		return false
	}
	for i := range hs {
		if hs[i] != Fallback[i] {
			return false
		}
	}
	return true
}

func fallbackCopy() []Hint {
	out := make([]Hint, len(Fallback))
	copy(out, Fallback)
	return out
}
