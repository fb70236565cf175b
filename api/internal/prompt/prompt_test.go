package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHintEmbedsContextAndLevel(t *testing.T) {
	p := Hint("学習者: こんにちは", 2)
	assert.Contains(t, p, "学習者: こんにちは")
	assert.Contains(t, p, "Learner level: 2")
	assert.Contains(t, p, "JSON array of 3 objects")
}

func TestLoadUnknownName(t *testing.T) {
	assert.Empty(t, Load("no-such-prompt"))
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChatSystem+".txt"), []byte("custom persona\n"), 0o644))
	t.Setenv("PROMPT_DIR", dir)

	assert.Equal(t, "custom persona", Load(ChatSystem))
	// Missing override file falls back to the embedded default.
	assert.Equal(t, defaults[HintUser], Load(HintUser))
}

func TestHintIgnoresOverrideWithoutVerbs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, HintUser+".txt"),
		[]byte("suggest three phrases, no placeholders here"), 0o644))
	t.Setenv("PROMPT_DIR", dir)

	p := Hint("学習者: こんにちは", 2)

	assert.NotContains(t, p, "%!")
	assert.Contains(t, p, "学習者: こんにちは")
	assert.Contains(t, p, "Learner level: 2")
}
