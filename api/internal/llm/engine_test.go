package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct{ name string }

func (s *stubEngine) Name() string     { return s.name }
func (s *stubEngine) GetModel() string { return "stub-model" }
func (s *stubEngine) Chat(context.Context, ChatInput) (string, error) {
	return "", nil
}
func (s *stubEngine) Generate(context.Context, string) (string, error) {
	return "", nil
}

func TestEnginesGet(t *testing.T) {
	gem := &stubEngine{name: "gemini"}
	oai := &stubEngine{name: "gpt"}
	engs := &Engines{Gemini: gem, OpenAI: oai}

	e, err := engs.Get("")
	require.NoError(t, err)
	assert.Same(t, Engine(gem), e)

	e, err = engs.Get("GPT")
	require.NoError(t, err)
	assert.Same(t, Engine(oai), e)

	e, err = engs.Get("openai")
	require.NoError(t, err)
	assert.Same(t, Engine(oai), e)

	_, err = engs.Get("yandex")
	assert.ErrorContains(t, err, "unknown engine")

	empty := &Engines{}
	_, err = empty.Get("gemini")
	assert.Error(t, err)
}

func TestManagerOverride(t *testing.T) {
	def := &stubEngine{name: "gemini"}
	other := &stubEngine{name: "gpt"}
	m := NewManager(def)

	assert.Same(t, Engine(def), m.Get(1))

	m.Set(1, other)
	assert.Same(t, Engine(other), m.Get(1))
	assert.Same(t, Engine(def), m.Get(2), "override is per chat")
}
