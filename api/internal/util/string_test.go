package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"bare fence", "```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"no fence", "  [1,2,3]  ", "[1,2,3]"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestShortHash(t *testing.T) {
	h := ShortHash("token")
	assert.Len(t, h, 16)
	assert.Equal(t, h, ShortHash("token"))
	assert.NotEqual(t, h, ShortHash("other"))
}
