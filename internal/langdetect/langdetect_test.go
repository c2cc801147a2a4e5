package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag(t *testing.T) {
	tests := map[string]string{
		"en":      "en",
		"pt-BR":   "pt-BR",
		Unknown:   "",
		"":        "",
		"garbage": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Tag(in), "input %q", in)
	}
}

func TestWhatlang_Detect(t *testing.T) {
	d := NewWhatlang()

	assert.Equal(t, Unknown, d.Detect("   "))
	assert.Equal(t, "en", d.Detect("The quick brown fox jumps over the lazy dog while the children are watching from the window of their house"))
}
