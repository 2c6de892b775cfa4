package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedGenerator struct {
	name  string
	calls int
}

func (g *namedGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	g.calls++
	return g.name, nil
}

func TestModelRouter_Dispatch(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		hasGemini bool
		want      string
	}{
		{"gemini model goes to gemini", "gemini-1.5-pro", true, "gemini"},
		{"gpt model goes to openai", "gpt-4o", true, "openai"},
		{"empty model goes to openai", "", true, "openai"},
		{"gemini model without backend falls back", "gemini-1.5-pro", false, "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			openaiGen := &namedGenerator{name: "openai"}
			var geminiGen Generator
			if tt.hasGemini {
				geminiGen = &namedGenerator{name: "gemini"}
			}
			router := NewModelRouter(openaiGen, geminiGen)

			got, err := router.Generate(context.Background(), "prompt", tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
