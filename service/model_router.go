package service

import (
	"context"
	"strings"
)

// Generator produces an answer for a fully composed prompt using the given
// model. Failures surface as types.ErrGenerationFailed; there is no retry
// at this level.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ModelRouter dispatches generation to a backend based on the model id, so
// a session can switch between OpenAI-compatible and Gemini models.
type ModelRouter struct {
	openai Generator
	gemini Generator
}

func NewModelRouter(openaiService, geminiService Generator) *ModelRouter {
	return &ModelRouter{
		openai: openaiService,
		gemini: geminiService,
	}
}

func (r *ModelRouter) Generate(ctx context.Context, prompt, model string) (string, error) {
	if r.gemini != nil && strings.HasPrefix(model, "gemini") {
		return r.gemini.Generate(ctx, prompt, model)
	}
	return r.openai.Generate(ctx, prompt, model)
}
