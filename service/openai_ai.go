package service

import (
	"context"
	"fmt"

	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/sashabaranov/go-openai"
)

// OpenAIService generates answers through an OpenAI-compatible chat
// completion endpoint.
type OpenAIService struct {
	client       *openai.Client
	defaultModel string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL // Set this to your local LLM server URL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIService{
		client:       client,
		defaultModel: model,
	}
}

func (s *OpenAIService) Generate(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = s.defaultModel
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Model: model,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response generated", types.ErrGenerationFailed)
	}

	return resp.Choices[0].Message.Content, nil
}
