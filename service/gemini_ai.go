package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiService generates answers through the Gemini API, rotating between
// the configured API keys when a call fails.
type GeminiService struct {
	apiKeys      []string
	currentKey   int
	client       *genai.Client
	defaultModel string
	mu           sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:      apiKeys,
		currentKey:   0,
		defaultModel: modelName,
	}

	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		return err
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *GeminiService) Generate(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = s.defaultModel
	}
	gm := s.client.GenerativeModel(model)

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		// Try rotating API key if there's an error
		if rerr := s.rotateAPIKey(); rerr != nil {
			return "", fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
		}
		gm = s.client.GenerativeModel(model)
		resp, err = gm.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
		}
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no response generated", types.ErrGenerationFailed)
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content += string(text)
				}
			}
		}
	}
	return content, nil
}
