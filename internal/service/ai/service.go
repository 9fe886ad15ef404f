package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nomadiq/travel-assistant/backend/internal/config"
)

// ErrGateway marks failures from the completion or image provider,
// including responses with missing fields. Callers translate it to a
// generic server error.
var ErrGateway = errors.New("ai gateway failure")

// Role values for prompt entries. User and assistant match the sender
// values stored on messages, so stored turns map directly.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PromptMessage is one role-tagged entry of an assembled prompt.
type PromptMessage struct {
	Role    string
	Content string
}

// Service wraps the OpenAI chat-completions and image endpoints. It is
// stateless; both calls are single-attempt with no retry.
type Service struct {
	client *openai.Client
	cfg    config.AIConfig
}

// NewService creates the gateway from configuration.
func NewService(cfg config.AIConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("OPENAI_API_KEY is not configured")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Service{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}, nil
}

// Complete sends the assembled prompt and returns the single reply string.
func (s *Service) Complete(ctx context.Context, prompt []PromptMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, entry := range prompt {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    entry.Role,
			Content: entry.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.cfg.ChatModel,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", ErrGateway, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: completion response contained no content", ErrGateway)
	}

	reply := resp.Choices[0].Message.Content
	log.Printf("[ai] completion ok model=%s entries=%d reply_length=%d", s.cfg.ChatModel, len(prompt), len(reply))
	return reply, nil
}

// GenerateImage renders one 1024x1024 base64-encoded image for the prompt.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:          s.cfg.ImageModel,
		Prompt:         prompt,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: image generation: %v", ErrGateway, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("%w: image response contained no data", ErrGateway)
	}

	log.Printf("[ai] image ok model=%s prompt_length=%d", s.cfg.ImageModel, len(prompt))
	return resp.Data[0].B64JSON, nil
}
