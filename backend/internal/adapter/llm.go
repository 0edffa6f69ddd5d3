package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/logger"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffUnit = time.Second
	defaultTemperature = 0.7
)

// LLMAdapter sends generated prompt pairs to an OpenAI-compatible endpoint
// such as LiteLLM.
type LLMAdapter struct {
	client      *openai.Client
	model       string
	maxRetries  int
	backoffUnit time.Duration
	logger      *zap.Logger
}

// Option configures an LLMAdapter.
type Option func(*LLMAdapter)

// WithRetry sets the attempt count and the linear backoff unit between
// attempts.
func WithRetry(maxRetries int, backoffUnit time.Duration) Option {
	return func(a *LLMAdapter) {
		if maxRetries > 0 {
			a.maxRetries = maxRetries
		}
		a.backoffUnit = backoffUnit
	}
}

// NewLLMAdapter creates a new LLM adapter
func NewLLMAdapter(baseURL, apiKey, modelID string, opts ...Option) *LLMAdapter {
	// LiteLLM accepts any key when none is configured
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"

	a := &LLMAdapter{
		client:      openai.NewClientWithConfig(config),
		model:       modelID,
		maxRetries:  defaultMaxRetries,
		backoffUnit: defaultBackoffUnit,
		logger:      logger.Named("llm"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Complete sends the system/user prompt pair and returns the first choice's
// content.
func (a *LLMAdapter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	currentModel := a.model
	req := openai.ChatCompletionRequest{
		Model: currentModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: defaultTemperature,
	}

	// Retry with linear backoff
	var resp openai.ChatCompletionResponse
	var err error
	attempts := 0
	for attempt := 0; attempt < a.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * a.backoffUnit
			a.logger.Warn("Retrying LLM request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			if sleepErr := sleep(ctx, backoff); sleepErr != nil {
				err = sleepErr
				break
			}
		}

		attempts++
		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		errMsg := err.Error()
		a.logger.Error("LLM request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", currentModel),
		)

		// A non-JSON body usually means a proxy error page
		if strings.Contains(errMsg, "invalid character") {
			a.logger.Warn("LLM service returned non-JSON error response - this may be a transient server issue",
				zap.String("error", errMsg),
			)
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		return "", apperrors.NewLLMRequestFailed(currentModel, attempts, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.ErrLLMNoResponse
	}

	content := resp.Choices[0].Message.Content
	a.logger.Debug("LLM completion generated",
		zap.String("model", currentModel),
		zap.Int("attempts", attempts),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return content, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
