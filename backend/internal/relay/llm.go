package relay

import (
	"context"
	"time"

	apperrors "codegraph/backend/pkg/errors"
	"codegraph/backend/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const chatMaxRetries = 3

// ChatRelay forwards chat-completion requests to the configured
// OpenAI-compatible forwarder.
type ChatRelay struct {
	client     *openai.Client
	model      string
	configured bool
	logger     *zap.Logger
}

// NewChatRelay creates a relay against the forwarder at baseURL. An
// empty baseURL leaves the relay unconfigured; calls then fail with a
// config error instead of hitting the network.
func NewChatRelay(baseURL, forwardToken, modelID string) *ChatRelay {
	if baseURL == "" {
		return &ChatRelay{logger: logger.Get()}
	}

	cfg := openai.DefaultConfig(forwardToken)
	cfg.BaseURL = baseURL + "/v1"

	return &ChatRelay{
		client:     openai.NewClientWithConfig(cfg),
		model:      modelID,
		configured: true,
		logger:     logger.Get(),
	}
}

// Forward sends the user query, prefixed by an optional system-context
// message, and returns the completion content. Transient upstream
// failures are retried with linear backoff before giving up.
func (r *ChatRelay) Forward(ctx context.Context, query, systemContext string) (string, error) {
	if !r.configured {
		return "", apperrors.NewRelayNotConfigured("chat")
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemContext != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemContext,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: query,
	})

	req := openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: messages,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < chatMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			r.logger.Warn("Retrying chat relay request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", apperrors.NewRelayFailed("chat", ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = r.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		r.logger.Error("Chat relay request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", r.model),
		)
	}
	if err != nil {
		return "", apperrors.NewRelayFailed("chat", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewRelayFailed("chat", nil)
	}

	r.logger.Debug("Chat relay response received",
		zap.String("model", r.model),
		zap.Int("content_len", len(resp.Choices[0].Message.Content)),
	)

	return resp.Choices[0].Message.Content, nil
}
