package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// NewGeminiChatModel builds an eino chat model backed by the Gemini API.
func NewGeminiChatModel(ctx context.Context, apiKey, modelName string) (model.BaseChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini chat model: %w", err)
	}
	return chatModel, nil
}

// NewResponder picks the responder for the given key: a blank key yields the
// placeholder, anything else a Gemini-backed responder with fallback.
func NewResponder(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (Responder, error) {
	if strings.TrimSpace(apiKey) == "" {
		logger.Info("GEMINI_API_KEY not set, using placeholder coach replies")
		return PlaceholderResponder{}, nil
	}

	chatModel, err := NewGeminiChatModel(ctx, apiKey, modelName)
	if err != nil {
		return nil, err
	}
	logger.Info("gemini coach enabled", zap.String("model", modelName))
	return NewFallbackResponder(NewChatModelGenerator(chatModel, timeout), logger), nil
}
