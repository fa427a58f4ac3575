// Package coach produces the AI coach reply for a chat turn.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const (
	// SystemPrompt frames every completion request.
	SystemPrompt = "You are a helpful AI Coach."
	// FallbackReply is returned when the completion endpoint fails.
	FallbackReply = "I'm having trouble thinking right now, but I heard you."
)

// Responder turns a user message into a coach reply. It never fails.
type Responder interface {
	Respond(ctx context.Context, userText string) string
}

// Generator is a completion capability that may fail.
type Generator interface {
	Generate(ctx context.Context, userText string) (string, error)
}

// PlaceholderResponder echoes the input. Used when no API key is configured.
type PlaceholderResponder struct{}

// Respond echoes userText inside the fixed placeholder reply.
func (PlaceholderResponder) Respond(_ context.Context, userText string) string {
	return fmt.Sprintf("I am your AI Coach. I received: %s. (Gemini integration pending API Key)", userText)
}

// ChatModelGenerator sends the system framing plus the user text to a chat model.
type ChatModelGenerator struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

// NewChatModelGenerator wraps chatModel. A zero timeout leaves ctx untouched.
func NewChatModelGenerator(chatModel model.BaseChatModel, timeout time.Duration) *ChatModelGenerator {
	return &ChatModelGenerator{chatModel: chatModel, timeout: timeout}
}

// Generate returns the model reply. An empty reply is an error.
func (g *ChatModelGenerator) Generate(ctx context.Context, userText string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(SystemPrompt),
		schema.UserMessage(userText),
	})
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", errors.New("generate completion: empty response")
	}
	return resp.Content, nil
}

// FallbackResponder wraps a Generator and replaces any error with FallbackReply.
// Errors are only logged.
type FallbackResponder struct {
	gen    Generator
	logger *zap.Logger
}

// NewFallbackResponder wraps gen.
func NewFallbackResponder(gen Generator, logger *zap.Logger) *FallbackResponder {
	return &FallbackResponder{gen: gen, logger: logger.Named("coach")}
}

// Respond implements Responder.
func (r *FallbackResponder) Respond(ctx context.Context, userText string) string {
	reply, err := r.gen.Generate(ctx, userText)
	if err != nil {
		r.logger.Warn("completion failed, using fallback reply", zap.Error(err))
		return FallbackReply
	}
	return reply
}
