package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/forriz/concierge/internal/config"
)

// ErrUpstream wraps chat-completion failures (transport errors, rejections,
// empty responses) so callers can tell a model outage from their own faults.
var ErrUpstream = errors.New("chat completion failure")

// Generator produces chatbot answers.
type Generator interface {
	// AnswerRAG answers a question grounded in retrieved context.
	AnswerRAG(ctx context.Context, question, docContext, history string) (string, error)

	// AnswerDirect answers a question from model knowledge alone.
	AnswerDirect(ctx context.Context, question, history string) (string, error)
}

// ChatGenerator implements Generator against an OpenAI-compatible chat API.
// The grounded and ungrounded paths may target different models with their
// own token limits and temperatures.
type ChatGenerator struct {
	client openai.Client
	rag    config.ChatModelConfig
	direct config.ChatModelConfig
}

// NewChatGenerator creates a generator talking to baseURL with the given key.
func NewChatGenerator(baseURL, apiKey string, rag, direct config.ChatModelConfig) (*ChatGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("chat API key is required")
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &ChatGenerator{client: client, rag: rag, direct: direct}, nil
}

func (g *ChatGenerator) AnswerRAG(ctx context.Context, question, docContext, history string) (string, error) {
	prompt, err := BuildRAGPrompt(question, history, docContext)
	if err != nil {
		return "", err
	}
	return g.complete(ctx, prompt, g.rag)
}

func (g *ChatGenerator) AnswerDirect(ctx context.Context, question, history string) (string, error) {
	prompt, err := BuildDirectPrompt(question, history)
	if err != nil {
		return "", err
	}
	return g.complete(ctx, prompt, g.direct)
}

func (g *ChatGenerator) complete(ctx context.Context, prompt string, model config.ChatModelConfig) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       model.Model,
		MaxTokens:   openai.Int(int64(model.MaxTokens)),
		Temperature: openai.Float(model.TemperatureOrZero()),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Generator = (*ChatGenerator)(nil)
