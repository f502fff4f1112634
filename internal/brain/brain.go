// Package brain answers commands no local skill claimed, through an
// OpenAI-compatible chat endpoint.
package brain

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aura/internal/config"
)

// ErrNotConfigured means no API key was provided.
var ErrNotConfigured = errors.New("language model not configured")

// ErrEmptyReply means the model answered with no usable text.
var ErrEmptyReply = errors.New("language model returned empty reply")

type Brain struct {
	client     openai.Client
	model      openai.ChatModel
	persona    string
	configured bool
	log        *slog.Logger
}

// New builds a client against cfg's OpenRouter endpoint. httpClient may be
// nil. A missing API key is not an error here; Reply reports it per call.
func New(cfg config.Config, httpClient *http.Client, log *slog.Logger) *Brain {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenRouterKey),
		option.WithBaseURL(cfg.OpenRouterURL),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.AppName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.AppName))
	}

	return &Brain{
		client:     openai.NewClient(opts...),
		model:      openai.ChatModel(cfg.OpenRouterModel),
		persona:    config.PersonaPrompt,
		configured: cfg.OpenRouterKey != "",
		log:        log.With("component", "brain"),
	}
}

// Reply sends text to the model and returns its answer, trimmed.
func (b *Brain) Reply(ctx context.Context, text string) (string, error) {
	if !b.configured {
		return "", ErrNotConfigured
	}

	completion, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(b.persona),
			openai.UserMessage(text),
		},
		MaxTokens:   openai.Int(500),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyReply
	}
	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}

	b.log.Debug("model replied", "model", string(b.model), "chars", len(reply))
	return reply, nil
}
