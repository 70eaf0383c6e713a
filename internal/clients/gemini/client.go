// Package gemini wraps the official genai client for plain-text newsletter
// generation.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"github.com/imobireport/newsroom-backend/internal/logger"
)

var ErrEmptyResponse = errors.New("gemini: empty response from model")

type Client interface {
	// GenerateText sends one prompt to the given model. An empty model
	// falls back to GEMINI_MODEL.
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

type client struct {
	log   *logger.Logger
	cli   *genai.Client
	model string
}

// NewClient reads GOOGLE_API_KEY via the genai SDK's own environment
// handling and verifies the key is present so a misconfigured deploy fails
// at startup instead of mid-generation.
func NewClient(ctx context.Context, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")) == "" && strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = "gemini-2.5-pro"
	}

	return &client{log: log.With("service", "GeminiClient"), cli: cli, model: model}, nil
}

func (c *client) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = c.model
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := c.cli.Models.GenerateContent(ctx, model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{},
		)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyResponse
		} else {
			text := resp.Candidates[0].Content.Parts[0].Text
			if strings.TrimSpace(text) == "" {
				lastErr = ErrEmptyResponse
			} else {
				return text, nil
			}
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.log.Warn("Gemini request retrying",
			"model", model,
			"attempt", attempt+1,
			"error", lastErr.Error(),
		)
		time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
	}
	return "", lastErr
}
