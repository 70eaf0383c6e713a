// Package llm routes a generation request to the configured model provider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imobireport/newsroom-backend/internal/logger"
)

// OpenAIProvider and GeminiProvider are the two backends the router knows.
type OpenAIProvider interface {
	GenerateText(ctx context.Context, model, system, user string) (string, error)
}

type GeminiProvider interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// Router resolves a "Provider: model" choice to a provider call. A choice
// with an explicit provider is honored and its failure surfaces directly; a
// bare model name falls through the configured providers accumulating their
// errors.
type Router struct {
	openai OpenAIProvider
	gemini GeminiProvider
	log    *logger.Logger
}

func NewRouter(oa OpenAIProvider, gm GeminiProvider, log *logger.Logger) *Router {
	return &Router{openai: oa, gemini: gm, log: log.With("component", "llm")}
}

// ParseChoice splits "Provider: model" into a lowercased provider and the
// bare model name. Without the colon form, the provider is inferred from the
// model name when possible.
func ParseChoice(raw string) (provider, model string) {
	raw = strings.TrimSpace(raw)
	if before, after, ok := strings.Cut(raw, ":"); ok {
		return strings.ToLower(strings.TrimSpace(before)), strings.TrimSpace(after)
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "gemini") || strings.Contains(lower, "google"):
		return "gemini", raw
	case strings.Contains(lower, "gpt") || strings.Contains(lower, "openai"):
		return "openai", raw
	}
	return "", raw
}

func (r *Router) Generate(ctx context.Context, modelChoice, system, prompt string) (string, error) {
	provider, model := ParseChoice(modelChoice)
	r.log.Info("roteando geração",
		"provider", providerLabel(provider),
		"model", model,
		"openai_configured", r.openai != nil,
		"gemini_configured", r.gemini != nil,
	)

	switch provider {
	case "gemini":
		if r.gemini == nil {
			return "", errors.New("Gemini selecionado, mas GOOGLE_API_KEY não está configurada")
		}
		text, err := r.gemini.GenerateText(ctx, model, system+"\n\n"+prompt)
		if err != nil {
			return "", fmt.Errorf("falha ao chamar Gemini (%s): %w", orDefault(model, "gemini-2.5-pro"), err)
		}
		return text, nil
	case "openai":
		if r.openai == nil {
			return "", errors.New("OpenAI selecionado, mas OPENAI_API_KEY não está configurada")
		}
		text, err := r.openai.GenerateText(ctx, model, system, prompt)
		if err != nil {
			return "", fmt.Errorf("falha ao chamar OpenAI (%s): %w", orDefault(model, "gpt-4o-mini"), err)
		}
		return text, nil
	}

	var failures []string
	if r.openai != nil {
		oaModel := ""
		if strings.Contains(strings.ToLower(model), "gpt") {
			oaModel = model
		}
		text, err := r.openai.GenerateText(ctx, oaModel, system, prompt)
		if err == nil {
			return text, nil
		}
		failures = append(failures, fmt.Sprintf("OpenAI(%s): %v", orDefault(oaModel, "gpt-4o-mini"), err))
	}
	if r.gemini != nil {
		gmModel := ""
		if strings.Contains(strings.ToLower(model), "gemini") {
			gmModel = model
		}
		text, err := r.gemini.GenerateText(ctx, gmModel, system+"\n\n"+prompt)
		if err == nil {
			return text, nil
		}
		failures = append(failures, fmt.Sprintf("Gemini(%s): %v", orDefault(gmModel, "gemini-2.5-pro"), err))
	}

	if len(failures) > 0 {
		return "", errors.New("falhas ao chamar LLM: " + strings.Join(failures, " | "))
	}
	return "", errors.New("nenhum provedor de LLM disponível: verifique GOOGLE_API_KEY/OPENAI_API_KEY e o nome do modelo")
}

func providerLabel(p string) string {
	if p == "" {
		return "auto"
	}
	return p
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
