// Package services orchestrates the newsletter pipeline: sanitize the link
// list, parse the instructions, extract sources, compile the constrained
// prompt, call the model and record the run.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/imobireport/newsroom-backend/internal/content"
	"github.com/imobireport/newsroom-backend/internal/diag"
	"github.com/imobireport/newsroom-backend/internal/domain"
	"github.com/imobireport/newsroom-backend/internal/instruction"
	"github.com/imobireport/newsroom-backend/internal/logger"
	"github.com/imobireport/newsroom-backend/internal/prompt"
	"github.com/imobireport/newsroom-backend/internal/repos"
)

type Extractor interface {
	ExtractAll(ctx context.Context, links []string, rec *diag.Recorder) []domain.ContentRecord
}

type TextRouter interface {
	Generate(ctx context.Context, modelChoice, system, prompt string) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, content string) (string, error)
}

type NewsletterService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
	Compose(structure domain.NewsletterStructure, leadOverride []int) ([]string, string)
	GetRun(ctx context.Context, id uuid.UUID) (*domain.NewsletterRun, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.NewsletterRun, error)
}

type newsletterService struct {
	extractor  Extractor
	router     TextRouter
	publisher  Publisher
	runs       repos.NewsletterRunRepo
	styleGuide string
	log        *logger.Logger
}

// NewNewsletterService wires the pipeline. Publisher and run repo may be
// nil; generation still works, it just skips publishing or persistence. The
// style guide is loaded once from STYLE_GUIDE_PATH.
func NewNewsletterService(ext Extractor, router TextRouter, pub Publisher, runs repos.NewsletterRunRepo, log *logger.Logger) NewsletterService {
	svc := &newsletterService{
		extractor: ext,
		router:    router,
		publisher: pub,
		runs:      runs,
		log:       log.With("service", "NewsletterService"),
	}
	if path := strings.TrimSpace(os.Getenv("STYLE_GUIDE_PATH")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			svc.log.Warn("guia de estilo indisponível", "path", path, "error", err)
		} else {
			svc.styleGuide = string(raw)
		}
	}
	return svc
}

func (s *newsletterService) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	start := time.Now()
	rec := diag.NewRecorder(s.log)

	if len(req.Links) == 0 {
		return domain.GenerationResult{Error: "nenhum link informado"}
	}

	links := content.SanitizeLinks(req.Links, rec)

	plan := instruction.Parse(req.Instructions)
	if len(req.LeadOverride) > 0 {
		plan.Lead = append([]int(nil), req.LeadOverride...)
	}

	records := s.extractor.ExtractAll(ctx, links, rec)
	aligned := content.Align(links, records, rec)

	promptText := prompt.NewCompiler(rec).Compile(plan, aligned, s.styleGuide)

	result := domain.GenerationResult{LinksProcessed: len(links)}
	text, err := s.router.Generate(ctx, req.Model, prompt.SystemTone, promptText)
	switch {
	case err != nil:
		result.Error = err.Error()
	case strings.TrimSpace(text) == "":
		result.Error = "IA não retornou conteúdo."
	default:
		result.Success = true
		result.Content = text
	}

	if result.Success && s.publisher != nil {
		docURL, pubErr := s.publisher.Publish(ctx, result.Content)
		if pubErr != nil {
			rec.Record(diag.StagePublish, nil, "falha ao publicar documento: %v", pubErr)
		} else {
			result.DocURL = docURL
		}
	}

	result.RunID = s.persistRun(ctx, req, plan, result, time.Since(start))
	return result
}

// persistRun records the generation for history. Persistence failures never
// fail the generation itself.
func (s *newsletterService) persistRun(ctx context.Context, req domain.GenerationRequest, plan domain.Plan, result domain.GenerationResult, elapsed time.Duration) string {
	if s.runs == nil {
		return ""
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		s.log.Warn("falha ao serializar plano", "error", err)
		planJSON = []byte("{}")
	}

	run := &domain.NewsletterRun{
		ID:           uuid.New(),
		Model:        req.Model,
		Instructions: req.Instructions,
		LinksCount:   len(req.Links),
		Success:      result.Success,
		Error:        result.Error,
		DocURL:       result.DocURL,
		Content:      result.Content,
		PlanJSON:     datatypes.JSON(planJSON),
		DurationMS:   elapsed.Milliseconds(),
	}
	if _, err := s.runs.Create(ctx, nil, run); err != nil {
		s.log.Warn("falha ao persistir execução", "error", err)
		return ""
	}
	return run.ID.String()
}

// Compose flattens a structured layout into the link list plus instruction
// text, appending the imperative lead sentence when the editor pinned the
// opening story.
func (s *newsletterService) Compose(structure domain.NewsletterStructure, leadOverride []int) ([]string, string) {
	links, text := instruction.Encode(structure)
	if sentence := instruction.LeadOverrideSentence(leadOverride); sentence != "" {
		text = strings.TrimSpace(text + " " + sentence)
	}
	return links, text
}

func (s *newsletterService) GetRun(ctx context.Context, id uuid.UUID) (*domain.NewsletterRun, error) {
	if s.runs == nil {
		return nil, errors.New("persistência não configurada")
	}
	return s.runs.GetByID(ctx, nil, id)
}

func (s *newsletterService) ListRuns(ctx context.Context, limit int) ([]*domain.NewsletterRun, error) {
	if s.runs == nil {
		return nil, errors.New("persistência não configurada")
	}
	return s.runs.ListRecent(ctx, nil, limit)
}
