package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imobireport/newsroom-backend/internal/domain"
	"github.com/imobireport/newsroom-backend/internal/llm"
	"github.com/imobireport/newsroom-backend/internal/logger"
	"github.com/imobireport/newsroom-backend/internal/services"
)

type NewsletterHandler struct {
	svc services.NewsletterService
	log *logger.Logger
}

func NewNewsletterHandler(svc services.NewsletterService, log *logger.Logger) *NewsletterHandler {
	return &NewsletterHandler{svc: svc, log: log.With("handler", "NewsletterHandler")}
}

type generateRequest struct {
	Links        []string `json:"links" binding:"required"`
	Instructions string   `json:"instructions"`
	LeadOverride []int    `json:"lead_override"`
	Model        string   `json:"model"`
}

// Generate runs the whole pipeline. A generation that fails inside the
// pipeline is still a 200: the envelope carries success=false and the error,
// mirroring what gets persisted for the run.
func (h *NewsletterHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result := h.svc.Generate(c.Request.Context(), domain.GenerationRequest{
		Links:        req.Links,
		Instructions: req.Instructions,
		LeadOverride: req.LeadOverride,
		Model:        req.Model,
	})
	RespondOK(c, result)
}

type composeRequest struct {
	Structure    domain.NewsletterStructure `json:"structure" binding:"required"`
	LeadOverride []int                      `json:"lead_override"`
}

type composeResponse struct {
	Links        []string `json:"links"`
	Instructions string   `json:"instructions"`
}

// Compose turns a structured layout into the flat link list plus the
// instruction text the parser understands, so editors can preview or tweak
// the text before generating.
func (h *NewsletterHandler) Compose(c *gin.Context) {
	var req composeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	links, instructions := h.svc.Compose(req.Structure, req.LeadOverride)
	RespondOK(c, composeResponse{Links: links, Instructions: instructions})
}

func (h *NewsletterHandler) ListRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	runs, err := h.svc.ListRuns(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, runs)
}

func (h *NewsletterHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	run, err := h.svc.GetRun(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	if run == nil {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("run not found"))
		return
	}
	RespondOK(c, run)
}

// ListModels exposes the model catalog with each model's context limits.
func (h *NewsletterHandler) ListModels(c *gin.Context) {
	type modelInfo struct {
		Choice string            `json:"choice"`
		Limits llm.ContextLimits `json:"limits"`
	}
	out := make([]modelInfo, 0, len(llm.ModelChoices))
	for _, choice := range llm.ModelChoices {
		out = append(out, modelInfo{Choice: choice, Limits: llm.ContextLimitsFor(choice)})
	}
	RespondOK(c, out)
}
