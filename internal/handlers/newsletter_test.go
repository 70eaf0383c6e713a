package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imobireport/newsroom-backend/internal/domain"
	"github.com/imobireport/newsroom-backend/internal/logger"
)

type fakeService struct {
	lastReq domain.GenerationRequest
	result  domain.GenerationResult
	run     *domain.NewsletterRun
	runs    []*domain.NewsletterRun
}

func (f *fakeService) Generate(_ context.Context, req domain.GenerationRequest) domain.GenerationResult {
	f.lastReq = req
	return f.result
}

func (f *fakeService) Compose(structure domain.NewsletterStructure, _ []int) ([]string, string) {
	links := append([]string(nil), structure.LeadLinks...)
	return links, "instruções geradas"
}

func (f *fakeService) GetRun(_ context.Context, id uuid.UUID) (*domain.NewsletterRun, error) {
	if f.run != nil && f.run.ID == id {
		return f.run, nil
	}
	return nil, nil
}

func (f *fakeService) ListRuns(_ context.Context, _ int) ([]*domain.NewsletterRun, error) {
	return f.runs, nil
}

func testRouter(t *testing.T, svc *fakeService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := NewNewsletterHandler(svc, log)
	r := gin.New()
	r.POST("/api/newsletters/generate", h.Generate)
	r.POST("/api/newsletters/compose", h.Compose)
	r.GET("/api/newsletters/runs", h.ListRuns)
	r.GET("/api/newsletters/runs/:id", h.GetRun)
	r.GET("/api/models", h.ListModels)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	svc := &fakeService{result: domain.GenerationResult{Success: true, Content: "texto", LinksProcessed: 2}}
	r := testRouter(t, svc)

	w := doJSON(t, r, http.MethodPost, "/api/newsletters/generate", map[string]any{
		"links":         []string{"https://a.example/1", "https://a.example/2"},
		"instructions":  "A matéria de abertura deve usar os dois primeiros links.",
		"lead_override": []int{1},
		"model":         "gpt-4o-mini",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	var result domain.GenerationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || result.Content != "texto" {
		t.Fatalf("result = %#v", result)
	}
	if svc.lastReq.Model != "gpt-4o-mini" || len(svc.lastReq.LeadOverride) != 1 {
		t.Fatalf("req = %#v", svc.lastReq)
	}
}

func TestGenerateEndpointRejectsMissingLinks(t *testing.T) {
	r := testRouter(t, &fakeService{})
	w := doJSON(t, r, http.MethodPost, "/api/newsletters/generate", map[string]any{
		"instructions": "qualquer",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "invalid_request" {
		t.Fatalf("envelope = %#v", env)
	}
}

func TestComposeEndpoint(t *testing.T) {
	r := testRouter(t, &fakeService{})
	w := doJSON(t, r, http.MethodPost, "/api/newsletters/compose", map[string]any{
		"structure": map[string]any{
			"lead_links": []string{"https://a.example/1"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	var resp composeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Links) != 1 || resp.Instructions == "" {
		t.Fatalf("resp = %#v", resp)
	}
}

func TestGetRunEndpoint(t *testing.T) {
	run := &domain.NewsletterRun{ID: uuid.New(), Model: "gpt-5"}
	r := testRouter(t, &fakeService{run: run})

	w := doJSON(t, r, http.MethodGet, "/api/newsletters/runs/"+run.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/newsletters/runs/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/newsletters/runs/nao-é-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestListRunsEndpointValidatesLimit(t *testing.T) {
	r := testRouter(t, &fakeService{runs: []*domain.NewsletterRun{{ID: uuid.New()}}})

	w := doJSON(t, r, http.MethodGet, "/api/newsletters/runs?limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/newsletters/runs?limit=zero", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestListModelsEndpoint(t *testing.T) {
	r := testRouter(t, &fakeService{})
	w := doJSON(t, r, http.MethodGet, "/api/models", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("no models returned")
	}
}
