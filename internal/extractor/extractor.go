// Package extractor downloads each source link and turns it into a content
// record carrying its 1-based position. Extraction runs with bounded
// parallelism and never fails the batch: a broken link becomes a failed
// record in its slot, every other position is untouched.
package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imobireport/newsroom-backend/internal/diag"
	"github.com/imobireport/newsroom-backend/internal/domain"
	"github.com/imobireport/newsroom-backend/internal/logger"
)

const (
	defaultWorkers  = 5
	defaultCacheTTL = time.Hour
	maxBodyBytes    = 8 << 20

	userAgent = "Mozilla/5.0 (compatible; ImobiNewsroomBot/1.0)"
)

// SessionProvider hands out the HTTP client for a source domain. Domains
// behind a paywall get a logged-in client with its cookie jar; everything
// else gets a plain one.
type SessionProvider interface {
	ClientFor(domain string) *http.Client
}

// Cache stores extracted records keyed by URL so repeated generations do not
// re-download unchanged sources.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Extractor struct {
	sessions SessionProvider
	cache    Cache
	workers  int
	cacheTTL time.Duration
	fallback *http.Client
	log      *logger.Logger
}

func New(sessions SessionProvider, cache Cache, workers int, log *logger.Logger) *Extractor {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Extractor{
		sessions: sessions,
		cache:    cache,
		workers:  workers,
		cacheTTL: defaultCacheTTL,
		fallback: &http.Client{Timeout: 30 * time.Second},
		log:      log.With("component", "extractor"),
	}
}

// ExtractAll fetches every link concurrently and returns one record per
// position, in input order. Worker failures are folded into their own record
// and never cancel the siblings.
func (e *Extractor) ExtractAll(ctx context.Context, links []string, rec *diag.Recorder) []domain.ContentRecord {
	results := make([]domain.ContentRecord, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			results[i] = e.extractOne(gctx, i+1, link)
			return nil
		})
	}
	g.Wait()

	if rec != nil {
		for _, r := range results {
			if !r.Success {
				rec.Record(diag.StageExtract, []int{r.Position}, "extração falhou (%s): %s", r.URL, r.Error)
			}
		}
	}
	return results
}

func (e *Extractor) extractOne(ctx context.Context, pos int, link string) domain.ContentRecord {
	record := domain.ContentRecord{
		Position:    pos,
		URL:         link,
		SourceLabel: PrettySource(link),
	}
	if strings.TrimSpace(link) == "" {
		record.Error = "empty_link"
		return record
	}

	cacheKey := "extract:" + link
	if e.cache != nil {
		var cached domain.ContentRecord
		if ok, err := e.cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
			cached.Position = pos
			cached.URL = link
			return cached
		}
	}

	title, text, err := e.fetch(ctx, link)
	record.Title = title
	if err != nil {
		e.log.Warn("falha ao extrair link", "url", link, "error", err)
		record.Error = "exception:" + err.Error()
		return record
	}
	if strings.TrimSpace(text) == "" {
		record.Error = "extraction_failed"
		return record
	}
	record.Text = strings.TrimSpace(text)
	record.Success = true

	if e.cache != nil {
		if err := e.cache.SetJSON(ctx, cacheKey, record, e.cacheTTL); err != nil {
			e.log.Debug("cache de extração indisponível", "url", link, "error", err)
		}
	}
	return record
}

func (e *Extractor) fetch(ctx context.Context, link string) (title, text string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.clientFor(link).Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("http status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", err
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.HasSuffix(strings.ToLower(link), ".pdf") || strings.Contains(contentType, "application/pdf") {
		text, err = parsePDF(raw)
		return "", text, err
	}
	title, text = parseHTML(string(raw))
	return title, text, nil
}

func (e *Extractor) clientFor(link string) *http.Client {
	if e.sessions != nil {
		if c := e.sessions.ClientFor(Domain(link)); c != nil {
			return c
		}
	}
	return e.fallback
}
