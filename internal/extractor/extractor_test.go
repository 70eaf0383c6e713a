package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/imobireport/newsroom-backend/internal/domain"
	"github.com/imobireport/newsroom-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func TestExtractAllPreservesPositions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("<html><head><title>Nota boa</title></head><body><p>corpo da nota</p><script>x()</script></body></html>"))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	e := New(nil, nil, 3, testLogger(t))
	links := []string{srv.URL + "/ok", srv.URL + "/broken", srv.URL + "/ok"}

	out := e.ExtractAll(context.Background(), links, nil)
	if len(out) != 3 {
		t.Fatalf("out = %#v", out)
	}
	for i, r := range out {
		if r.Position != i+1 || r.URL != links[i] {
			t.Fatalf("record[%d] = %#v", i, r)
		}
	}
	if !out[0].Success || out[0].Title != "Nota boa" || !strings.Contains(out[0].Text, "corpo da nota") {
		t.Fatalf("out[0] = %#v", out[0])
	}
	if strings.Contains(out[0].Text, "x()") {
		t.Fatalf("script text leaked: %#v", out[0].Text)
	}
	if out[1].Success || !strings.Contains(out[1].Error, "500") {
		t.Fatalf("out[1] = %#v", out[1])
	}
}

func TestExtractAllEmptyLink(t *testing.T) {
	e := New(nil, nil, 1, testLogger(t))
	out := e.ExtractAll(context.Background(), []string{""}, nil)
	if out[0].Success || out[0].Error != "empty_link" || out[0].Position != 1 {
		t.Fatalf("out = %#v", out[0])
	}
}

func TestExtractAllUsesCache(t *testing.T) {
	var hits int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.Write([]byte("<html><head><title>T</title></head><body>texto</body></html>"))
	}))
	defer srv.Close()

	cache := newMemCache()
	e := New(nil, cache, 1, testLogger(t))
	link := srv.URL + "/artigo"

	e.ExtractAll(context.Background(), []string{link}, nil)
	out := e.ExtractAll(context.Background(), []string{link}, nil)

	mu.Lock()
	defer mu.Unlock()
	if hits != 1 {
		t.Fatalf("hits = %d", hits)
	}
	if !out[0].Success || out[0].Position != 1 {
		t.Fatalf("out = %#v", out[0])
	}
}

func TestExtractAllCachedRecordRebased(t *testing.T) {
	cache := newMemCache()
	link := "https://site.example/artigo"
	cache.SetJSON(context.Background(), "extract:"+link, domain.ContentRecord{
		Position: 7, URL: "https://site.example/outro", Title: "T", Text: "corpo", Success: true,
	}, 0)

	e := New(nil, cache, 1, testLogger(t))
	out := e.ExtractAll(context.Background(), []string{link}, nil)
	if out[0].Position != 1 || out[0].URL != link || !out[0].Success {
		t.Fatalf("out = %#v", out[0])
	}
}

func TestDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.valor.globo.com/noticia": "valor.globo.com",
		"http://exame.com/x":                  "exame.com",
		"https://host.example:8443/a":         "host.example",
		"not a url":                           "unknown",
	}
	for in, want := range cases {
		if got := Domain(in); got != want {
			t.Fatalf("Domain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrettySource(t *testing.T) {
	cases := map[string]string{
		"https://valor.globo.com/noticia":      "Valor Econômico",
		"https://www.imobireport.com.br/post":  "Imobi Report",
		"https://meu-portal.net/x":             "Meu Portal",
		"https://blog.casa-e-mercado.net/post": "Casa E Mercado",
	}
	for in, want := range cases {
		if got := PrettySource(in); got != want {
			t.Fatalf("PrettySource(%q) = %q, want %q", in, got, want)
		}
	}
}
