package sessions

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

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

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.yaml")
	data := `
headers:
  User-Agent: "newsroom/1.0"
logins:
  valor.globo.com:
    strategy: globo_id
    start_url: https://login.globo.com/
    username: user@example.com
    password: s3cret
  outro.com.br:
    login_url: https://outro.com.br/login
    username: editor
    password: abc
    username_field: usuario
    extra_fields:
      remember: "1"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Headers["User-Agent"] != "newsroom/1.0" {
		t.Fatalf("headers = %#v", cfg.Headers)
	}
	globo := cfg.Logins["valor.globo.com"]
	if globo.Strategy != "globo_id" || globo.StartURL == "" {
		t.Fatalf("globo = %#v", globo)
	}
	outro := cfg.Logins["outro.com.br"]
	if outro.UsernameField != "usuario" || outro.ExtraFields["remember"] != "1" {
		t.Fatalf("outro = %#v", outro)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil || len(cfg.Logins) != 0 {
		t.Fatalf("cfg = %#v, err = %v", cfg, err)
	}
}

func TestClientForCachesPerDomain(t *testing.T) {
	m := NewManager(Config{}, time.Second, testLogger(t))
	a := m.ClientFor("a.example")
	b := m.ClientFor("b.example")
	if a == b {
		t.Fatalf("domains share a client")
	}
	if m.ClientFor("a.example") != a {
		t.Fatalf("client not cached")
	}
	if a.Jar == nil {
		t.Fatalf("client without cookie jar")
	}
}

func TestStandardLoginPostsCredentials(t *testing.T) {
	var gotUser, gotPass, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			r.ParseForm()
			gotUser = r.PostFormValue("usuario")
			gotPass = r.PostFormValue("password")
			gotExtra = r.PostFormValue("remember")
		}
	}))
	defer srv.Close()

	cfg := Config{Logins: map[string]LoginConfig{
		"site.example": {
			LoginURL:      srv.URL + "/login",
			Username:      "editor",
			Password:      "s3cret",
			UsernameField: "usuario",
			ExtraFields:   map[string]string{"remember": "1"},
		},
	}}
	NewManager(cfg, time.Second, testLogger(t)).ClientFor("site.example")

	if gotUser != "editor" || gotPass != "s3cret" || gotExtra != "1" {
		t.Fatalf("form = %q %q %q", gotUser, gotPass, gotExtra)
	}
}

func TestGloboIDLoginTwoSteps(t *testing.T) {
	var emailPosted, passwordPosted string
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<form action="/step2" method="post">
			  <input name="csrf" value="tok1">
			  <input name="email" value="">
			</form></body></html>`))
	})
	mux.HandleFunc("/step2", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		emailPosted = r.PostFormValue("email")
		if r.PostFormValue("csrf") != "tok1" {
			http.Error(w, "missing token", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`<html><body>
			<form action="/finish" method="post">
			  <input name="csrf" value="tok2">
			  <input name="senha" value="">
			</form></body></html>`))
	})
	mux.HandleFunc("/finish", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		passwordPosted = r.PostFormValue("senha")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := Config{Logins: map[string]LoginConfig{
		"globo.example": {
			Strategy: "globo_id",
			StartURL: srv.URL + "/start",
			Username: "user@example.com",
			Password: "s3nh4",
		},
	}}
	NewManager(cfg, time.Second, testLogger(t)).ClientFor("globo.example")

	if emailPosted != "user@example.com" {
		t.Fatalf("email = %q", emailPosted)
	}
	if passwordPosted != "s3nh4" {
		t.Fatalf("senha = %q", passwordPosted)
	}
}

func TestFindFormWithField(t *testing.T) {
	page := `<html><body>
		<form action="/search"><input name="q"></form>
		<form action="/login" method="get">
		  <input name="csrf" value="abc">
		  <input name="Password" value="">
		</form></body></html>`
	form := findFormWithField(page, []string{"password", "senha"})
	if form == nil {
		t.Fatalf("form not found")
	}
	if form.Action != "/login" || form.Method != "GET" {
		t.Fatalf("form = %#v", form)
	}
	if _, ok := form.Fields["csrf"]; !ok {
		t.Fatalf("fields = %#v", form.Fields)
	}
	if findFormWithField(page, []string{"token"}) != nil {
		t.Fatalf("unexpected match")
	}
}
