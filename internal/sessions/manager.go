package sessions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/imobireport/newsroom-backend/internal/logger"
)

const defaultTimeout = 30 * time.Second

// Manager hands out one HTTP client per source domain. Clients are built
// lazily: the first request for a configured domain runs its login flow, and
// the resulting cookie jar is reused for the rest of the process. Login
// failures are logged and degrade to an anonymous client rather than
// blocking extraction.
type Manager struct {
	cfg     Config
	timeout time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	clients map[string]*http.Client
}

func NewManager(cfg Config, timeout time.Duration, log *logger.Logger) *Manager {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Manager{
		cfg:     cfg,
		timeout: timeout,
		log:     log.With("component", "sessions"),
		clients: map[string]*http.Client{},
	}
}

// ClientFor returns the client for a domain, creating and logging it in on
// first use.
func (m *Manager) ClientFor(domain string) *http.Client {
	m.mu.Lock()
	if c, ok := m.clients[domain]; ok {
		m.mu.Unlock()
		return c
	}
	m.mu.Unlock()

	client := m.newClient()
	if login, ok := m.cfg.Logins[domain]; ok {
		if err := m.login(client, login); err != nil {
			m.log.Warn("falha no login do domínio", "domain", domain, "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[domain]; ok {
		return c
	}
	m.clients[domain] = client
	return client
}

func (m *Manager) newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: m.timeout,
		Jar:     jar,
		Transport: &headerTransport{
			headers: m.cfg.Headers,
			base:    http.DefaultTransport,
		},
	}
}

func (m *Manager) login(client *http.Client, cfg LoginConfig) error {
	if cfg.Strategy == "globo_id" {
		return m.globoIDLogin(client, cfg)
	}
	return m.standardLogin(client, cfg)
}

// standardLogin warms cookies with a GET and posts the credentials in one
// form submit.
func (m *Manager) standardLogin(client *http.Client, cfg LoginConfig) error {
	if cfg.LoginURL == "" || cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	userField := cfg.UsernameField
	if userField == "" {
		userField = "username"
	}
	passField := cfg.PasswordField
	if passField == "" {
		passField = "password"
	}

	if resp, err := client.Get(cfg.LoginURL); err == nil {
		resp.Body.Close()
	}

	payload := url.Values{}
	payload.Set(userField, cfg.Username)
	payload.Set(passField, cfg.Password)
	for k, v := range cfg.ExtraFields {
		payload.Set(k, v)
	}

	resp, err := client.PostForm(cfg.LoginURL, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("login retornou status %d", resp.StatusCode)
	}
	return nil
}

// globoIDLogin runs the two-step Globo ID flow: submit the email form, then
// the password form, each discovered in the page the previous step returned.
func (m *Manager) globoIDLogin(client *http.Client, cfg LoginConfig) error {
	if cfg.StartURL == "" || cfg.Username == "" || cfg.Password == "" {
		return nil
	}

	page, pageURL, err := m.getPage(client, cfg.StartURL)
	if err != nil {
		return err
	}

	if form := findFormWithField(page, []string{"email", "login", "username"}); form != nil {
		page, pageURL, err = m.submitForm(client, pageURL, form, []string{"email", "login", "username"}, cfg.Username)
		if err != nil {
			return err
		}
	}

	if form := findFormWithField(page, []string{"password", "senha"}); form != nil {
		_, _, err = m.submitForm(client, pageURL, form, []string{"password", "senha"}, cfg.Password)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) getPage(client *http.Client, raw string) (string, *url.URL, error) {
	resp, err := client.Get(raw)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", nil, fmt.Errorf("status %d em %s", resp.StatusCode, raw)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	return string(body), resp.Request.URL, nil
}

// submitForm fills the first matching field with the value, keeps every
// other preset field and posts to the resolved action URL.
func (m *Manager) submitForm(client *http.Client, base *url.URL, form *loginForm, fieldNames []string, value string) (string, *url.URL, error) {
	payload := url.Values{}
	for k, v := range form.Fields {
		payload.Set(k, v)
	}
	for _, f := range fieldNames {
		if _, ok := form.Fields[f]; ok {
			payload.Set(f, value)
			break
		}
	}

	action := base
	if form.Action != "" {
		ref, err := url.Parse(form.Action)
		if err != nil {
			return "", nil, fmt.Errorf("action inválida %q: %w", form.Action, err)
		}
		action = base.ResolveReference(ref)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, action.String(), strings.NewReader(payload.Encode()))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", nil, fmt.Errorf("status %d ao submeter formulário", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	return string(body), resp.Request.URL, nil
}

// headerTransport applies the shared request headers before delegating.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
