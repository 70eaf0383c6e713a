// Package sessions maintains per-domain HTTP clients for the source sites.
// Paywalled domains are logged in once and keep their cookies for the rest
// of the process; every other domain gets a plain client.
package sessions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoginConfig describes how to authenticate against one domain.
type LoginConfig struct {
	// Strategy selects the login flow: "standard" (single POST) or
	// "globo_id" (two-step email then password).
	Strategy string `yaml:"strategy"`

	LoginURL string `yaml:"login_url"`
	StartURL string `yaml:"start_url"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Field names for the standard strategy, defaulting to
	// "username"/"password".
	UsernameField string            `yaml:"username_field"`
	PasswordField string            `yaml:"password_field"`
	ExtraFields   map[string]string `yaml:"extra_fields"`
}

// Config is the sessions file: shared request headers plus the login recipe
// per source domain.
type Config struct {
	Headers map[string]string      `yaml:"headers"`
	Logins  map[string]LoginConfig `yaml:"logins"`
}

// LoadConfig reads the YAML sessions file. An empty path yields an empty
// config, which means plain anonymous clients for every domain.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ler configuração de sessões: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("interpretar configuração de sessões: %w", err)
	}
	return cfg, nil
}
