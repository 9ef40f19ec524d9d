package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Environment variables that override the login credentials of a config file.
const (
	EnvUsername = "FREEE_CHECKIN_USERNAME"
	EnvPassword = "FREEE_CHECKIN_PASSWORD"
)

// DefaultSelectors are used for any login field the config leaves empty.
var DefaultSelectors = Selectors{
	Username: `input[type="email"], input[type="text"], input[name*="user"], input[name*="email"]`,
	Password: `input[type="password"]`,
	Submit:   `button[type="submit"], input[type="submit"], button:has-text("login"), button:has-text("sign in")`,
}

// Config is a parsed automation script
type Config struct {
	Login   *Login   `json:"login,omitempty" yaml:"login,omitempty"`
	Actions []Action `json:"actions" yaml:"actions"`
}

// Login describes the login form to submit before any action runs
type Login struct {
	URL       string    `json:"url" yaml:"url"`
	Username  string    `json:"username" yaml:"username"`
	Password  string    `json:"password" yaml:"password"`
	Selectors Selectors `json:"selectors,omitempty" yaml:"selectors,omitempty"`
}

// Selectors overrides the login form field selectors
type Selectors struct {
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Submit   string `json:"submit,omitempty" yaml:"submit,omitempty"`
}

// WithDefaults fills every empty selector from DefaultSelectors.
func (s Selectors) WithDefaults() Selectors {
	if s.Username == "" {
		s.Username = DefaultSelectors.Username
	}
	if s.Password == "" {
		s.Password = DefaultSelectors.Password
	}
	if s.Submit == "" {
		s.Submit = DefaultSelectors.Submit
	}
	return s
}

// ConfigError reports a config file that could not be read, parsed or validated.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads, validates and decodes the config file at path. JSON and YAML are both accepted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse validates and decodes a config document.
func Parse(data []byte) (*Config, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to parse: %w", err)}
	}
	if doc == nil {
		return nil, &ConfigError{Err: fmt.Errorf("empty document")}
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to marshal to JSON: %w", err)}
	}
	if err := validate(jsonData); err != nil {
		return nil, &ConfigError{Err: err}
	}

	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to decode: %w", err)}
	}
	return &cfg, nil
}

// ApplySecrets replaces the login credentials with non-empty values found through lookup.
func (c *Config) ApplySecrets(lookup func(string) (string, bool)) {
	if c.Login == nil {
		return
	}
	if v, ok := lookup(EnvUsername); ok && v != "" {
		c.Login.Username = v
	}
	if v, ok := lookup(EnvPassword); ok && v != "" {
		c.Login.Password = v
	}
}
