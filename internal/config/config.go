package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vilaca/github-issues/internal/domain"
	"github.com/vilaca/github-issues/internal/logger"
)

// Config holds application configuration.
type Config struct {
	Platform string `env:"ISSUES_PLATFORM" env-default:"github"`

	// GitHub configuration
	GitHubURL   string `env:"GITHUB_URL" env-default:"https://api.github.com"`
	GitHubToken string `env:"GITHUB_TOKEN"`

	// GitLab configuration
	GitLabURL   string `env:"GITLAB_URL" env-default:"https://gitlab.com"`
	GitLabToken string `env:"GITLAB_TOKEN"`

	// Export configuration
	Output     string `env:"ISSUES_OUTPUT" env-default:"issues.csv"`
	Delimiter  string `env:"ISSUES_DELIMITER" env-default:"comma"`
	Hyperlinks bool   `env:"ISSUES_HYPERLINKS" env-default:"false"`

	// RulesFile is an optional YAML file with triage rules.
	RulesFile string `env:"ISSUES_RULES_FILE"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" env-default:"30s"`
	PageSize    int           `env:"ISSUES_PAGE_SIZE" env-default:"100"`

	Logger logger.Config
}

// Load loads configuration from environment variables, after reading a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cleanenv cannot.
func (c *Config) Validate() error {
	switch c.Platform {
	case domain.PlatformGitHub, domain.PlatformGitLab:
	default:
		return fmt.Errorf("%w: unsupported platform %q (use github or gitlab)", domain.ErrInvalidConfig, c.Platform)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// Token returns the access token of the selected platform.
func (c *Config) Token() string {
	if c.Platform == domain.PlatformGitLab {
		return c.GitLabToken
	}
	return c.GitHubToken
}

// BaseURL returns the API base URL of the selected platform.
func (c *Config) BaseURL() string {
	if c.Platform == domain.PlatformGitLab {
		return c.GitLabURL
	}
	return c.GitHubURL
}

// SetBaseURL overrides the API base URL of the selected platform.
func (c *Config) SetBaseURL(url string) {
	if c.Platform == domain.PlatformGitLab {
		c.GitLabURL = url
		return
	}
	c.GitHubURL = url
}

// SetToken overrides the access token of the selected platform.
func (c *Config) SetToken(token string) {
	if c.Platform == domain.PlatformGitLab {
		c.GitLabToken = token
		return
	}
	c.GitHubToken = token
}

// Rules holds triage rules read from a YAML file:
//
//	maintainers:
//	  - alice
//	  - bob
type Rules struct {
	// Maintainers, when non-empty, marks open issues not assigned to one
	// of these logins as blocked.
	Maintainers []string `yaml:"maintainers"`
}

// LoadRules reads triage rules from path. An empty path or empty file
// yields the default rules.
func LoadRules(path string) (*Rules, error) {
	rules := &Rules{}
	if path == "" {
		return rules, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, path, err)
	}

	maintainers := make([]string, 0, len(rules.Maintainers))
	for i, m := range rules.Maintainers {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, fmt.Errorf("%w: %s: maintainers[%d] is empty", domain.ErrInvalidConfig, path, i)
		}
		maintainers = append(maintainers, m)
	}
	rules.Maintainers = maintainers

	return rules, nil
}
