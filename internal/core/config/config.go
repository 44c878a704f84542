// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

// Package config handles loading and merging dryad-curator configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Jira configures the issue tracker.
	Jira JiraConfig `yaml:"jira"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the optional Pushgateway export.
	Metrics MetricsConfig `yaml:"metrics"`

	// Workflow is a preset workflow name (e.g., "dryad-email").
	Workflow string `yaml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty"`
}

// JiraConfig holds the Jira site, project and credentials.
type JiraConfig struct {
	BaseURL     string           `yaml:"base_url"`
	Project     string           `yaml:"project"`
	IssueType   string           `yaml:"issue_type"`
	Email       string           `yaml:"email,omitempty"`
	Token       string           `yaml:"token,omitempty"`
	BearerToken string           `yaml:"bearer_token,omitempty"`
	Fields      JiraFieldsConfig `yaml:"fields"`
}

// JiraFieldsConfig holds the custom field ids of the curation issue type.
type JiraFieldsConfig struct {
	DatasetName    string `yaml:"dataset_name"`
	DOI            string `yaml:"doi"`
	Depositor      string `yaml:"depositor"`
	CurationStatus string `yaml:"curation_status"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Pushgateway settings. Metrics are not exported when
// PushgatewayURL is empty.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty"`
	Job            string `yaml:"job,omitempty"`
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseRaw(data)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	cfg.applyDefaults()

	return cfg, nil
}

// Default returns a config populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// parseRaw expands environment variables and decodes YAML without applying defaults.
func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := parseRaw(data)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		cfg.applyDefaults()
		return cfg, nil
	}

	// Fetch and parse the parent config
	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	parentCfg, err := parseRaw(parentData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	// Search in common locations
	candidates := []string{
		".dryad-curator.yaml",
		".dryad-curator.yml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "dryad-curator", "config.yaml"))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Jira.BaseURL == "" {
		c.Jira.BaseURL = "https://ucsb-atlas.atlassian.net/rest/api/3"
	}
	if c.Jira.Project == "" {
		c.Jira.Project = "RDS"
	}
	if c.Jira.IssueType == "" {
		c.Jira.IssueType = "Curation"
	}
	if c.Jira.Fields.DatasetName == "" {
		c.Jira.Fields.DatasetName = "customfield_10394"
	}
	if c.Jira.Fields.DOI == "" {
		c.Jira.Fields.DOI = "customfield_10396"
	}
	if c.Jira.Fields.Depositor == "" {
		c.Jira.Fields.Depositor = "customfield_10398"
	}
	if c.Jira.Fields.CurationStatus == "" {
		c.Jira.Fields.CurationStatus = "customfield_10403"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = "dryad_curator"
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent
	result.Extends = ""

	// String fields: override if non-empty
	if child.Workflow != "" {
		result.Workflow = child.Workflow
	}
	if len(child.Steps) > 0 {
		result.Steps = child.Steps
	}

	// Jira: override field by field
	overrideString(&result.Jira.BaseURL, child.Jira.BaseURL)
	overrideString(&result.Jira.Project, child.Jira.Project)
	overrideString(&result.Jira.IssueType, child.Jira.IssueType)
	overrideString(&result.Jira.Email, child.Jira.Email)
	overrideString(&result.Jira.Token, child.Jira.Token)
	overrideString(&result.Jira.BearerToken, child.Jira.BearerToken)
	overrideString(&result.Jira.Fields.DatasetName, child.Jira.Fields.DatasetName)
	overrideString(&result.Jira.Fields.DOI, child.Jira.Fields.DOI)
	overrideString(&result.Jira.Fields.Depositor, child.Jira.Fields.Depositor)
	overrideString(&result.Jira.Fields.CurationStatus, child.Jira.Fields.CurationStatus)

	overrideString(&result.Logging.Level, child.Logging.Level)
	overrideString(&result.Logging.Format, child.Logging.Format)

	overrideString(&result.Metrics.PushgatewayURL, child.Metrics.PushgatewayURL)
	overrideString(&result.Metrics.Job, child.Metrics.Job)

	return &result
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	// Check for path
	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".dryad-curator.yaml" // default path
	}

	return org, repo, branch, path, nil
}

// ClientConfig builds the Jira client configuration. Explicit credentials
// (from the command line) take precedence over those in the file.
func (j JiraConfig) ClientConfig(explicit *jira.Auth) jira.Config {
	auth := jira.Auth{Email: j.Email, Token: j.Token, BearerToken: j.BearerToken}
	if explicit != nil {
		auth = *explicit
	}
	return jira.Config{
		BaseURL:   j.BaseURL,
		Project:   j.Project,
		IssueType: j.IssueType,
		Fields: jira.CustomFields{
			DatasetName:    j.Fields.DatasetName,
			DOI:            j.Fields.DOI,
			Depositor:      j.Fields.Depositor,
			CurationStatus: j.Fields.CurationStatus,
		},
		Auth: auth,
	}
}
