// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
)

// TestConfigDefaults verifies that default values are applied correctly.
func TestConfigDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://ucsb-atlas.atlassian.net/rest/api/3", cfg.Jira.BaseURL)
	assert.Equal(t, "RDS", cfg.Jira.Project)
	assert.Equal(t, "Curation", cfg.Jira.IssueType)
	assert.Equal(t, JiraFieldsConfig{
		DatasetName:    "customfield_10394",
		DOI:            "customfield_10396",
		Depositor:      "customfield_10398",
		CurationStatus: "customfield_10403",
	}, cfg.Jira.Fields)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Metrics.PushgatewayURL)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("DRYAD_JIRA_TOKEN", "from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jira:
  project: TEST
  email: curator@example.edu
  token: ${DRYAD_JIRA_TOKEN}
  fields:
    doi: customfield_1
logging:
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "TEST", cfg.Jira.Project)
	assert.Equal(t, "from-env", cfg.Jira.Token)
	assert.Equal(t, "customfield_1", cfg.Jira.Fields.DOI)
	assert.Equal(t, "customfield_10398", cfg.Jira.Fields.Depositor)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "Curation", cfg.Jira.IssueType)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jira: [unclosed"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadWithInheritance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
extends: ucsb/curation-config@main
jira:
  email: me@example.edu
logging:
  level: debug
`), 0o600))

	var fetched string
	fetcher := func(ref string) ([]byte, error) {
		fetched = ref
		return []byte(`
jira:
  base_url: https://parent.atlassian.net/rest/api/3
  email: parent@example.edu
  fields:
    curation_status: customfield_2
metrics:
  pushgateway_url: http://pushgateway:9091
`), nil
	}

	cfg, err := LoadWithInheritance(path, fetcher)
	require.NoError(t, err)
	assert.Equal(t, "ucsb/curation-config@main", fetched)
	assert.Equal(t, "https://parent.atlassian.net/rest/api/3", cfg.Jira.BaseURL)
	assert.Equal(t, "me@example.edu", cfg.Jira.Email)
	assert.Equal(t, "customfield_2", cfg.Jira.Fields.CurationStatus)
	assert.Equal(t, "customfield_10396", cfg.Jira.Fields.DOI)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://pushgateway:9091", cfg.Metrics.PushgatewayURL)
	assert.Empty(t, cfg.Extends)
}

func TestLoadWithInheritanceFetchError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extends: a/b@main\n"), 0o600))

	_, err := LoadWithInheritance(path, func(string) ([]byte, error) {
		return nil, errors.New("offline")
	})
	assert.ErrorContains(t, err, "failed to fetch parent config 'a/b@main'")
}

func TestLoadWithInheritanceNoExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workflow: dryad-email\n"), 0o600))

	cfg, err := LoadWithInheritance(path, func(string) ([]byte, error) {
		t.Fatal("fetcher must not be called")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "dryad-email", cfg.Workflow)
	assert.Equal(t, "RDS", cfg.Jira.Project)
}

func TestFindConfigPathExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	assert.Equal(t, path, FindConfigPath(path))
	assert.Empty(t, FindConfigPath(path+".missing"))
}

// TestParseExtendsRef verifies extends reference parsing.
func TestParseExtendsRef(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		wantOrg     string
		wantRepo    string
		wantBranch  string
		wantPath    string
		expectError bool
	}{
		{
			name:       "valid ref with default path",
			ref:        "org/repo@main",
			wantOrg:    "org",
			wantRepo:   "repo",
			wantBranch: "main",
			wantPath:   ".dryad-curator.yaml",
		},
		{
			name:       "valid ref with custom path",
			ref:        "org/repo@main:custom/path.yaml",
			wantOrg:    "org",
			wantRepo:   "repo",
			wantBranch: "main",
			wantPath:   "custom/path.yaml",
		},
		{
			name:        "invalid ref missing branch",
			ref:         "org/repo",
			expectError: true,
		},
		{
			name:        "invalid ref missing repo",
			ref:         "org@main",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, repo, branch, path, err := ParseExtendsRef(tt.ref)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOrg, org)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantBranch, branch)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestClientConfig(t *testing.T) {
	cfg := Default()
	cfg.Jira.Email = "file@example.edu"
	cfg.Jira.Token = "file-token"

	fromFile := cfg.Jira.ClientConfig(nil)
	assert.Equal(t, "file@example.edu", fromFile.Auth.Email)
	assert.Equal(t, "customfield_10403", fromFile.Fields.CurationStatus)
	require.NoError(t, fromFile.Validate())

	explicit := cfg.Jira.ClientConfig(&jira.Auth{Email: "cli@example.edu", Token: "cli-token"})
	assert.Equal(t, "cli@example.edu", explicit.Auth.Email)
	assert.Equal(t, "cli-token", explicit.Auth.Token)
}
