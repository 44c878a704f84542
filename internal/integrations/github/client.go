// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

// Package github fetches shared configuration files from GitHub repositories.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// GetFileContent returns the decoded content of a file at ref. An empty ref
// reads the repository's default branch.
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	file, dir, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from %s/%s: %w", path, org, repo, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is a directory with %d entries, not a file", path, org, repo, len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}
