// Package publisher moves approved drafts into the GitHub-backed content
// store and best-effort cross-posts a summary to LinkedIn.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const githubAPIBase = "https://api.github.com"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GitHubClient commits files to a repository branch using the low-level git
// data API: ref -> commit -> blob -> tree -> commit -> ref. There is no
// idempotency key; a retried commit after a partial failure can leave orphan
// blobs or a stale ref, which the operator reconciles manually.
type GitHubClient struct {
	owner  string
	repo   string
	branch string
	token  string
	client HTTPClient
	log    *slog.Logger
}

// NewGitHub creates a client for one repository branch.
func NewGitHub(owner, repo, branch, token string, client HTTPClient, log *slog.Logger) (*GitHubClient, error) {
	if owner == "" || repo == "" || token == "" {
		return nil, errors.New("github owner, repo, and token are required")
	}
	if branch == "" {
		branch = "main"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &GitHubClient{owner: owner, repo: repo, branch: branch, token: token, client: client, log: log}, nil
}

type refResp struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type commitResp struct {
	SHA  string `json:"sha"`
	Tree struct {
		SHA string `json:"sha"`
	} `json:"tree"`
}

type blobReq struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type shaResp struct {
	SHA string `json:"sha"`
}

type treeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

type treeReq struct {
	BaseTree string      `json:"base_tree"`
	Tree     []treeEntry `json:"tree"`
}

type commitReq struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

type updateRefReq struct {
	SHA string `json:"sha"`
}

// CommitFile commits content at path on the configured branch. Any failing
// step aborts and the returned error names that step.
func (g *GitHubClient) CommitFile(ctx context.Context, path, content, message string) error {
	var ref refResp
	if err := g.doJSON(ctx, http.MethodGet, g.url("git/ref/heads/"+g.branch), nil, &ref, "get branch ref"); err != nil {
		return err
	}
	if ref.Object.SHA == "" {
		return errors.New("get branch ref: no commit sha in response")
	}
	latest := ref.Object.SHA

	var base commitResp
	if err := g.doJSON(ctx, http.MethodGet, g.url("git/commits/"+latest), nil, &base, "get base commit"); err != nil {
		return err
	}
	if base.Tree.SHA == "" {
		return errors.New("get base commit: no tree sha in response")
	}

	var blob shaResp
	if err := g.doJSON(ctx, http.MethodPost, g.url("git/blobs"), blobReq{Content: content, Encoding: "utf-8"}, &blob, "create blob"); err != nil {
		return err
	}
	if blob.SHA == "" {
		return errors.New("create blob: no sha in response")
	}

	var tree shaResp
	newTree := treeReq{
		BaseTree: base.Tree.SHA,
		Tree: []treeEntry{{
			Path: path,
			Mode: "100644",
			Type: "blob",
			SHA:  blob.SHA,
		}},
	}
	if err := g.doJSON(ctx, http.MethodPost, g.url("git/trees"), newTree, &tree, "create tree"); err != nil {
		return err
	}
	if tree.SHA == "" {
		return errors.New("create tree: no sha in response")
	}

	var commit shaResp
	newCommit := commitReq{Message: message, Tree: tree.SHA, Parents: []string{latest}}
	if err := g.doJSON(ctx, http.MethodPost, g.url("git/commits"), newCommit, &commit, "create commit"); err != nil {
		return err
	}
	if commit.SHA == "" {
		return errors.New("create commit: no sha in response")
	}

	if err := g.doJSON(ctx, http.MethodPatch, g.url("git/refs/heads/"+g.branch), updateRefReq{SHA: commit.SHA}, nil, "update ref"); err != nil {
		return err
	}

	g.log.Info("committed to content store", "path", path, "commit", commit.SHA)
	return nil
}

func (g *GitHubClient) url(suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s/%s", githubAPIBase, g.owner, g.repo, suffix)
}

func (g *GitHubClient) doJSON(ctx context.Context, method, url string, payload, out any, step string) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: encode payload: %w", step, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s: unexpected status %d: %s", step, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", step, err)
		}
	}
	return nil
}
