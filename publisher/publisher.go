package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"auto_blog_publisher/generator"
	"auto_blog_publisher/llm"
	"auto_blog_publisher/rotation"
)

// ErrNotFound reports that a named draft does not exist in the pending area.
var ErrNotFound = errors.New("draft not found")

// ContentStore is the remote store approved posts are committed to.
type ContentStore interface {
	CommitFile(ctx context.Context, path, content, message string) error
}

// SocialPoster cross-posts a summary after a successful publish.
type SocialPoster interface {
	Post(ctx context.Context, text, articleURL string) error
}

// Publisher owns the review queue: it lists and previews pending drafts and
// carries out approve/reject decisions. Approval commits to the content store
// first; the local draft is deleted only once that commit succeeds. The
// social cross-post in between is best-effort and never fails the approval.
type Publisher struct {
	draftsDir   string
	rejectedDir string
	baseURL     string
	store       ContentStore
	social      SocialPoster
	client      llm.Client
	rot         *rotation.Rotation
	log         *slog.Logger
}

// New creates a Publisher. social and client may be nil, in which case the
// cross-post leg is skipped.
func New(draftsDir, rejectedDir, baseURL string, store ContentStore, social SocialPoster, client llm.Client, rot *rotation.Rotation, log *slog.Logger) (*Publisher, error) {
	if draftsDir == "" || rejectedDir == "" {
		return nil, errors.New("drafts and rejected directories are required")
	}
	if store == nil {
		return nil, errors.New("content store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		draftsDir:   draftsDir,
		rejectedDir: rejectedDir,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		store:       store,
		social:      social,
		client:      client,
		rot:         rot,
		log:         log,
	}, nil
}

// List returns pending draft filenames, most recent first. The drafts
// directory is created if missing.
func (p *Publisher) List() ([]string, error) {
	if err := os.MkdirAll(p.draftsDir, 0o750); err != nil {
		return nil, fmt.Errorf("create drafts directory: %w", err)
	}
	entries, err := os.ReadDir(p.draftsDir)
	if err != nil {
		return nil, fmt.Errorf("read drafts directory: %w", err)
	}

	var drafts []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		drafts = append(drafts, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(drafts)))
	return drafts, nil
}

// Preview returns the raw content of a pending draft.
func (p *Publisher) Preview(filename string) (string, error) {
	path, err := p.draftPath(filename)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return "", fmt.Errorf("read draft %s: %w", filename, err)
	}
	return string(data), nil
}

// Decide dispatches an admin decision on a pending draft.
func (p *Publisher) Decide(ctx context.Context, filename, action string) error {
	switch action {
	case "approve":
		return p.Approve(ctx, filename)
	case "reject":
		return p.Reject(filename)
	default:
		return fmt.Errorf("invalid action %q", action)
	}
}

// Approve publishes a pending draft: the content is fence-stripped, committed
// to the content store at posts/{slug}.md, cross-posted to the social network
// (best-effort), and the local draft removed. If the commit fails at any step
// the draft stays in the pending area and the error names the failed step.
func (p *Publisher) Approve(ctx context.Context, filename string) error {
	path, err := p.draftPath(filename)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return fmt.Errorf("read draft %s: %w", filename, err)
	}

	content := generator.StripFences(string(raw))
	cleanName := generator.StripDatePrefix(filename)
	remotePath := "posts/" + cleanName
	slug := strings.TrimSuffix(cleanName, ".md")
	publicURL := p.baseURL + "/blog/" + slug

	message := fmt.Sprintf("Add Blog Post %s file via API", remotePath)
	if err := p.store.CommitFile(ctx, remotePath, content, message); err != nil {
		return fmt.Errorf("publish %s: %w", filename, err)
	}
	p.log.Info("approved and pushed to content store", "path", remotePath)

	p.crossPost(ctx, content, publicURL)

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove published draft %s: %w", filename, err)
	}
	return nil
}

// crossPost renders a social summary via the completion client and posts it.
// Every failure here is logged and swallowed: the content-store commit is the
// source of truth for a successful approval.
func (p *Publisher) crossPost(ctx context.Context, content, publicURL string) {
	if p.social == nil || p.client == nil || p.rot == nil {
		p.log.Info("social cross-post skipped, not configured")
		return
	}

	res := p.client.Complete(ctx, generator.BuildLinkedInPrompt(content), p.rot.Next())
	if !res.OK() || strings.TrimSpace(res.Content) == "" {
		p.log.Warn("social summary generation failed", "status", res.Status, "message", res.Message)
		return
	}
	if err := p.social.Post(ctx, res.Content, publicURL); err != nil {
		p.log.Warn("social cross-post failed", "url", publicURL, "error", err)
		return
	}
	p.log.Info("social cross-post published", "url", publicURL)
}

// Reject archives a pending draft. The original is deleted only after the
// copy into the rejected area succeeds.
func (p *Publisher) Reject(filename string) error {
	path, err := p.draftPath(filename)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return fmt.Errorf("read draft %s: %w", filename, err)
	}

	if err := os.MkdirAll(p.rejectedDir, 0o750); err != nil {
		return fmt.Errorf("create rejected directory: %w", err)
	}
	dest := filepath.Join(p.rejectedDir, filename)
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return fmt.Errorf("archive rejected draft %s: %w", filename, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove rejected draft %s: %w", filename, err)
	}
	p.log.Info("rejected and archived draft", "file", filename)
	return nil
}

// draftPath resolves a user-supplied filename inside the drafts directory,
// refusing anything that is not a bare file name.
func (p *Publisher) draftPath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(p.draftsDir, filename), nil
}
