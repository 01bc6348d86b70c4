package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrRateLimited marks a generation attempt the provider refused with HTTP
// 429. The caller decides whether to abort the batch; no retry happens here.
var ErrRateLimited = errors.New("completion rate limited")

// Draft is a generated post persisted to the pending-drafts area.
type Draft struct {
	Filename string
	Path     string
	Title    string
	Content  string
}

// Generate renders the blog prompt for the topic, invokes the completion
// client with the next rotated credential, and persists the output as a
// pending draft named {YYYY-MM-DD}-{slug}.md. The slug comes from the title
// line of the model output, falling back to the topic itself.
func (g *Generator) Generate(ctx context.Context, topic, technology string) (Draft, error) {
	now := time.Now()
	prompt := BuildPostPrompt(topic, technology, now)

	cred := g.rot.Next()
	res := g.client.Complete(ctx, prompt, cred)
	if res.RateLimited() {
		return Draft{}, fmt.Errorf("generate draft for %q: %w", topic, ErrRateLimited)
	}
	if !res.OK() {
		return Draft{}, fmt.Errorf("generate draft for %q: status %d: %s", topic, res.Status, res.Message)
	}

	title := ExtractTitle(res.Content)
	if title == "" {
		title = topic
	}
	slug := Slugify(title)
	filename := fmt.Sprintf("%s-%s.md", now.Format("2006-01-02"), slug)

	content := StripFences(res.Content)
	if err := os.MkdirAll(g.draftsDir, 0o750); err != nil {
		return Draft{}, fmt.Errorf("create drafts directory: %w", err)
	}
	path := filepath.Join(g.draftsDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return Draft{}, fmt.Errorf("write draft %s: %w", filename, err)
	}

	g.log.Info("draft saved", "file", filename, "tech", technology, "model", cred.Model)
	return Draft{Filename: filename, Path: path, Title: title, Content: content}, nil
}
