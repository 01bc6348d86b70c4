package generator

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto_blog_publisher/llm"
)

func TestGenerateWritesDraft(t *testing.T) {
	body := "---\ntitle: \"Mastering Goroutines\"\nsubtitle: \"Concurrency done right\"\n---\n# Mastering Goroutines\nBody."
	mock := &llm.Mock{Queue: []llm.Result{
		{Status: http.StatusOK, Content: body},
	}}
	g := newTestGenerator(t, mock)

	draft, err := g.Generate(context.Background(), "Goroutines", "golang")
	require.NoError(t, err)

	wantName := fmt.Sprintf("%s-mastering-goroutines.md", time.Now().Format("2006-01-02"))
	assert.Equal(t, wantName, draft.Filename)
	assert.Equal(t, "Mastering Goroutines", draft.Title)

	saved, err := os.ReadFile(draft.Path)
	require.NoError(t, err)
	assert.Equal(t, body, string(saved))
}

func TestGenerateStripsFenceWrapper(t *testing.T) {
	mock := &llm.Mock{Queue: []llm.Result{
		{Status: http.StatusOK, Content: "```markdown\ntitle: \"Fenced\"\nBody\n```"},
	}}
	g := newTestGenerator(t, mock)

	draft, err := g.Generate(context.Background(), "Fenced", "react")
	require.NoError(t, err)

	saved, err := os.ReadFile(draft.Path)
	require.NoError(t, err)
	assert.Equal(t, "title: \"Fenced\"\nBody", string(saved))
}

func TestGenerateSlugFallsBackToTopic(t *testing.T) {
	mock := &llm.Mock{Queue: []llm.Result{
		{Status: http.StatusOK, Content: "# No front matter here\nJust prose."},
	}}
	g := newTestGenerator(t, mock)

	draft, err := g.Generate(context.Background(), "Event Loop Deep Dive", "javascript")
	require.NoError(t, err)
	assert.Contains(t, draft.Filename, "event-loop-deep-dive.md")
}

func TestGenerateRateLimited(t *testing.T) {
	mock := &llm.Mock{Queue: []llm.Result{
		{Status: http.StatusTooManyRequests, Message: "slow down"},
	}}
	g := newTestGenerator(t, mock)

	_, err := g.Generate(context.Background(), "Anything", "react")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)

	entries, readErr := os.ReadDir(g.DraftsDir())
	if readErr == nil {
		assert.Empty(t, entries)
	}
}

func TestGenerateHardFailure(t *testing.T) {
	mock := &llm.Mock{Queue: []llm.Result{
		{Status: http.StatusBadGateway, Message: "upstream sad"},
	}}
	g := newTestGenerator(t, mock)

	_, err := g.Generate(context.Background(), "Anything", "react")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "502")
}

func TestGenerateRotatesCredentials(t *testing.T) {
	mock := &llm.Mock{Default: "title: \"A\"\nBody"}
	g := newTestGenerator(t, mock)

	_, err := g.Generate(context.Background(), "One", "react")
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), "Two", "react")
	require.NoError(t, err)

	require.Len(t, mock.Creds, 2)
	assert.NotEqual(t, mock.Creds[0].Name, mock.Creds[1].Name)
}
