// Package llm talks to OpenRouter's chat-completion API and normalizes its
// failure modes so callers only deal with status codes, never transport errors.
package llm

import (
	"context"
	"net/http"

	"auto_blog_publisher/rotation"
)

// Result is the normalized outcome of one completion call. Status 200 carries
// Content; 429 is the rate-limit signal; anything else carries Message.
type Result struct {
	Status  int
	Content string
	Message string
}

// OK reports whether the completion succeeded.
func (r Result) OK() bool { return r.Status == http.StatusOK }

// RateLimited reports whether the provider returned HTTP 429. Callers decide
// whether to abort or continue; there is no automatic retry.
func (r Result) RateLimited() bool { return r.Status == http.StatusTooManyRequests }

// Client abstracts the completion provider so it can be mocked in tests.
type Client interface {
	Complete(ctx context.Context, prompt string, cred rotation.Credential) Result
}
