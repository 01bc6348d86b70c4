package publisher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTransport struct {
	status int
	body   string
	calls  int
	last   *http.Request
	seen   string
}

func (c *countingTransport) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	c.last = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		c.seen = string(data)
	}
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(bytes.NewBufferString(c.body)),
	}, nil
}

func TestNewLinkedInValidation(t *testing.T) {
	_, err := NewLinkedIn("", "urn:li:person:abc", nil, discardLogger())
	assert.Error(t, err)
	_, err = NewLinkedIn("tok", "", nil, discardLogger())
	assert.Error(t, err)
}

func TestLinkedInPostSuccess(t *testing.T) {
	transport := &countingTransport{status: 201, body: `{"id":"urn:li:share:1"}`}
	li, err := NewLinkedIn("tok", "urn:li:person:abc", transport, discardLogger())
	require.NoError(t, err)

	err = li.Post(context.Background(), "Great new post!", "https://example.com/blog/my-topic")
	require.NoError(t, err)
	assert.Equal(t, 1, transport.calls)

	assert.Equal(t, "Bearer tok", transport.last.Header.Get("Authorization"))
	assert.Equal(t, "2.0.0", transport.last.Header.Get("X-Restli-Protocol-Version"))
	assert.Contains(t, transport.seen, `"author":"urn:li:person:abc"`)
	assert.Contains(t, transport.seen, `"lifecycleState":"PUBLISHED"`)
	assert.Contains(t, transport.seen, "com.linkedin.ugc.ShareContent")
	assert.Contains(t, transport.seen, `"originalUrl":"https://example.com/blog/my-topic"`)
}

func TestLinkedInPostClientErrorDoesNotRetry(t *testing.T) {
	transport := &countingTransport{status: 401, body: `{"message":"bad token"}`}
	li, err := NewLinkedIn("tok", "urn:li:person:abc", transport, discardLogger())
	require.NoError(t, err)

	err = li.Post(context.Background(), "text", "https://example.com/blog/x")
	require.Error(t, err)
	assert.Equal(t, 1, transport.calls)
	assert.Contains(t, err.Error(), "401")
}
