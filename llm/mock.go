package llm

import (
	"context"
	"net/http"
	"sync"

	"auto_blog_publisher/rotation"
)

// Mock is a scripted Client for tests and local debugging. Queued results are
// returned in order; once the queue is empty every call succeeds with a
// canned body. It records the prompts and credentials it saw.
type Mock struct {
	mu      sync.Mutex
	Queue   []Result
	Default string

	Prompts []string
	Creds   []rotation.Credential
}

func (m *Mock) Complete(_ context.Context, prompt string, cred rotation.Credential) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	m.Creds = append(m.Creds, cred)

	if len(m.Queue) > 0 {
		r := m.Queue[0]
		m.Queue = m.Queue[1:]
		return r
	}
	body := m.Default
	if body == "" {
		body = "mock completion"
	}
	return Result{Status: http.StatusOK, Content: body}
}
