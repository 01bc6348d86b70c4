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

	"github.com/sethvargo/go-retry"
)

const linkedInPostURL = "https://api.linkedin.com/v2/ugcPosts"

// LinkedInClient publishes share posts through the ugcPosts API. The whole
// cross-post leg is best-effort: callers log failures and move on, so the
// client retries transient errors itself with a short constant backoff.
type LinkedInClient struct {
	token     string
	personURN string
	client    HTTPClient
	log       *slog.Logger
}

// NewLinkedIn creates a client for one member profile. personURN is the
// urn:li:person:... identifier of the author.
func NewLinkedIn(token, personURN string, client HTTPClient, log *slog.Logger) (*LinkedInClient, error) {
	if token == "" || personURN == "" {
		return nil, errors.New("linkedin access token and person id are required")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &LinkedInClient{token: token, personURN: personURN, client: client, log: log}, nil
}

type shareText struct {
	Text string `json:"text"`
}

type shareMedia struct {
	Status      string    `json:"status"`
	Description shareText `json:"description"`
	OriginalURL string    `json:"originalUrl"`
	Title       shareText `json:"title"`
}

type shareContent struct {
	ShareCommentary    shareText    `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
	Media              []shareMedia `json:"media"`
}

type ugcPostReq struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent map[string]shareContent `json:"specificContent"`
	Visibility      map[string]string       `json:"visibility"`
}

// Post publishes text as an article share linking to articleURL. Non-2xx
// responses under 500 fail immediately; 5xx and transport errors are retried
// twice before giving up.
func (c *LinkedInClient) Post(ctx context.Context, text, articleURL string) error {
	payload := ugcPostReq{
		Author:         c.personURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]shareContent{
			"com.linkedin.ugc.ShareContent": {
				ShareCommentary:    shareText{Text: text},
				ShareMediaCategory: "ARTICLE",
				Media: []shareMedia{{
					Status:      "READY",
					Description: shareText{Text: "Check out my latest blog post!"},
					OriginalURL: articleURL,
					Title:       shareText{Text: "New Tech Post"},
				}},
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode share payload: %w", err)
	}

	backoff := retry.WithMaxRetries(2, retry.NewConstant(2*time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, linkedInPostURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

		resp, err := c.client.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("post share: %w", err))
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.log.Info("linkedin share posted", "url", articleURL)
			return nil
		}
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err = fmt.Errorf("post share: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		if resp.StatusCode >= 500 {
			return retry.RetryableError(err)
		}
		return err
	})
}
