package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"auto_blog_publisher/rotation"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter implements Client against OpenRouter's OpenAI-compatible
// endpoint using the official openai-go SDK.
type OpenRouter struct {
	referer string
	title   string
	log     *slog.Logger
}

// NewOpenRouter creates a client. referer and title are sent as the
// HTTP-Referer and X-Title headers OpenRouter uses for app attribution.
func NewOpenRouter(referer, title string, log *slog.Logger) *OpenRouter {
	if referer == "" {
		referer = "http://localhost:8080"
	}
	if title == "" {
		title = "auto_blog_publisher"
	}
	if log == nil {
		log = slog.Default()
	}
	return &OpenRouter{referer: referer, title: title, log: log}
}

// Complete sends a single user-role message and returns the normalized
// result. A raw transport or API error never escapes to the caller.
func (c *OpenRouter) Complete(ctx context.Context, prompt string, cred rotation.Credential) Result {
	client := openai.NewClient(
		option.WithAPIKey(cred.APIKey),
		option.WithBaseURL(openRouterBaseURL),
		option.WithHeader("HTTP-Referer", c.referer),
		option.WithHeader("X-Title", c.title),
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(cred.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusTooManyRequests {
				c.log.Warn("completion rate limited", "model", cred.Model)
				return Result{Status: http.StatusTooManyRequests, Message: "Rate limit hit. Please try again later."}
			}
			c.log.Error("completion failed", "model", cred.Model, "status", apiErr.StatusCode, "error", apiErr.Message)
			return Result{Status: apiErr.StatusCode, Message: apiErr.Message}
		}
		c.log.Error("completion transport error", "model", cred.Model, "error", err)
		return Result{Status: http.StatusInternalServerError, Message: err.Error()}
	}

	if len(resp.Choices) == 0 {
		return Result{Status: http.StatusBadGateway, Message: "empty choices in completion response"}
	}
	return Result{Status: http.StatusOK, Content: resp.Choices[0].Message.Content}
}
