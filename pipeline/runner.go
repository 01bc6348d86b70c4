// Package pipeline runs one automated generation cycle: pick a technology,
// select a topic, generate a draft, and record the outcome.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"auto_blog_publisher/generator"
	"auto_blog_publisher/history"
)

// technologies is the fixed enumeration one run picks from at random.
var technologies = []string{
	"angular", "aws", "azure", "csharp", "docker", "dotnet",
	"entityframework", "javascript", "kubernetes", "mongodb",
	"nextjs", "postgresql", "react", "sql", "typescript",
}

const rateLimitAbortMessage = "Rate limit hit during generation. Partial execution logged."

// Runner orchestrates one cron-triggered generation run. Every run, success
// or failure, produces exactly one history entry.
type Runner struct {
	gen    *generator.Generator
	ledger *history.Ledger
	// settle is the deliberate pause between topic selection and draft
	// generation that keeps burst traffic under provider rate limits.
	settle time.Duration
	// topicCount is how many topics one run requests and generates.
	topicCount int
	pick       func(n int) int
	log        *slog.Logger
}

// New creates a Runner.
func New(gen *generator.Generator, ledger *history.Ledger, log *slog.Logger) (*Runner, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if ledger == nil {
		return nil, errors.New("history ledger is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		gen:        gen,
		ledger:     ledger,
		settle:     2 * time.Second,
		topicCount: 1,
		pick:       rand.Intn,
		log:        log,
	}, nil
}

// Run executes one generation cycle and appends its outcome to the ledger.
// The returned entry mirrors what was recorded; generation failures are
// reported through the entry status, not the error. The error is non-nil
// only when the run was cut short from outside, such as a cancelled context.
func (r *Runner) Run(ctx context.Context) (history.Entry, error) {
	tech := technologies[r.pick(len(technologies))]
	entry := history.NewEntry(tech)
	r.log.Info("generation run started", "tech", tech)

	topics, fellBack := r.gen.SelectTopics(ctx, tech, r.topicCount)
	entry.Topics = topics
	if fellBack {
		r.log.Warn("topic selection used fallback table", "tech", tech)
	}

	if err := r.settleDelay(ctx); err != nil {
		return r.finish(entry, err)
	}

	files := []string{}
	var lastErr error
	for _, topic := range topics {
		draft, err := r.gen.Generate(ctx, topic, tech)
		if err != nil {
			lastErr = err
			if errors.Is(err, generator.ErrRateLimited) {
				if len(files) > 0 {
					entry.Status = history.StatusPartial
				} else {
					entry.Status = history.StatusFailed
				}
				msg := rateLimitAbortMessage
				entry.Error = &msg
				break
			}
			r.log.Error("draft generation failed", "topic", topic, "error", err)
			continue
		}
		files = append(files, draft.Filename)
	}
	entry.Files = files

	if len(files) == 0 && entry.Status != history.StatusFailed {
		entry.Status = history.StatusFailed
		if entry.Error == nil && lastErr != nil {
			msg := lastErr.Error()
			entry.Error = &msg
		}
	}
	return r.finish(entry, nil)
}

// finish persists the entry no matter how the run went. A non-nil cause is a
// failure outside the generation loop, for example a cancelled context, and
// is handed back to the caller.
func (r *Runner) finish(entry history.Entry, cause error) (history.Entry, error) {
	if cause != nil {
		entry.Status = history.StatusFailed
		msg := cause.Error()
		entry.Error = &msg
	}
	if err := r.ledger.Append(entry); err != nil {
		r.log.Error("append run history", "error", err)
	}
	r.log.Info("generation run finished", "tech", entry.Tech, "status", entry.Status, "files", len(entry.Files))
	return entry, cause
}

func (r *Runner) settleDelay(ctx context.Context) error {
	if r.settle <= 0 {
		return nil
	}
	timer := time.NewTimer(r.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
