package generator

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var alphaOnlyRe = regexp.MustCompile(`[^a-z]`)

// fallbackTopics is served when the provider or the parse fails, keyed by the
// lowercased alphabetic-only technology name.
var fallbackTopics = map[string][]string{
	"nextjs": {
		"Next.js 15 Partial Prerendering",
		"Mastering Server Actions",
		"Optimize Core Web Vitals in Next.js",
		"Middleware Patterns in App Router",
		"Comparison: Pages vs App Router",
	},
	"react": {
		"React Server Components Guide",
		"Understanding useActionState",
		"Optimizing Re-renders with useMemo",
		"Modern State Management with Zustand",
		"React 19 New Architecture",
	},
	"typescript": {
		"Advanced Pattern Matching",
		"Mastering Utility Types",
		"Type-Safe API Integration",
		"Conditional Types Explained",
		"Strict Mode Best Practices",
	},
}

func fallbackFor(technology string) []string {
	key := alphaOnlyRe.ReplaceAllString(strings.ToLower(technology), "")
	if list, ok := fallbackTopics[key]; ok {
		out := make([]string, len(list))
		copy(out, list)
		return out
	}
	year := time.Now().Year()
	return []string{
		fmt.Sprintf("Top 5 Features of %s in %d", technology, year),
		fmt.Sprintf("Modern Development with %s", technology),
		fmt.Sprintf("%s Best Practices for Scale", technology),
		fmt.Sprintf("Performance Optimization in %s", technology),
		fmt.Sprintf("Real-world %s Architecture", technology),
	}
}

// ExistingTopics collects de-slugified names of every .md file in the
// exclusion directories. Unreadable directories are skipped, not fatal.
func (g *Generator) ExistingTopics() []string {
	var topics []string
	for _, dir := range g.excludeDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			g.log.Warn("could not read posts directory for exclusion", "dir", dir, "error", err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			topics = append(topics, Deslugify(e.Name()))
		}
	}
	return topics
}

// SelectTopics returns count topic suggestions for the technology, excluding
// ones already covered. It never fails: on provider errors or unparseable
// output the static fallback table answers instead, with fellBack set so
// callers can attach an advisory message.
func (g *Generator) SelectTopics(ctx context.Context, technology string, count int) (topics []string, fellBack bool) {
	if count < 1 {
		count = 1
	}

	prompt := BuildTrendingPrompt(technology, count, g.ExistingTopics())
	res := g.client.Complete(ctx, prompt, g.rot.Next())
	if !res.OK() {
		g.log.Warn("trending topics request failed, using fallback", "tech", technology, "status", res.Status, "message", res.Message)
		return truncateTopics(fallbackFor(technology), count), true
	}

	topics = parseTopicArray(res.Content)
	if len(topics) == 0 {
		g.log.Warn("could not parse topics from model output, using fallback", "tech", technology)
		return truncateTopics(fallbackFor(technology), count), true
	}
	return truncateTopics(topics, count), false
}

// parseTopicArray leniently extracts a JSON string array from model output:
// code fences are dropped, then the substring between the first '[' and the
// last ']' is parsed. Returns nil when nothing usable is found.
func parseTopicArray(raw string) []string {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	if start := strings.Index(clean, "["); start != -1 {
		if end := strings.LastIndex(clean, "]"); end > start {
			clean = clean[start : end+1]
		}
	}
	if !gjson.Valid(clean) {
		return nil
	}
	parsed := gjson.Parse(clean)
	if !parsed.IsArray() {
		return nil
	}

	var topics []string
	for _, v := range parsed.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			topics = append(topics, s)
		}
	}
	return topics
}

func truncateTopics(topics []string, count int) []string {
	if len(topics) > count {
		return topics[:count]
	}
	return topics
}
