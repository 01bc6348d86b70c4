package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple title", in: "React Hooks Guide", want: "react-hooks-guide"},
		{name: "punctuation collapses", in: "Next.js 15: What's New?!", want: "next-js-15-what-s-new"},
		{name: "leading and trailing junk", in: "  --Hello World--  ", want: "hello-world"},
		{name: "already a slug", in: "react-hooks-guide", want: "react-hooks-guide"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			// Idempotency
			assert.Equal(t, got, Slugify(got))
		})
	}
}

func TestSlugifyOutputIsSafe(t *testing.T) {
	got := Slugify("C# & .NET: 10x Faster APIs (2025 Edition)")
	assert.Regexp(t, `^[a-z0-9]+(-[a-z0-9]+)*$`, got)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "double quoted front matter",
			raw:  "---\ntitle: \"Mastering Goroutines\"\nsubtitle: \"x\"\n---\nbody",
			want: "Mastering Goroutines",
		},
		{
			name: "single quoted",
			raw:  "title: 'Docker in Production'\n",
			want: "Docker in Production",
		},
		{
			name: "unquoted",
			raw:  "title: Plain Title\nrest",
			want: "Plain Title",
		},
		{
			name: "missing title line",
			raw:  "# Heading only\nbody text",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.raw))
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "markdown fence", in: "```markdown\n# Post\nBody\n```", want: "# Post\nBody"},
		{name: "bare fence", in: "```\nHello\n```", want: "Hello"},
		{name: "no fences", in: "# Post\nBody", want: "# Post\nBody"},
		{name: "inner fences preserved", in: "```markdown\nText\n```go\ncode\n```\nMore\n```", want: "Text\n```go\ncode\n```\nMore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestDeslugify(t *testing.T) {
	assert.Equal(t, "react hooks guide", Deslugify("react-hooks-guide.md"))
	assert.Equal(t, "snake case name", Deslugify("snake_case_name.md"))
	assert.Equal(t, "2025 01 01 dated post", Deslugify("2025-01-01-dated-post.md"))
}

func TestStripDatePrefix(t *testing.T) {
	assert.Equal(t, "my-topic.md", StripDatePrefix("2025-01-01-my-topic.md"))
	assert.Equal(t, "no-date.md", StripDatePrefix("no-date.md"))
	// Only a leading date marker counts.
	assert.Equal(t, "post-2025-01-01-inside.md", StripDatePrefix("post-2025-01-01-inside.md"))
}
