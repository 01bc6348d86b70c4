package generator

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildPostPromptSubstitutesPlaceholders(t *testing.T) {
	prompt := BuildPostPrompt("Generics in Practice", "typescript", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, prompt, "Generics in Practice")
	assert.Contains(t, prompt, "my language attribute is: typescript")
	assert.Contains(t, prompt, "2025-03-09")
	assert.NotContains(t, prompt, "[CUSTOM_PROMPT]")
	assert.NotContains(t, prompt, "[DATE]")
}

func TestBuildLinkedInPromptTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", linkedInContextLimit+500)
	prompt := BuildLinkedInPrompt(long)

	assert.NotContains(t, prompt, "[BLOG_CONTENT]")
	assert.Contains(t, prompt, strings.Repeat("a", linkedInContextLimit))
	assert.NotContains(t, prompt, strings.Repeat("a", linkedInContextLimit+1))
}

func TestBuildLinkedInPromptKeepsRunesWhole(t *testing.T) {
	// Place a multibyte rune straddling the limit so a byte-indexed slice
	// would cut it in half.
	content := strings.Repeat("a", linkedInContextLimit-1) + "日本語テキスト"
	prompt := BuildLinkedInPrompt(content)

	assert.True(t, utf8.ValidString(prompt))
	assert.NotContains(t, prompt, string(utf8.RuneError))
}

func TestBuildLinkedInPromptShortContentUntouched(t *testing.T) {
	prompt := BuildLinkedInPrompt("short body")
	assert.Contains(t, prompt, "BLOG CONTENT:\nshort body")
}
