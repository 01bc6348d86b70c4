package generator

import (
	"regexp"
	"strings"
)

var (
	titleRe   = regexp.MustCompile(`title:\s*["']?(.*?)["']?\s*(?:\r\n|\n|$)`)
	slugRe    = regexp.MustCompile(`[^a-z0-9]+`)
	datePreRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)
)

// Slugify lowercases s and collapses every run of non-alphanumerics into a
// single hyphen. Idempotent: Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExtractTitle pulls the value of the first "title:" line out of raw model
// output. Returns "" when no title line is present.
func ExtractTitle(raw string) string {
	m := titleRe.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// StripFences removes a leading ```markdown (or bare ```) line and a trailing
// ``` line. The body in between is returned untouched.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```markdown") {
		s = strings.TrimPrefix(s, "```markdown")
		s = strings.TrimPrefix(s, "\n")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "\n")
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSuffix(s, "\n")
	}
	return s
}

// Deslugify turns a post filename back into a rough topic string: the .md
// extension is dropped and hyphens/underscores become spaces.
func Deslugify(filename string) string {
	s := strings.TrimSuffix(filename, ".md")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return s
}

// StripDatePrefix removes the leading YYYY-MM-DD- marker a pending draft
// carries, producing the canonical published filename.
func StripDatePrefix(filename string) string {
	return datePreRe.ReplaceAllString(filename, "")
}
