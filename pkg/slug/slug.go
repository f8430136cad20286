package slug

import (
	"regexp"
	"strings"
)

var (
	separators = regexp.MustCompile(`[\s_]+`)
	disallowed = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRuns   = regexp.MustCompile(`-{2,}`)
)

// Normalize turns a path parameter or a display name into the canonical
// catalog slug form: lowercase ASCII letters, digits and single dashes.
// Example: " Food Grade  Papers " -> "food-grade-papers"
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = separators.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already in canonical form
func Valid(s string) bool {
	return s != "" && Normalize(s) == s
}
