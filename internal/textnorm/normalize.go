package textnorm

import "strings"

// Brackets are stripped before comparison because wire copies of the same
// announcement differ mostly in bracketed outlet tags like 【快讯】.
var bracketReplacer = strings.NewReplacer(
	"【", "",
	"】", "",
	"[", "",
	"]", "",
	"（", "",
	"）", "",
	"(", "",
	")", "",
)

// Normalize canonicalizes raw text for comparison: bracket characters are
// stripped, whitespace runs collapse to a single space, and the result is
// lowercased. Brackets go first so the collapse also swallows any whitespace
// their removal exposes, keeping the function idempotent. Empty input yields
// an empty string.
func Normalize(s string) string {
	stripped := bracketReplacer.Replace(s)
	collapsed := strings.Join(strings.Fields(stripped), " ")
	return strings.ToLower(collapsed)
}
