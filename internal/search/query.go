// Package search prepares user-entered search text for the catalog's
// SQLite FTS5 index. It is intentionally small and dependency-free:
// ranking and matching are delegated to the database engine, so this
// package only owns normalization and match-expression construction.
//
//   - No logging in the library (callers decide how/what to log)
//   - Deterministic output for a given input
//   - Tokens are restricted to [a-z0-9] so user input can never inject
//     FTS5 query syntax (quotes, NEAR, boolean operators)
package search

import "strings"

// MinQueryRunes is the minimum trimmed search length eligible for the
// indexed prefix search. Shorter input falls back to a substring scan,
// which behaves better for single characters.
const MinQueryRunes = 2

// Normalize trims surrounding whitespace and reports whether any search
// text remains. Whitespace-only input is equivalent to no search at all.
func Normalize(s string) (string, bool) {
	t := strings.TrimSpace(s)
	return t, t != ""
}

// Tokenize lowercases the input, splits it on whitespace, and strips
// every character outside [a-z0-9] from each token. Tokens that end up
// empty are discarded. The result may be empty (e.g. for punctuation-only
// input), in which case the caller should fall back to substring search.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		var b strings.Builder
		for _, r := range f {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if t := b.String(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// BuildMatchQuery turns search text into an FTS5 prefix-match expression:
// each usable token gets a '*' suffix and tokens are joined with spaces
// (implicit AND), e.g. "red dead" -> "red* dead*".
//
// It returns ok=false when no usable tokens remain; callers must then
// use the substring fallback instead of querying the index.
func BuildMatchQuery(s string) (string, bool) {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return "", false
	}
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
		b.WriteByte('*')
	}
	return b.String(), true
}
