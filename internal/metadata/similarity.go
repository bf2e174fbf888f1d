package metadata

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

var (
	leadingArticlePat = regexp.MustCompile(`^(the|a|an|of|and)\s+`)
	trailingParenPat  = regexp.MustCompile(`\(.*\)$`)
	whitespacePat     = regexp.MustCompile(`\s+`)
)

// titleRelevanceSlack is how many runes past the query length of a
// candidate title still take part in the relevance comparison.
const titleRelevanceSlack = 3

// Similarity returns the longest-matching-blocks ratio between two strings
// in [0,1], computed over runes. Similarity(x, x) == 1 for non-empty x.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(runeTokens(a), runeTokens(b)).Ratio()
}

// ByteSimilarity is Similarity computed over raw bytes. The search-result
// pre-sort uses it so multi-byte Hangul sequences weigh the same way the
// site's own relevance ordering does.
func ByteSimilarity(a, b string) float64 {
	return difflib.NewMatcher(byteTokens(a), byteTokens(b)).Ratio()
}

// TitleRelevance scores a candidate title against the query title on a
// 0..100 scale. When the candidate carries a colon-delimited subtitle only
// the prefix before the colon is compared, truncated to the query length
// plus a small slack, so subtitle noise does not dominate the score.
func TitleRelevance(query, title string) float64 {
	candidate := title
	if strings.Contains(title, ":") {
		candidate = strings.SplitN(title, ":", 2)[0]
	}

	queryRunes := runeTokens(query)
	candidateRunes := runeTokens(candidate)
	if limit := len(queryRunes) + titleRelevanceSlack; len(candidateRunes) > limit {
		candidateRunes = candidateRunes[:limit]
	}

	m := difflib.NewMatcherWithJunk(queryRunes, candidateRunes, false, nil)
	return m.Ratio() * 100
}

// CleanupTitle normalizes a title for exact-match comparison: lower-case,
// leading stopword article removed, trailing parenthetical stripped,
// whitespace collapsed. Empty input maps to the Unknown placeholder.
func CleanupTitle(s string) string {
	if s == "" {
		s = UnknownTitle
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = leadingArticlePat.ReplaceAllString(s, " ")
	s = trailingParenPat.ReplaceAllString(s, "")
	s = whitespacePat.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func runeTokens(s string) []string {
	tokens := make([]string, 0, len(s))
	for _, r := range s {
		tokens = append(tokens, string(r))
	}
	return tokens
}

func byteTokens(s string) []string {
	tokens := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		tokens[i] = string(s[i])
	}
	return tokens
}
