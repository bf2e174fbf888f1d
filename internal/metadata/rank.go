package metadata

import (
	"sort"

	"golang.org/x/text/language"
)

// Rank orders results descending by Relevance. The sort is stable, so
// equally scored records keep their input order.
func Rank(results []*Book) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
}

// CoverChecker reports whether a cover URL is known for the record's
// identifiers. Implemented by the cover-URL cache.
type CoverChecker interface {
	CoverURLFor(identifiers map[string]string) string
}

// CompareKey is a derived sort key ordering results from a single lookup by
// decreasing relevance. It is never persisted and never compared across
// lookups.
//
// The tiered portion prefers, in order: results sharing an identifier with
// the query, results with a cached cover URL, results with all fields
// filled in, results in the UI language, and exact (normalized) title
// matches. Longer descriptions and the reported relevance score break the
// remaining ties.
type CompareKey struct {
	base           [5]int
	descriptionLen int
	relevance      float64
}

// NewCompareKey builds the key for book against the query that produced it.
// uiLang may be the zero Tag, which counts every language as a match.
func NewCompareKey(book *Book, queryTitle string, queryIdentifiers map[string]string, covers CoverChecker, uiLang language.Tag) CompareKey {
	sameIdentifier := 2
	for scheme, value := range queryIdentifiers {
		if value != "" && book.Identifier(scheme) == value {
			sameIdentifier = 1
			break
		}
	}

	hasCover := 2
	if covers != nil && covers.CoverURLFor(book.Identifiers) != "" {
		hasCover = 1
	}

	allFields := 2
	if book.Title != "" && book.Title != UnknownTitle &&
		len(book.Authors) > 0 && book.Publisher != "" &&
		!book.PubDate.IsZero() && book.Description != "" &&
		len(book.Identifiers) > 0 {
		allFields = 1
	}

	lang := 1
	if book.Language != "" && uiLang != (language.Tag{}) {
		if tag, err := language.Parse(book.Language); err == nil {
			bookBase, confA := tag.Base()
			uiBase, confB := uiLang.Base()
			if confA != language.No && confB != language.No && bookBase != uiBase {
				lang = 2
			}
		}
	}

	exactTitle := 2
	if queryTitle != "" && CleanupTitle(queryTitle) == CleanupTitle(book.Title) {
		exactTitle = 1
	}

	return CompareKey{
		base:           [5]int{sameIdentifier, hasCover, allFields, lang, exactTitle},
		descriptionLen: len(book.Description),
		relevance:      book.Relevance,
	}
}

// Compare returns a negative value when k sorts before other (is more
// relevant), positive when after, zero when equal.
//
// The reported relevance score is checked first and short-circuits the
// tiered key whenever the two scores differ; the tiers only decide ties.
func (k CompareKey) Compare(other CompareKey) int {
	if k.relevance != other.relevance {
		if other.relevance > k.relevance {
			return 1
		}
		return -1
	}

	for i := range k.base {
		if k.base[i] != other.base[i] {
			return k.base[i] - other.base[i]
		}
	}

	// Prefer the longer description, but only when it is meaningfully
	// longer (more than 10% of the combined length).
	cx, cy := k.descriptionLen, other.descriptionLen
	if cx > 0 && cy > 0 {
		threshold := (cx + cy) / 20
		delta := cy - cx
		if abs(delta) > threshold {
			if delta < 0 {
				return -1
			}
			return 1
		}
	}
	return 0
}

// SortByCompareKey orders results so the most relevant record comes first,
// using the tiered CompareKey rather than plain Relevance.
func SortByCompareKey(results []*Book, queryTitle string, queryIdentifiers map[string]string, covers CoverChecker, uiLang language.Tag) {
	keys := make([]CompareKey, len(results))
	for i, b := range results {
		keys[i] = NewCompareKey(b, queryTitle, queryIdentifiers, covers, uiLang)
	}
	indices := make([]int, len(results))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return keys[indices[i]].Compare(keys[indices[j]]) < 0
	})
	sorted := make([]*Book, len(results))
	for i, idx := range indices {
		sorted[i] = results[idx]
	}
	copy(results, sorted)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
