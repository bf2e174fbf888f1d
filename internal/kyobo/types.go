package kyobo

// Candidate is a single search-result item before detail enrichment. It
// lives only for the duration of one lookup.
type Candidate struct {
	// ID is the product id taken from the trailing path segment of the
	// item's detail-page link. An 'E' prefix marks a digital edition.
	ID string
	// Title is the display title shown on the search-results page.
	Title string
	// Score is the byte-level similarity between the search keyword and
	// Title. It pre-sorts candidates before the detail fetch and plays no
	// part in the final ranking.
	Score float64
}

// IsEbook reports whether the candidate id names a digital edition, which
// lives under a different detail-page URL template.
func (c Candidate) IsEbook() bool {
	return len(c.ID) > 0 && c.ID[0] == 'E'
}
