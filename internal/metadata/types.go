// Package metadata defines the normalized book record and the relevance
// scoring used to order lookup results.
package metadata

import "time"

// UnknownTitle is the placeholder used when a source page carries no title.
const UnknownTitle = "Unknown"

// Book is the normalized metadata record produced by a lookup.
// Once placed on a result channel it is owned by the consumer and must not
// be mutated by the producer.
type Book struct {
	Title       string            `json:"title"`
	Authors     []string          `json:"authors"`
	Publisher   string            `json:"publisher"`
	PubDate     time.Time         `json:"pub_date"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Rating      float64           `json:"rating"` // 0..5
	Series      string            `json:"series,omitempty"`
	SeriesIndex float64           `json:"series_index,omitempty"`
	Identifiers map[string]string `json:"identifiers"`
	Language    string            `json:"language"`

	// Relevance is the 0..100 similarity between the query and this
	// record's title, set by the orchestrator before ranking.
	Relevance float64 `json:"relevance"`

	// HasCover reports whether a cover URL was found and cached for this
	// record during the detail fetch.
	HasCover bool `json:"has_cover"`
}

// NewBook returns a Book with the defaults every emitted record carries:
// a non-empty placeholder title and Korean as the source language.
func NewBook() *Book {
	return &Book{
		Title:       UnknownTitle,
		Identifiers: make(map[string]string),
		Language:    "ko",
	}
}

// Identifier returns the value stored under scheme, or "".
func (b *Book) Identifier(scheme string) string {
	if b.Identifiers == nil {
		return ""
	}
	return b.Identifiers[scheme]
}

// SetIdentifier stores value under scheme, dropping empty values.
func (b *Book) SetIdentifier(scheme, value string) {
	if value == "" {
		return
	}
	if b.Identifiers == nil {
		b.Identifiers = make(map[string]string)
	}
	b.Identifiers[scheme] = value
}
