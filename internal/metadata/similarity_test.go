package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"a", "the matrix", "귀멸의칼날", "달러구트 꿈 백화점"} {
		assert.Equal(t, 1.0, Similarity(s, s), "Similarity(%q, %q)", s, s)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestByteSimilarityHangul(t *testing.T) {
	// Multi-byte sequences still compare byte by byte.
	score := ByteSimilarity("귀멸의칼날", "귀멸의 칼날 1")
	assert.Greater(t, score, 0.5)
}

func TestTitleRelevanceSubtitleIgnored(t *testing.T) {
	full := TitleRelevance("달러구트 꿈 백화점", "달러구트 꿈 백화점: 주문하신 꿈은 매진입니다")
	assert.Equal(t, 100.0, full)
}

func TestTitleRelevanceRange(t *testing.T) {
	score := TitleRelevance("귀멸의칼날", "귀멸의 칼날 23")
	assert.Greater(t, score, 50.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestCleanupTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Hobbit", "hobbit"},
		{"A  Tale   of Two Cities", "tale of two cities"},
		{"Dune (Deluxe Edition)", "dune"},
		{"  귀멸의칼날  ", "귀멸의칼날"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanupTitle(tt.in), "CleanupTitle(%q)", tt.in)
	}
}

func TestCleanupTitleEqualAfterNormalization(t *testing.T) {
	// Two titles equal after normalization must compare equal exactly.
	a := CleanupTitle("The Dark  Tower (revised)")
	b := CleanupTitle("dark tower")
	assert.Equal(t, a, b)
}
