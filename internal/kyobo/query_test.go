package kyobo

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryParams(t *testing.T, rawURL string) url.Values {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Query()
}

func TestBuildSearchURLPrefersISBN(t *testing.T) {
	c := NewClient()

	searchURL, err := c.BuildSearchURL("귀멸의칼날", []string{"고토게 코요하루"},
		map[string]string{"isbn": "9791136248077"})
	require.NoError(t, err)

	params := queryParams(t, searchURL)
	assert.Equal(t, "9791136248077", params.Get("KeyISBN"))
	assert.Empty(t, params.Get("keyword"))
}

func TestBuildSearchURLInvalidISBNFallsBackToKeyword(t *testing.T) {
	c := NewClient()

	searchURL, err := c.BuildSearchURL("귀멸의칼날", nil,
		map[string]string{"isbn": "9791136248078"})
	require.NoError(t, err)

	params := queryParams(t, searchURL)
	assert.Empty(t, params.Get("KeyISBN"))
	assert.Equal(t, "귀멸의칼날", params.Get("keyword"))
}

func TestBuildSearchURLKeywordIncludesFirstAuthor(t *testing.T) {
	c := NewClient()

	searchURL, err := c.BuildSearchURL("달러구트 꿈 백화점", []string{"이미예", "다른저자"}, nil)
	require.NoError(t, err)

	params := queryParams(t, searchURL)
	assert.Equal(t, "달러구트 꿈 백화점 이미예", params.Get("keyword"))
}

func TestBuildSearchURLInsufficientInput(t *testing.T) {
	c := NewClient()

	_, err := c.BuildSearchURL("", nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientQuery)
}

func TestNormalizeVolumeSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"드래곤볼 3권", "드래곤볼 3"},
		{"드래곤볼 03권", "드래곤볼 3"},
		{"드래곤볼 12", "드래곤볼 12"},
		{"드래곤볼", "드래곤볼"},
		{"권력의 심리학", "권력의 심리학"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeVolumeSuffix(tt.in), "normalizeVolumeSuffix(%q)", tt.in)
	}
}

func TestNarrowTitle(t *testing.T) {
	assert.Equal(t, "꿈 백화점", NarrowTitle("달러구트 꿈 백화점 전2권"))
	assert.Equal(t, "칼날", NarrowTitle("귀멸의 칼날"))
	assert.Empty(t, NarrowTitle("귀멸의칼날"))
	assert.Empty(t, NarrowTitle(""))
}

func TestDetailURLTemplates(t *testing.T) {
	c := NewClient()

	assert.Equal(t, "https://product.kyobobook.co.kr/detail/S000200713992",
		c.DetailURL("S000200713992"))
	assert.Equal(t, "https://ebook-product.kyobobook.co.kr/dig/epd/ebook/E000003280934",
		c.DetailURL("E000003280934"))
}

func TestBookURL(t *testing.T) {
	c := NewClient()

	assert.Equal(t, "https://product.kyobobook.co.kr/detail/S1",
		c.BookURL(map[string]string{"kyobo": "S1"}))
	assert.Equal(t, "https://product.kyobobook.co.kr/detail/S2",
		c.BookURL(map[string]string{"kyobobook.co.kr": "S2"}))
	assert.Empty(t, c.BookURL(map[string]string{"isbn": "9791136248077"}))
}
