package kyobo

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/leoincedo/kyobokr/internal/isbn"
)

// ErrInsufficientQuery means neither a usable identifier nor a title or
// author was supplied. The lookup fails outright, it is never retried.
var ErrInsufficientQuery = errors.New("insufficient metadata to construct query")

// trailingVolumePat matches a trailing volume number, optionally marked
// with the 권 counter ("드래곤볼 3권").
var trailingVolumePat = regexp.MustCompile(`(\d+)(권)?$`)

// BuildSearchURL turns a (title, authors, identifiers) tuple into a search
// URL. A checksum-valid ISBN always wins over a free-text query; otherwise
// the normalized title plus the first author form a single keyword. With no
// usable input it returns ErrInsufficientQuery.
func (c *Client) BuildSearchURL(title string, authors []string, identifiers map[string]string) (string, error) {
	params := url.Values{}

	if code := isbn.Check(identifiers["isbn"]); code != "" {
		params.Set("KeyISBN", code)
		return c.searchBaseURL + "/search?" + params.Encode(), nil
	}

	if title != "" || len(authors) > 0 {
		keyword := normalizeVolumeSuffix(title)
		if len(authors) > 0 && authors[0] != "" {
			keyword = strings.TrimSpace(keyword + " " + authors[0])
		}
		params.Set("keyword", keyword)
		return c.searchBaseURL + "/search?" + params.Encode(), nil
	}

	return "", ErrInsufficientQuery
}

// normalizeVolumeSuffix collapses a trailing volume token: "3권" becomes
// "3" and zero-padded numbers are re-rendered ("01" becomes "1"), so the
// keyword matches how the store indexes multi-volume titles.
func normalizeVolumeSuffix(title string) string {
	loc := trailingVolumePat.FindStringSubmatchIndex(title)
	if loc == nil {
		return title
	}
	number, err := strconv.Atoi(title[loc[2]:loc[3]])
	if err != nil {
		return title
	}
	return title[:loc[2]] + strconv.Itoa(number)
}

// NarrowTitle reduces a title to its middle tokens (second and third), the
// one-shot fallback used when a full-title search comes back empty. A
// title with a single token narrows to "".
func NarrowTitle(title string) string {
	tokens := strings.Fields(title)
	if len(tokens) <= 1 {
		return ""
	}
	end := 3
	if end > len(tokens) {
		end = len(tokens)
	}
	return strings.Join(tokens[1:end], " ")
}
