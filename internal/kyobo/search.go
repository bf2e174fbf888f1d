package kyobo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leoincedo/kyobokr/internal/metadata"
)

// Search fetches the search-results page for searchURL and returns the
// candidates it lists, best preliminary match first. keyword is the raw
// query string the candidates are pre-scored against. An empty slice
// means the search matched nothing; an error means the page could not be
// fetched or parsed at all.
func (c *Client) Search(ctx context.Context, searchURL, keyword string) ([]Candidate, error) {
	raw, err := c.getHTML(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search fetch failed: %w", err)
	}
	return ParseSearchResults(raw, keyword)
}

// ParseSearchResults parses a search-results page into an ordered
// candidate list. It is a pure function: same input, same output.
func ParseSearchResults(raw []byte, keyword string) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("search parse failed: %w", err)
	}

	candidates := []Candidate{}
	doc.Find("li.prod_item").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find(`span[id*="cmdtName"]`).First().Text())
		href, ok := item.Find("a[href]").First().Attr("href")
		if title == "" || !ok {
			return
		}
		id := itemID(href)
		if id == "" {
			return
		}
		candidates = append(candidates, Candidate{
			ID:    id,
			Title: title,
			Score: metadata.ByteSimilarity(keyword, title),
		})
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// itemID derives the stable per-item id from the trailing path segment of
// a detail-page link.
func itemID(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	segments := strings.Split(u.Path, "/")
	return segments[len(segments)-1]
}
