package kyobo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/leoincedo/kyobokr/internal/metadata"
)

var (
	// ErrAgeRestricted means the store served the adult-verification
	// interstitial instead of the product page.
	ErrAgeRestricted = errors.New("age-restricted interstitial page")

	// ErrDetailParse means the detail page did not contain the fields a
	// product page is expected to have.
	ErrDetailParse = errors.New("detail page parse failed")

	// ErrDateParse means the publication date did not match the localized
	// "<year>년<month>월<day>일" pattern. It fails the whole fetch.
	ErrDateParse = errors.New("publication date parse failed")
)

// ageGateMarker appears in the interstitial shown for adult-rated items.
const ageGateMarker = "19세"

// FetchDetail fetches and parses the detail page for a product id into a
// normalized record. Age-restricted pages get one local recovery attempt
// from an operator-saved copy. Series enrichment is best-effort and never
// fails the fetch.
func (c *Client) FetchDetail(ctx context.Context, id string) (*metadata.Book, error) {
	raw, cached := c.details.Get(id)
	if !cached {
		pageURL := c.DetailURL(id)
		var err error
		raw, err = c.getHTML(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load detail page %s: %w", pageURL, err)
		}
	}

	book, coverURL, err := ParseDetailPage(id, raw)
	if errors.Is(err, ErrAgeRestricted) {
		raw, err = c.loadSavedPage(id)
		if err != nil {
			return nil, err
		}
		slog.Debug("Recovered age-restricted page from saved copy", "id", id)
		book, coverURL, err = ParseDetailPage(id, raw)
	}
	if err != nil {
		return nil, err
	}
	if !cached {
		// Interstitials are never cached; only pages that parsed.
		c.details.Put(id, raw)
	}

	if coverURL != "" {
		book.HasCover = c.covers.SetCoverURL(id, coverURL)
	}
	if code := book.Identifier("isbn"); code != "" {
		c.covers.SetIDForISBN(code, id)
	}

	c.enrichSeries(ctx, id, book)
	return book, nil
}

// loadSavedPage reads the operator-provided copy of an age-restricted
// detail page from the fallback directory.
func (c *Client) loadSavedPage(id string) ([]byte, error) {
	if c.fallbackHTMLDir == "" {
		return nil, fmt.Errorf("%w: no fallback directory configured", ErrAgeRestricted)
	}
	path := filepath.Join(c.fallbackHTMLDir, id+".html")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: saved copy %s not readable: %v", ErrAgeRestricted, path, err)
	}
	return raw, nil
}

// ParseDetailPage parses a product detail page into a Book plus the cover
// image URL found on it. It is a pure function over the page bytes.
func ParseDetailPage(id string, raw []byte) (*metadata.Book, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDetailParse, err)
	}

	titleSel := doc.Find("span.prod_title")
	if titleSel.Length() == 0 {
		if bytes.Contains(raw, []byte(ageGateMarker)) {
			return nil, "", ErrAgeRestricted
		}
		return nil, "", fmt.Errorf("%w: product title not found", ErrDetailParse)
	}

	book := metadata.NewBook()
	book.SetIdentifier("kyobo", id)
	book.Title = strings.TrimSpace(titleSel.First().Text())
	if book.Title == "" {
		book.Title = metadata.UnknownTitle
	}

	book.Authors = parseAuthors(doc)

	publisher, pubDate, err := parsePublishInfo(doc)
	if err != nil {
		return nil, "", err
	}
	book.Publisher = publisher
	book.PubDate = pubDate

	book.Tags = parseTags(doc)
	book.Description = parseDescription(doc)
	book.Rating = parseRating(doc)

	if code := parseISBN(doc); code != "" {
		book.SetIdentifier("isbn", code)
	}

	coverURL, _ := doc.Find("div.portrait_img_box img").First().Attr("src")
	return book, coverURL, nil
}

// parseAuthors collects the text nodes of the author block, dropping the
// trailing "more" control and the ">" separators between names.
func parseAuthors(doc *goquery.Document) []string {
	nodes := textNodes(doc.Find("div.author").First())
	if len(nodes) > 0 {
		nodes = nodes[:len(nodes)-1]
	}
	authors := make([]string, 0, len(nodes))
	for _, s := range nodes {
		if s != "" && s != ">" {
			authors = append(authors, s)
		}
	}
	return authors
}

// parsePublishInfo extracts the publisher name and the localized
// publication date ("2021년03월15일 · 출간"). A date that does not match
// the localized pattern fails the whole parse.
func parsePublishInfo(doc *goquery.Document) (string, time.Time, error) {
	var fields []string
	for _, s := range textNodes(doc.Find("div.prod_info_text.publish_date").First()) {
		if s != "" && s != ">" {
			fields = append(fields, s)
		}
	}
	if len(fields) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: publish info not found", ErrDetailParse)
	}

	publisher := fields[0]
	var dateField string
	for _, s := range fields[1:] {
		if strings.Contains(s, "년") && strings.Contains(s, "월") && strings.Contains(s, "일") {
			dateField = s
			break
		}
	}
	if dateField == "" {
		return "", time.Time{}, fmt.Errorf("%w: publication date not found", ErrDetailParse)
	}

	pubDate, err := parseKoreanDate(dateField)
	if err != nil {
		return "", time.Time{}, err
	}
	return publisher, pubDate, nil
}

// parseKoreanDate parses the store's "<year>년<month>월<day>일" date
// rendering, tolerating the " · 출간" suffix and stray whitespace.
func parseKoreanDate(s string) (time.Time, error) {
	s = strings.Replace(s, "·", "", 1)
	s = strings.Join(strings.Fields(s), "")
	if i := strings.Index(s, "출간"); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006년01월02일", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, s)
	}
	return t, nil
}

// parseTags returns the category breadcrumb entries, de-duplicated while
// preserving order.
func parseTags(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var tags []string
	doc.Find("li.category_list_item").Each(func(_ int, item *goquery.Selection) {
		for _, s := range textNodes(item) {
			if s == "" || s == ">" || seen[s] {
				continue
			}
			seen[s] = true
			tags = append(tags, s)
		}
	})
	return tags
}

func parseDescription(doc *goquery.Document) string {
	var parts []string
	for _, s := range textNodes(doc.Find("div.intro_bottom div.info_text").First()) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// parseRating reads the 0–10 site rating and rescales it to 0–5.
func parseRating(doc *goquery.Document) float64 {
	value, ok := doc.Find("input.form_rating").First().Attr("value")
	if !ok {
		return 0
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return rating / 2
}

// parseISBN tries the product-spec table row first and the info box as a
// fallback; first non-empty value wins.
func parseISBN(doc *goquery.Document) string {
	var code string
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if strings.TrimSpace(row.Find("th").First().Text()) != "ISBN" {
			return true
		}
		code = strings.TrimSpace(row.Find("td").First().Text())
		return code == ""
	})
	if code != "" {
		return code
	}
	return strings.TrimSpace(doc.Find(".prod_pordInfo_box.indent dd:nth-of-type(2) em").First().Text())
}

// textNodes walks a selection's subtree and returns every text node,
// trimmed, in document order.
func textNodes(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, strings.TrimSpace(n.Data))
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}
