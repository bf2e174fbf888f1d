package kyobo

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/leoincedo/kyobokr/internal/metadata"
)

// seriesIndexPat matches a decimal volume token embedded in a title,
// separated from the name by whitespace ("귀멸의 칼날 12.5").
var seriesIndexPat = regexp.MustCompile(`\s+(\d*\.?\d+)\s*`)

// splitOrdinals maps the three CJK split-volume suffixes onto series
// indices.
var splitOrdinals = map[string]float64{
	"상": 1.0,
	"중": 2.0,
	"하": 3.0,
}

// enrichSeries asks the series-membership endpoint which series the
// product belongs to and fills in the best match. Any failure here is
// logged and swallowed: series data never decides the fate of a fetch.
func (c *Client) enrichSeries(ctx context.Context, id string, book *metadata.Book) {
	ctx, cancel := context.WithTimeout(ctx, seriesTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/gw/pdt/product/%s/series?per=20", c.productBaseURL, id)

	var response struct {
		Data struct {
			List []struct {
				Name string `json:"name"`
			} `json:"list"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		slog.Debug("Series lookup failed", "id", id, "error", err)
		return
	}

	names := make([]string, 0, len(response.Data.List))
	for _, item := range response.Data.List {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	if len(names) == 0 {
		return
	}

	name, index := SeriesInfo(book.Title, names)
	if name != "" {
		book.Series = name
	}
	if index > 0 {
		book.SeriesIndex = index
	}
}

// SeriesInfo picks the series name best matching the title and derives the
// volume index, either from a decimal token in the title or from a 상/중/하
// split-volume suffix on the series name.
func SeriesInfo(title string, names []string) (string, float64) {
	if len(names) == 0 {
		return "", 0
	}

	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		return metadata.Similarity(prefixBeforeColon(sorted[i]), title) >
			metadata.Similarity(prefixBeforeColon(sorted[j]), title)
	})

	name := strings.TrimSpace(prefixBeforeColon(sorted[0]))
	name = strings.NewReplacer("(", " ", ")", "").Replace(name)
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", 0
	}

	last := fields[len(fields)-1]
	_, err := strconv.Atoi(last)
	trailingVolume := err == nil

	var index float64
	if m := seriesIndexPat.FindStringSubmatch(title); m != nil {
		index, _ = strconv.ParseFloat(m[1], 64)
	}
	if ordinal, ok := splitOrdinals[last]; ok {
		trailingVolume = true
		index = ordinal
	}

	if trailingVolume {
		name = strings.Join(fields[:len(fields)-1], " ")
	} else {
		name = strings.Join(fields, " ")
	}
	return name, index
}

func prefixBeforeColon(s string) string {
	return strings.SplitN(s, ":", 2)[0]
}
