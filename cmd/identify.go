package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leoincedo/kyobokr/internal/identify"
	"github.com/leoincedo/kyobokr/internal/metadata"
)

// IdentifyCmd represents the identify command
type IdentifyCmd struct {
	Title   string        `short:"t" help:"Book title to search for"`
	Author  []string      `short:"a" help:"Author name (repeatable)"`
	ISBN    string        `help:"ISBN-10 or ISBN-13 to search for"`
	KyoboID string        `help:"Kyobo product id, skips the search step"`
	Timeout time.Duration `help:"Overall lookup timeout" default:"30s"`
	Limit   int           `short:"n" help:"Maximum number of results to print" default:"10"`
	JSON    bool          `help:"Print results as JSON"`
}

func (i *IdentifyCmd) Run() error {
	svc, cleanup := newService()
	defer cleanup()

	req := identify.Request{
		Title:       i.Title,
		Authors:     i.Author,
		Identifiers: requestIdentifiers(i.ISBN, i.KyoboID),
		Timeout:     i.Timeout,
	}

	results := make(chan *metadata.Book, 64)
	if err := svc.Identify(context.Background(), req, results, identify.NewAbort()); err != nil {
		return fmt.Errorf("identify failed: %w", err)
	}

	var books []*metadata.Book
	for len(results) > 0 {
		books = append(books, <-results)
	}
	if i.Limit > 0 && len(books) > i.Limit {
		books = books[:i.Limit]
	}

	if i.JSON {
		return printJSON(books)
	}
	printTable(books)
	return nil
}

func printJSON(books []*metadata.Book) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(books)
}

func printTable(books []*metadata.Book) {
	if len(books) == 0 {
		fmt.Println("No results.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Score", "Title", "Authors", "Publisher", "Published", "Series", "ISBN", "Kyobo ID"})

	for _, b := range books {
		published := ""
		if !b.PubDate.IsZero() {
			published = b.PubDate.Format("2006-01-02")
		}
		series := b.Series
		if series != "" && b.SeriesIndex > 0 {
			series = fmt.Sprintf("%s #%g", series, b.SeriesIndex)
		}
		tw.AppendRow(table.Row{
			fmt.Sprintf("%.0f", b.Relevance),
			b.Title,
			strings.Join(b.Authors, ", "),
			b.Publisher,
			published,
			series,
			b.Identifier("isbn"),
			b.Identifier("kyobo"),
		})
	}

	tw.Render()
}
