package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/leoincedo/kyobokr/internal/identify"
)

// CoverCmd represents the cover command
type CoverCmd struct {
	Title   string        `short:"t" help:"Book title to search for"`
	Author  []string      `short:"a" help:"Author name (repeatable)"`
	ISBN    string        `help:"ISBN-10 or ISBN-13 to search for"`
	KyoboID string        `help:"Kyobo product id, skips the search step"`
	Timeout time.Duration `help:"Overall lookup timeout" default:"60s"`
	Out     string        `short:"o" help:"Path to write the cover image to" default:"cover.jpg"`
}

func (c *CoverCmd) Run() error {
	svc, cleanup := newService()
	defer cleanup()

	req := identify.Request{
		Title:       c.Title,
		Authors:     c.Author,
		Identifiers: requestIdentifiers(c.ISBN, c.KyoboID),
		Timeout:     c.Timeout,
	}

	out := make(chan []byte, 1)
	svc.DownloadCover(context.Background(), req, out, identify.NewAbort())

	select {
	case data := <-out:
		if err := os.WriteFile(c.Out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write cover: %w", err)
		}
		slog.Info("Cover saved", "path", c.Out, "bytes", len(data))
		return nil
	default:
		return fmt.Errorf("no cover found")
	}
}
