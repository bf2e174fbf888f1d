package identify

import (
	"context"
	"log/slog"

	"github.com/leoincedo/kyobokr/internal/metadata"
)

// coverQueueSize bounds the private result queue a cover lookup drains.
const coverQueueSize = 64

// DownloadCover resolves and downloads the best cover image for the
// request, pushing the image bytes onto out. The cached identifier →
// cover-URL mapping is the fast path; otherwise a full identify run
// supplies candidates, ordered by the tiered compare key. Failures are
// logged and end the operation without emitting anything.
func (s *Service) DownloadCover(ctx context.Context, req Request, out chan<- []byte, abort *Abort) {
	cachedURL := s.covers.CoverURLFor(req.Identifiers)

	if cachedURL == "" {
		slog.Info("No cached cover found, running identify")

		// The queue is drained while Identify emits, so a result list
		// larger than the buffer never blocks the emit loop.
		queue := make(chan *metadata.Book, coverQueueSize)
		stop := make(chan struct{})
		collected := make(chan []*metadata.Book, 1)
		go func() {
			var books []*metadata.Book
			for {
				select {
				case book := <-queue:
					books = append(books, book)
				case <-stop:
					collected <- append(books, drain(queue)...)
					return
				}
			}
		}()

		err := s.Identify(ctx, req, queue, abort)
		close(stop)
		books := <-collected
		if err != nil {
			slog.Warn("Identify for cover failed", "error", err)
			return
		}
		if abort.IsSet() {
			return
		}

		metadata.SortByCompareKey(books, req.Title, req.Identifiers, s.covers, s.uiLang)
		for _, book := range books {
			if url := s.covers.CoverURLFor(book.Identifiers); url != "" {
				cachedURL = url
				break
			}
		}
	}

	if cachedURL == "" {
		slog.Info("No cover found")
		return
	}
	if abort.IsSet() {
		return
	}

	slog.Debug("Downloading cover", "url", cachedURL)
	data, err := s.client.DownloadImage(ctx, cachedURL)
	if err != nil {
		slog.Warn("Failed to download cover", "url", cachedURL, "error", err)
		return
	}

	select {
	case out <- data:
	case <-ctx.Done():
	}
}

func drain(queue chan *metadata.Book) []*metadata.Book {
	var books []*metadata.Book
	for {
		select {
		case book := <-queue:
			books = append(books, book)
		default:
			return books
		}
	}
}
