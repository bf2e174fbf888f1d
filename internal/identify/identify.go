// Package identify orchestrates a metadata lookup: build the query, parse
// the result list, fan out detail fetches, then rank and emit the merged
// records.
package identify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/leoincedo/kyobokr/internal/cache"
	"github.com/leoincedo/kyobokr/internal/kyobo"
	"github.com/leoincedo/kyobokr/internal/metadata"
	"github.com/leoincedo/kyobokr/internal/ratelimit"
)

const (
	// defaultStartDelay spaces out detail-fetch task starts so a lookup
	// never bursts the store.
	defaultStartDelay = 100 * time.Millisecond
	// defaultPollInterval is how often the collect loop re-checks the
	// abort flag while waiting on workers.
	defaultPollInterval = 200 * time.Millisecond
)

// Request carries the caller-supplied lookup inputs.
type Request struct {
	Title       string
	Authors     []string
	Identifiers map[string]string
	// Timeout bounds the whole lookup; zero means the client default.
	Timeout time.Duration
}

// Service runs lookups against a kyobo client.
type Service struct {
	client       *kyobo.Client
	covers       *cache.CoverCache
	uiLang       language.Tag
	startDelay   time.Duration
	pollInterval time.Duration
}

// NewService creates a lookup service. covers may be nil.
func NewService(client *kyobo.Client, opts ...ServiceOption) *Service {
	s := &Service{
		client:       client,
		covers:       client.Covers(),
		uiLang:       language.Korean,
		startDelay:   defaultStartDelay,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServiceOption is a functional option for configuring the Service.
type ServiceOption func(*Service)

// WithUILanguage sets the language results are ranked against.
func WithUILanguage(tag language.Tag) ServiceOption {
	return func(s *Service) {
		s.uiLang = tag
	}
}

// WithStartDelay sets the pacing delay between detail-fetch task starts.
func WithStartDelay(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d >= 0 {
			s.startDelay = d
		}
	}
}

// WithPollInterval sets how often the collect loop checks the abort flag.
func WithPollInterval(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// Identify runs the full lookup and pushes ranked records onto results.
// The channel is not closed; ownership of emitted records passes to the
// caller. Errors cover only the stages before fan-out: an unusable query
// or a failed list fetch. Individual candidate failures are logged and
// dropped.
func (s *Service) Identify(ctx context.Context, req Request, results chan<- *metadata.Book, abort *Abort) error {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	candidates, err := s.findCandidates(ctx, req, abort)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	books := s.fetchAll(ctx, candidates, abort)

	for _, book := range books {
		if req.Title != "" {
			book.Relevance = metadata.TitleRelevance(req.Title, book.Title)
		}
	}
	metadata.Rank(books)

	for _, book := range books {
		select {
		case results <- book:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// findCandidates resolves the list of detail pages to fetch: a direct id
// bypasses search entirely, an empty search result earns exactly one
// retry with a narrowed title.
func (s *Service) findCandidates(ctx context.Context, req Request, abort *Abort) ([]kyobo.Candidate, error) {
	if id := kyobo.ProductID(req.Identifiers); id != "" {
		return []kyobo.Candidate{{ID: id}}, nil
	}

	candidates, err := s.search(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 || abort.IsSet() {
		return candidates, nil
	}

	narrowed := kyobo.NarrowTitle(req.Title)
	if narrowed == req.Title || (narrowed == "" && len(req.Authors) == 0) {
		return nil, nil
	}
	slog.Debug("Empty result list, retrying with narrowed title", "title", narrowed)
	retry := req
	retry.Title = narrowed
	return s.search(ctx, retry)
}

func (s *Service) search(ctx context.Context, req Request) ([]kyobo.Candidate, error) {
	searchURL, err := s.client.BuildSearchURL(req.Title, req.Authors, req.Identifiers)
	if err != nil {
		return nil, err
	}
	slog.Debug("Using search URL", "url", searchURL)

	candidates, err := s.client.Search(ctx, searchURL, req.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch result list: %w", err)
	}
	return candidates, nil
}

// fetchAll fans out one detail fetch per candidate, start-staggered, and
// collects whatever finished before completion or abort. A candidate's
// failure never affects its siblings.
func (s *Service) fetchAll(ctx context.Context, candidates []kyobo.Candidate, abort *Abort) []*metadata.Book {
	collected := make(chan *metadata.Book, len(candidates))
	var wg sync.WaitGroup

	// Don't start all fetches at the same time.
	pacer := ratelimit.NewInterval("KyoboDetail", s.startDelay)

	for _, cand := range candidates {
		if abort.IsSet() || ctx.Err() != nil {
			break
		}
		if err := pacer.Wait(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(cand kyobo.Candidate) {
			defer wg.Done()
			book, err := s.client.FetchDetail(ctx, cand.ID)
			if err != nil {
				slog.Warn("Failed to parse details", "id", cand.ID, "error", err)
				return
			}
			book.Relevance = cand.Score * 100
			collected <- book
		}(cand)
	}

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()

wait:
	for {
		select {
		case <-allDone:
			break wait
		case <-ctx.Done():
			break wait
		case <-time.After(s.pollInterval):
			if abort.IsSet() {
				// Stop waiting; running tasks are left to finish on
				// their own and their results are discarded.
				break wait
			}
		}
	}

	books := make([]*metadata.Book, 0, len(candidates))
	for {
		select {
		case book := <-collected:
			books = append(books, book)
		default:
			return books
		}
	}
}
