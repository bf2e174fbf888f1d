package kyobo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

func (c *Client) getHTML(ctx context.Context, endpoint string) ([]byte, error) {
	var body []byte
	err := c.withRetry(ctx, func() error {
		var reqErr error
		body, reqErr = c.doRequest(ctx, endpoint)
		return reqErr
	})
	return body, err
}

// DownloadImage fetches an image URL with the client's browser headers
// and retry policy.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	return c.getHTML(ctx, imageURL)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	return c.withRetry(ctx, func() error {
		body, err := c.doRequest(ctx, endpoint)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, target)
	})
}

func (c *Client) withRetry(ctx context.Context, do func() error) error {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if err := do(); err != nil {
			lastErr = err
			if !isRetryable(err) || attempt == c.retryAttempts {
				return err
			}
			select {
			case <-time.After(backoffDelay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", referer)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ko,en;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kyobo: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return io.ReadAll(resp.Body)
}

func isRetryable(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}
