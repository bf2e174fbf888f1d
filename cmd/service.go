package cmd

import (
	"log/slog"
	"net/http"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/leoincedo/kyobokr/internal/cache"
	"github.com/leoincedo/kyobokr/internal/config"
	"github.com/leoincedo/kyobokr/internal/identify"
	"github.com/leoincedo/kyobokr/internal/kyobo"
)

// newService wires a lookup service from the global config: cache-backed
// cover store, HTTP client with the configured timeout, and the UI
// language used for ranking. The returned cleanup closes the cache DB.
func newService() (*identify.Service, func()) {
	cleanup := func() {}

	db, err := cache.Open(viper.GetString("cache.dbfile"))
	if err != nil {
		// Lookups work without persistence, just slower on repeat runs.
		slog.Warn("Cache unavailable, continuing without it", "error", err)
		db = nil
	} else {
		cleanup = func() { _ = db.Close() }
		// Detail pages are the only entries worth pruning; cover URLs
		// and ISBN mappings are tiny and stay valid far longer.
		if err := db.ClearExpired("kyobo_detail_cache", viper.GetDuration("cache.ttl")); err != nil {
			slog.Debug("Failed to prune detail cache", "error", err)
		}
	}

	client := kyobo.NewClient(
		kyobo.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
		kyobo.WithSearchBaseURL(viper.GetString("search_base_url")),
		kyobo.WithProductBaseURL(viper.GetString("product_base_url")),
		kyobo.WithEbookBaseURL(viper.GetString("ebook_base_url")),
		kyobo.WithCoverCache(cache.NewCoverCache(db)),
		kyobo.WithDetailCache(cache.NewDetailCache(db, viper.GetDuration("cache.ttl"))),
		kyobo.WithFallbackHTMLDir(config.FallbackHTMLDir),
	)

	var opts []identify.ServiceOption
	if tag, err := language.Parse(config.UILanguage); err == nil {
		opts = append(opts, identify.WithUILanguage(tag))
	}

	return identify.NewService(client, opts...), cleanup
}

// requestIdentifiers builds the identifier map shared by the identify and
// cover commands from their flag values.
func requestIdentifiers(isbn, kyoboID string) map[string]string {
	ids := make(map[string]string)
	if isbn != "" {
		ids["isbn"] = isbn
	}
	if kyoboID != "" {
		ids["kyobo"] = kyoboID
	}
	return ids
}
