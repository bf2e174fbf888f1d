// Package config holds the viper-backed configuration for kyobokr.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// RequestTimeout bounds every outbound page fetch.
	RequestTimeout time.Duration
	// UILanguage is the BCP 47 tag results are ranked against.
	UILanguage string
	// FallbackHTMLDir is where operator-saved detail pages live, used to
	// recover age-restricted listings.
	FallbackHTMLDir string
)

// InitConfig initializes configuration defaults and reads an optional
// config file from the working directory or ~/.config/kyobokr.
func InitConfig() {
	viper.SetDefault("search_base_url", "https://search.kyobobook.co.kr")
	viper.SetDefault("product_base_url", "https://product.kyobobook.co.kr")
	viper.SetDefault("ebook_base_url", "https://ebook-product.kyobobook.co.kr")
	viper.SetDefault("request_timeout", "30s")
	viper.SetDefault("ui_language", "ko")
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h")
	viper.SetDefault("fallback_html_dir", defaultFallbackDir())

	viper.SetConfigName("kyobokr")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "kyobokr"))
	}
	// A missing config file is fine, defaults cover everything.
	_ = viper.ReadInConfig()

	RequestTimeout = viper.GetDuration("request_timeout")
	if RequestTimeout <= 0 {
		RequestTimeout = 30 * time.Second
	}
	UILanguage = viper.GetString("ui_language")
	FallbackHTMLDir = viper.GetString("fallback_html_dir")
}

// defaultFallbackDir mirrors where the desktop app drops manually saved
// pages for age-restricted items.
func defaultFallbackDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Desktop")
}
