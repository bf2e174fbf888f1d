package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "https://search.kyobobook.co.kr", viper.GetString("search_base_url"))
	assert.Equal(t, "https://product.kyobobook.co.kr", viper.GetString("product_base_url"))
	assert.Equal(t, "https://ebook-product.kyobobook.co.kr", viper.GetString("ebook_base_url"))
	assert.Equal(t, 30*time.Second, RequestTimeout)
	assert.Equal(t, "ko", UILanguage)
	assert.NotEmpty(t, FallbackHTMLDir)
}

func TestInitConfigOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("request_timeout", "5s")
	viper.Set("ui_language", "en")
	InitConfig()

	assert.Equal(t, 5*time.Second, RequestTimeout)
	assert.Equal(t, "en", UILanguage)
}
