package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROUNDING_ALLOWED_HOSTS", "")
	t.Setenv("SIGNED_URL_TTL", "bogus")
	t.Setenv("SMTP_PASSWORD", "")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.Storage.SignedURLTTL)
	assert.Equal(t, 8*time.Second, cfg.Grounding.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Grounding.CacheTTL)
	assert.Nil(t, cfg.Grounding.AllowedHosts)
	assert.Equal(t, "gpt-4o-mini", cfg.Ai.Model)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GROUNDING_ALLOWED_HOSTS", " uscis.gov , ,dol.gov")
	t.Setenv("GROUNDING_DAILY_CAP", "25")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("CLIENT_URL", "https://app.popimmigration.com/")
	t.Setenv("STRIPE_PRICE_UPSELL_RFE_REVIEW", "price_rfe")

	cfg := Load()

	assert.Equal(t, []string{"uscis.gov", "dol.gov"}, cfg.Grounding.AllowedHosts)
	assert.Equal(t, 25, cfg.Grounding.DailyCap)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, "https://app.popimmigration.com", cfg.App.ClientURL)
	assert.Equal(t, "price_rfe", cfg.Stripe.Prices.Upsells["rfe_review"])
}
