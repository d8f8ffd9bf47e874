package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("MIDTRANS_SERVER_KEY", "")
	t.Setenv("STRIPE_PAYMENT_LINK", "https://buy.stripe.com/test")

	cfg := Load()

	assert.Equal(t, "key", cfg.Gemini.ApiKey)
	assert.Equal(t, 5, cfg.App.MaxUploadMB)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 2.0, cfg.Retry.Multiplier)
	assert.False(t, cfg.Payment.Verify)

	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateMissingGeminiKeyIsFatal(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load().Validate()

	assert.ErrorIs(t, err, ErrMissingGeminiKey)
}

func TestValidateMissingPaymentLinkWarns(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("STRIPE_PAYMENT_LINK", "")
	t.Setenv("MIDTRANS_SERVER_KEY", "")

	warnings, err := Load().Validate()

	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "STRIPE_PAYMENT_LINK")
}

func TestMidtransKeyTurnsOnVerification(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-xyz")
	t.Setenv("PAYMENT_VERIFY", "")

	assert.True(t, Load().Payment.Verify)

	t.Setenv("PAYMENT_VERIFY", "false")
	assert.False(t, Load().Payment.Verify)
}

func TestValidateWarnsWhenVerificationOverridesPaymentLink(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("STRIPE_PAYMENT_LINK", "https://buy.stripe.com/test")
	t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-xyz")
	t.Setenv("PAYMENT_VERIFY", "")

	warnings, err := Load().Validate()

	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "STRIPE_PAYMENT_LINK is ignored")

	t.Setenv("PAYMENT_VERIFY", "false")
	warnings, err = Load().Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
