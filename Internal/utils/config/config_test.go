package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "base", cfg.Global.ChainID)
	assert.Equal(t, 50, cfg.Global.MaxSignals)
	assert.Equal(t, 5, cfg.Global.FreeSignalLimit)
	assert.Equal(t, 25*time.Second, cfg.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.SourceTimeout())
	assert.Equal(t, 30*time.Second, cfg.AnalysisTimeout())
	require.Len(t, cfg.Sources.QuoteTokens, 2)
	assert.Equal(t, "weth", cfg.Sources.QuoteTokens[0].Name)
	assert.Equal(t, "usdc", cfg.Sources.QuoteTokens[1].Name)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
global:
  free_signal_limit: 3
cache:
  ttl_ms: 10000
  backend: redis
sources:
  quote_tokens:
    - name: weth
      address: "0x4200000000000000000000000000000000000006"
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Global.FreeSignalLimit)
	assert.Equal(t, 10*time.Second, cfg.CacheTTL())
	assert.Equal(t, "redis", cfg.Cache.Backend)
	require.Len(t, cfg.Sources.QuoteTokens, 1)

	// untouched keys keep their defaults
	assert.Equal(t, "base", cfg.Global.ChainID)
	assert.Equal(t, 50, cfg.Global.MaxSignals)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Analysis.Model)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "global: [unclosed"},
		{"empty chain", "global:\n  chain_id: \"\""},
		{"zero ttl", "cache:\n  ttl_ms: 0"},
		{"unknown backend", "cache:\n  backend: memcached"},
		{"negative free limit", "global:\n  free_signal_limit: -1"},
		{"quote token without address", "sources:\n  quote_tokens:\n    - name: weth"},
		{"max signals above cap", "global:\n  max_signals: 51"},
		{"chunk above provider limit", "sources:\n  address_chunk_size: 31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_Limits(t *testing.T) {
	cfg, err := Parse([]byte("global:\n  max_signals: 50\nsources:\n  address_chunk_size: 30"))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Global.MaxSignals)
	assert.Equal(t, 30, cfg.Sources.AddressChunkSize)
}

func TestSecretsFromEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_DB", "2")

	s := SecretsFromEnv()
	assert.Equal(t, "gsk_test", s.GroqAPIKey)
	assert.Equal(t, "secret", s.JWTSecretKey)
	assert.Equal(t, "localhost:6379", s.RedisAddr)
	assert.Equal(t, 2, s.RedisDB)
}

func TestListenAddr(t *testing.T) {
	cfg := Default()

	t.Setenv("PORT", "")
	assert.Equal(t, ":8080", cfg.ListenAddr())

	t.Setenv("PORT", "3000")
	assert.Equal(t, ":3000", cfg.ListenAddr())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DEXSIGNALS_CONFIG", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "base", cfg.Global.ChainID)
	assert.NotEmpty(t, cfg.Auth.OwnerWallets)
}
