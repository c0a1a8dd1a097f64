package config

import (
	"fmt"
	"strings"

	"github.com/fazecat/dexsignals/Internal/datafeed"
	"github.com/fazecat/dexsignals/Internal/strategy/signals"
)

// DisplayConfiguration shows current configuration
func DisplayConfiguration(cfg *Config) {
	fmt.Println("\n📋 Current Configuration:")

	fmt.Println("\n=== Global ===")
	fmt.Printf("Chain: %s (%s)\n", cfg.Global.ChainLabel, cfg.Global.ChainID)
	fmt.Printf("Max Signals: %d\n", cfg.Global.MaxSignals)
	fmt.Printf("Free Signal Limit: %d\n", cfg.Global.FreeSignalLimit)

	fmt.Println("\n=== Cache ===")
	fmt.Printf("Backend: %s\n", cfg.Cache.Backend)
	fmt.Printf("TTL: %s\n", cfg.CacheTTL())
	if strings.EqualFold(cfg.Cache.Backend, "redis") {
		fmt.Printf("Redis: %s (key %s)\n", cfg.Secrets.RedisAddr, cfg.Cache.RedisKey)
	}

	fmt.Println("\n=== Sources ===")
	fmt.Printf("Provider: %s (timeout %s)\n", cfg.Sources.BaseURL, cfg.SourceTimeout())
	for _, q := range cfg.Sources.QuoteTokens {
		fmt.Printf("  • %s: %s\n", q.Name, q.Address)
	}
	fmt.Printf("Trending Limit: %d\n", cfg.Sources.TrendingLimit)
	fmt.Printf("Boosted Limit: %d\n", cfg.Sources.BoostedLimit)
	fmt.Printf("Address Chunk Size: %d\n", cfg.Sources.AddressChunkSize)

	fmt.Println("\n=== Analysis ===")
	fmt.Printf("Model: %s (temperature %.1f, max tokens %d)\n", cfg.Analysis.Model, cfg.Analysis.Temperature, cfg.Analysis.MaxTokens)
	fmt.Printf("GROQ_API_KEY: %s\n", setStr(cfg.Secrets.GroqAPIKey))
	fmt.Printf("JWT_SECRET_KEY: %s\n", setStr(cfg.Secrets.JWTSecretKey))
}

// Validate rejects settings the scanner cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Global.ChainID == "":
		return fmt.Errorf("global.chain_id is required")
	case c.Global.MaxSignals <= 0:
		return fmt.Errorf("global.max_signals must be positive, got %d", c.Global.MaxSignals)
	case c.Global.MaxSignals > signals.MaxSignals:
		return fmt.Errorf("global.max_signals must not exceed %d, got %d", signals.MaxSignals, c.Global.MaxSignals)
	case c.Global.FreeSignalLimit < 0:
		return fmt.Errorf("global.free_signal_limit must not be negative, got %d", c.Global.FreeSignalLimit)
	case c.Cache.TTLMillis <= 0:
		return fmt.Errorf("cache.ttl_ms must be positive, got %d", c.Cache.TTLMillis)
	case c.Cache.Backend != "memory" && c.Cache.Backend != "redis":
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	case c.Sources.BaseURL == "":
		return fmt.Errorf("sources.base_url is required")
	case c.Sources.AddressChunkSize > datafeed.MaxAddressesPerQuery:
		return fmt.Errorf("sources.address_chunk_size must not exceed %d, got %d", datafeed.MaxAddressesPerQuery, c.Sources.AddressChunkSize)
	}
	for _, q := range c.Sources.QuoteTokens {
		if q.Name == "" || q.Address == "" {
			return fmt.Errorf("sources.quote_tokens: name and address are required")
		}
	}
	return nil
}

func setStr(v string) string {
	if v != "" {
		return "✅ Set"
	}
	return "❌ Not set"
}
