package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Global struct {
		ChainID         string `yaml:"chain_id"`
		ChainLabel      string `yaml:"chain_label"`
		MaxSignals      int    `yaml:"max_signals"`
		FreeSignalLimit int    `yaml:"free_signal_limit"`
	} `yaml:"global"`

	Cache struct {
		TTLMillis int    `yaml:"ttl_ms"`
		Backend   string `yaml:"backend"` // "memory" or "redis"
		RedisKey  string `yaml:"redis_key"`
	} `yaml:"cache"`

	Sources SourcesConfig `yaml:"sources"`

	Analysis AnalysisConfig `yaml:"analysis"`

	Auth struct {
		OwnerWallets []string `yaml:"owner_wallets"`
		Issuer       string   `yaml:"issuer"`
	} `yaml:"auth"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// populated from the environment, never from yaml
	Secrets Secrets `yaml:"-"`
}

type SourcesConfig struct {
	BaseURL          string       `yaml:"base_url"`
	TimeoutSeconds   int          `yaml:"timeout_seconds"`
	QuoteTokens      []QuoteToken `yaml:"quote_tokens"`
	TrendingLimit    int          `yaml:"trending_limit"`
	BoostedLimit     int          `yaml:"boosted_limit"`
	AddressChunkSize int          `yaml:"address_chunk_size"`
}

type QuoteToken struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type AnalysisConfig struct {
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	SystemPrompt   string  `yaml:"system_prompt"`
}

type Secrets struct {
	GroqAPIKey    string
	JWTSecretKey  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Default returns the built-in configuration. LoadConfig overlays
// config.yaml on top of it, so keys missing from the file keep these values.
func Default() *Config {
	cfg := &Config{}
	cfg.Global.ChainID = "base"
	cfg.Global.ChainLabel = "Base"
	cfg.Global.MaxSignals = 50
	cfg.Global.FreeSignalLimit = 5

	cfg.Cache.TTLMillis = 25000
	cfg.Cache.Backend = "memory"
	cfg.Cache.RedisKey = "dexsignals:snapshot"

	cfg.Sources = SourcesConfig{
		BaseURL:        "https://api.dexscreener.com",
		TimeoutSeconds: 10,
		QuoteTokens: []QuoteToken{
			{Name: "weth", Address: "0x4200000000000000000000000000000000000006"},
			{Name: "usdc", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"},
		},
		TrendingLimit:    15,
		BoostedLimit:     10,
		AddressChunkSize: 10,
	}

	cfg.Analysis = AnalysisConfig{
		BaseURL:        "https://api.groq.com/openai/v1",
		Model:          "llama-3.3-70b-versatile",
		Temperature:    0.7,
		MaxTokens:      300,
		TimeoutSeconds: 30,
		SystemPrompt: "You are THRYX, an AI trading analyst for Base chain tokens. " +
			"Give concise, actionable analysis. Include risk assessment (1-10), momentum verdict, and recommendation. " +
			"Be direct. Use terminal/hacker style. Max 200 words.",
	}

	cfg.Auth.Issuer = "dexsignals-api"
	cfg.Server.Addr = ":8080"
	return cfg
}

func LoadConfig() (*Config, error) {
	// Resolve path relative to this file first
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	possiblePaths := []string{}
	if env := os.Getenv("DEXSIGNALS_CONFIG"); env != "" {
		possiblePaths = append(possiblePaths, env)
	}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		"config.yaml",
	)

	var data []byte
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Secrets = SecretsFromEnv()
	return cfg, nil
}

// Parse overlays a yaml document on Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SecretsFromEnv() Secrets {
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return Secrets{
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		JWTSecretKey:  os.Getenv("JWT_SECRET_KEY"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMillis) * time.Millisecond
}

func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Sources.TimeoutSeconds) * time.Second
}

func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutSeconds) * time.Second
}

// ListenAddr prefers $PORT so the server runs unchanged on PaaS hosts.
func (c *Config) ListenAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return c.Server.Addr
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
