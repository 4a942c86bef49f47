// Package config loads runtime configuration for the storefront.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the knobs of the HTTP server, the catalog client and the caches.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	// Remote catalog API
	CatalogURL        string
	CatalogTimeout    time.Duration
	CatalogRevalidate time.Duration

	// Response cache. An empty RedisAddr keeps the cache in process memory.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CachePrefix    string
	CacheRetention time.Duration

	// CacheMaxEntries caps the in-process store; Redis relies on retention and its own policy.
	CacheMaxEntries int

	RateLimitRPS   float64
	RateLimitBurst int
	BanStrikes     int
	BanWindow      time.Duration
	BanDuration    time.Duration

	PrerenderOnStart  bool
	PrerenderInterval time.Duration

	ImageProxyURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("shutdown_timeout", "15s")
	v.SetDefault("log_level", "info")

	v.SetDefault("catalog_url", "http://localhost:3333")
	v.SetDefault("catalog_timeout", "10s")
	v.SetDefault("catalog_revalidate", "1h")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_prefix", "devstore:fetch:")
	v.SetDefault("cache_retention", "24h")
	v.SetDefault("cache_max_entries", 10000)

	v.SetDefault("rate_limit_rps", 20.0)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("ban_strikes", 10)
	v.SetDefault("ban_window", "1m")
	v.SetDefault("ban_duration", "15m")

	v.SetDefault("prerender_on_start", true)
	v.SetDefault("prerender_interval", "1h")

	v.SetDefault("image_proxy_url", "")
}

// Load collects configuration from, in increasing priority: defaults, an optional
// devstore.yaml in the working directory, a .env file and the process environment.
func Load() (Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("devstore")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:        v.GetString("http_addr"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		LogLevel:        v.GetString("log_level"),

		CatalogURL:        strings.TrimRight(v.GetString("catalog_url"), "/"),
		CatalogTimeout:    v.GetDuration("catalog_timeout"),
		CatalogRevalidate: v.GetDuration("catalog_revalidate"),

		RedisAddr:       v.GetString("redis_addr"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		CachePrefix:     v.GetString("cache_prefix"),
		CacheRetention:  v.GetDuration("cache_retention"),
		CacheMaxEntries: v.GetInt("cache_max_entries"),

		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
		BanStrikes:     v.GetInt("ban_strikes"),
		BanWindow:      v.GetDuration("ban_window"),
		BanDuration:    v.GetDuration("ban_duration"),

		PrerenderOnStart:  v.GetBool("prerender_on_start"),
		PrerenderInterval: v.GetDuration("prerender_interval"),

		ImageProxyURL: v.GetString("image_proxy_url"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.CatalogURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("CATALOG_URL must be an absolute http(s) URL, got %q", c.CatalogURL)
	}
	if c.CatalogTimeout <= 0 {
		return errors.New("CATALOG_TIMEOUT must be positive")
	}
	if c.CatalogRevalidate < 0 {
		return errors.New("CATALOG_REVALIDATE cannot be negative")
	}
	if c.CacheMaxEntries <= 0 {
		return errors.New("CACHE_MAX_ENTRIES must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
