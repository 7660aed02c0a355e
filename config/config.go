package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct, resolved through the
// service container as "config".
type Config struct {
	App   AppConfig
	Cache CacheConfig
	Style StyleConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

type CacheConfig struct {
	TTL   time.Duration // default lifetime of cached entries
	Sweep time.Duration // how often expired entries are purged
}

type StyleConfig struct {
	Handle string // stylesheet handle used as the <link> id / cache prefix
	Minify bool   // collapse whitespace in the generated stylesheet
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap, normally via the config provider.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "StylePress"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		Cache: CacheConfig{
			TTL:   envDuration("CACHE_TTL", 10*time.Minute),
			Sweep: envDuration("CACHE_SWEEP_INTERVAL", 15*time.Minute),
		},
		Style: StyleConfig{
			Handle: env("STYLE_HANDLE", "stylepress"),
			Minify: envBool("STYLE_MINIFY", false),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

func env(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
