// Package providers registers the application services into the container.
// Registration order does not matter: dependencies are declared by name and
// resolved lazily on first Get.
package providers

import (
	"go.uber.org/zap"

	"github.com/stylepress/go-stylepress/cache"
	"github.com/stylepress/go-stylepress/config"
	"github.com/stylepress/go-stylepress/container"
	"github.com/stylepress/go-stylepress/css"
	"github.com/stylepress/go-stylepress/routing"
	"github.com/stylepress/go-stylepress/security"
	"github.com/stylepress/go-stylepress/settings"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the typed configuration as "config".
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	envFiles := p.EnvFiles
	return c.Register("config", func() *config.Config {
		return config.Load(envFiles...)
	})
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the zap logger as "logger". The container itself
// never logs; the logger exists for the HTTP and bootstrap layers.
//
// Declared dependencies: config.
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(c *container.Container) error {
	return c.Register("logger", func(cfg *config.Config) (*zap.Logger, error) {
		if cfg.App.Env == "production" {
			return zap.NewProduction()
		}
		return zap.NewDevelopment()
	}, "config")
}

func (p *LogServiceProvider) Boot(c *container.Container) error {
	log, err := container.Resolve[*zap.Logger](c, "logger")
	if err != nil {
		return err
	}
	cfg, err := container.Resolve[*config.Config](c, "config")
	if err != nil {
		return err
	}
	log.Info("application booted",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)
	return nil
}

// ── CacheServiceProvider ──────────────────────────────────────────────────────

// CacheServiceProvider binds the TTL object cache as "cache".
//
// Declared dependencies: config.
type CacheServiceProvider struct {
	container.BaseProvider
}

func (p *CacheServiceProvider) Register(c *container.Container) error {
	return c.Register("cache", cache.FromConfig, "config")
}

// ── SecurityServiceProvider ───────────────────────────────────────────────────

// SecurityServiceProvider binds the value sanitizer as "security".
type SecurityServiceProvider struct {
	container.BaseProvider
}

func (p *SecurityServiceProvider) Register(c *container.Container) error {
	return c.Register("security", security.New)
}

// ── SettingsServiceProvider ───────────────────────────────────────────────────

// SettingsServiceProvider binds the settings repository as "settings".
//
// Declared dependencies: cache, security.
type SettingsServiceProvider struct {
	container.BaseProvider
}

func (p *SettingsServiceProvider) Register(c *container.Container) error {
	return c.Register("settings", settings.NewStore, "cache", "security")
}

// ── StyleServiceProvider ──────────────────────────────────────────────────────

// StyleServiceProvider binds the stylesheet generator as "css". Together
// with the settings service this forms the diamond around "cache": both
// depend on it and share the single cached instance.
//
// Declared dependencies: settings, cache, config.
type StyleServiceProvider struct {
	container.BaseProvider
}

func (p *StyleServiceProvider) Register(c *container.Container) error {
	return c.Register("css", css.NewGenerator, "settings", "cache", "config")
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the HTTP router as "router".
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	return c.Register("router", routing.New)
}
