package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related service registrations.
//
// Register binds factories into the container and must not resolve anything:
// providers may be added in any order, and a dependency's factory might not
// exist yet. Boot runs after ALL providers have registered, so it is safe to
// Get any service there.
//
//	type StyleServiceProvider struct{ container.BaseProvider }
//
//	func (p *StyleServiceProvider) Register(c *container.Container) error {
//	    return c.Register("css", css.NewGenerator, "settings", "cache", "config")
//	}
type ServiceProvider interface {
	// Register binds services into the container. Do not Get here.
	Register(c *Container) error

	// Boot is called after all providers are registered.
	// Safe to resolve any binding here.
	Boot(c *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot implementation. Embed it and
// override only what you need.
type BaseProvider struct{}

func (BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry tracks ServiceProviders and drives their two-phase
// lifecycle: Register everything first, then Boot everything.
type ProviderRegistry struct {
	c          *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		c:          c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and runs its Register phase. Registering the same
// provider instance twice is a no-op. If the registry has already booted, the
// provider is booted immediately after registering.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}

	if err := provider.Register(r.c); err != nil {
		return err
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)

	if r.booted {
		return provider.Boot(r.c)
	}
	return nil
}

// Boot runs the Boot phase on every registered provider, in registration
// order. Calling it again is a no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.providers {
		if err := provider.Boot(r.c); err != nil {
			return err
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
