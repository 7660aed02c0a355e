// Package container provides the service container behind the StylePress
// backend: a registry of named factories, a resolver with cycle detection,
// and a singleton cache of constructed instances.
//
// # Overview
//
// Services are registered by name with a factory function and an ordered list
// of dependency names. Nothing is constructed at registration time; the first
// Get(name) resolves the declared dependencies depth-first, invokes each
// factory with the resolved values in declared order, and caches every result
// so later Gets return the same instance.
//
// # Lifecycle
//
//  1. Create: c := container.New()
//  2. Register factories (directly or through ServiceProviders)
//  3. Boot providers: registry.Boot() — safe to Get everything after this
//  4. Get services on demand; ClearCache to force reconstruction
//
// # Registration and resolution
//
//	c := container.New()
//	_ = c.Register("config", func() *config.Config { return config.Load() })
//	_ = c.Register("cache", cache.FromConfig, "config")
//	_ = c.Register("settings", settings.NewStore, "cache", "security")
//
//	st, err := container.Resolve[*settings.Store](c, "settings")
//
// Dependency names may be registered later than the services that declare
// them; the graph is only walked at Get time.
//
// # Errors
//
// The container surfaces four distinguishable kinds, each a typed error
// matching a package sentinel:
//
//	errors.Is(err, container.ErrInvalidFactory)     // bad factory at Register
//	errors.Is(err, container.ErrNotFound)           // unknown name at Get
//	errors.Is(err, container.ErrCircularDependency) // graph loops back on itself
//	errors.Is(err, container.ErrConstruction)       // the factory itself failed
//
// A CircularDependencyError reports the full offending chain ("a -> b -> a").
// A ConstructionError wraps the factory's own error; failed constructions are
// never cached, so a retry is equivalent to the first attempt.
//
// # Concurrency
//
// Register, Get, ClearCache and the introspection methods are safe for
// concurrent use. Concurrent first-time Gets of one name run the factory
// exactly once; the container lock is held across the whole resolution, so
// factories must not call back into the container (they receive their
// dependencies as arguments instead).
//
// The container itself never logs, retries or suppresses errors; it is a pure
// resolution mechanism for the layers above it.
package container
