package container

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"sync"
)

// errorType is the reflect.Type of the error interface, used to validate
// factory signatures at registration time.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// definition holds a registered factory and its declared dependency names.
// The factory is kept as a reflect.Value so Get can invoke it with the
// resolved dependency values in declared order.
type definition struct {
	factory reflect.Value
	deps    []string
}

// Container is the service container: a registry of named factories, a
// resolver that walks the declared dependency graph, and a singleton cache
// of constructed instances.
//
// Services are registered ahead of use and constructed lazily on first Get.
// A constructed value is cached and reused for every later Get of the same
// name until it is explicitly evicted with ClearCache.
type Container struct {
	mu          sync.Mutex
	definitions map[string]*definition
	instances   map[string]any
}

// New creates an empty container.
func New() *Container {
	return &Container{
		definitions: make(map[string]*definition),
		instances:   make(map[string]any),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register binds a factory under name, declaring the services it depends on.
//
// factory must be a function. Its parameters receive the resolved dependency
// values in declared order, so the parameter count must match len(deps)
// (a variadic tail may absorb zero or more trailing dependencies). It must
// return the constructed value, optionally followed by an error:
//
//	c.Register("settings", settings.NewStore, "cache", "security")
//	c.Register("logger", func(cfg *config.Config) (*zap.Logger, error) { ... }, "config")
//
// Dependencies may name services that are not registered yet; the graph is
// only consulted when Get resolves it. Registering an existing name replaces
// its definition. Note that replacement does NOT evict a previously cached
// instance — a stale instance keeps being served until ClearCache(name) is
// called. This mirrors the behaviour callers already rely on.
//
// A non-function factory, or a signature that cannot satisfy deps, fails
// immediately with an InvalidFactoryError; nothing is stored.
func (c *Container) Register(name string, factory any, deps ...string) error {
	if name == "" {
		return &InvalidFactoryError{Name: name, Reason: "service name is empty"}
	}

	fv := reflect.ValueOf(factory)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return &InvalidFactoryError{Name: name, Reason: fmt.Sprintf("got %T, want a function", factory)}
	}
	if fv.IsNil() {
		return &InvalidFactoryError{Name: name, Reason: "factory function is nil"}
	}

	ft := fv.Type()
	switch ft.NumOut() {
	case 1:
		if ft.Out(0) == errorType {
			return &InvalidFactoryError{Name: name, Reason: "factory returns only an error, no value"}
		}
	case 2:
		if !ft.Out(1).Implements(errorType) {
			return &InvalidFactoryError{Name: name, Reason: "second return value must be an error"}
		}
	default:
		return &InvalidFactoryError{Name: name, Reason: fmt.Sprintf("factory returns %d values, want 1 or 2", ft.NumOut())}
	}

	if ft.IsVariadic() {
		if len(deps) < ft.NumIn()-1 {
			return &InvalidFactoryError{Name: name, Reason: fmt.Sprintf(
				"factory takes at least %d arguments but %d dependencies are declared", ft.NumIn()-1, len(deps))}
		}
	} else if ft.NumIn() != len(deps) {
		return &InvalidFactoryError{Name: name, Reason: fmt.Sprintf(
			"factory takes %d arguments but %d dependencies are declared", ft.NumIn(), len(deps))}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[name] = &definition{factory: fv, deps: append([]string(nil), deps...)}
	return nil
}

// Has reports whether a definition is registered under name. It says nothing
// about whether the service has been instantiated yet.
func (c *Container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.definitions[name]
	return ok
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the service registered under name, constructing it (and any
// not-yet-cached dependencies, depth-first in declared order) on first use.
//
// Error kinds, all distinguishable via errors.Is / errors.As:
//   - NotFoundError for an unregistered name
//   - CircularDependencyError when the graph loops back onto a service
//     already being resolved in this call, with the offending chain
//   - ConstructionError wrapping the factory's own failure; nothing is
//     cached for a failed construction and a later Get retries from scratch
//
// The container lock is held for the whole resolution, which is what makes
// the singleton guarantee hold under concurrent first-time Gets: exactly one
// caller runs the factory, everyone else observes its cached result.
// Factories receive their dependencies as arguments and must not call back
// into the container.
func (c *Container) Get(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(name, nil)
}

// resolve walks the graph for name. stack is the chain of services currently
// being resolved in this top-level Get, used only for cycle detection; it is
// threaded through the recursion and discarded when Get returns.
func (c *Container) resolve(name string, stack []string) (any, error) {
	if v, ok := c.instances[name]; ok {
		return v, nil
	}

	def, ok := c.definitions[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	for i := range stack {
		if stack[i] == name {
			chain := append(append([]string(nil), stack[i:]...), name)
			return nil, &CircularDependencyError{Chain: chain}
		}
	}
	stack = append(stack, name)

	args := make([]reflect.Value, 0, len(def.deps))
	for i, dep := range def.deps {
		v, err := c.resolve(dep, stack)
		if err != nil {
			return nil, err
		}
		arg, err := argValue(def.factory.Type(), i, dep, v)
		if err != nil {
			return nil, &ConstructionError{Name: name, Cause: err}
		}
		args = append(args, arg)
	}

	value, err := invoke(def.factory, args)
	if err != nil {
		return nil, &ConstructionError{Name: name, Cause: err}
	}

	c.instances[name] = value
	return value, nil
}

// argValue converts a resolved dependency into the reflect.Value expected by
// parameter i of the factory, covering variadic tails and nil values.
func argValue(ft reflect.Type, i int, dep string, v any) (reflect.Value, error) {
	var want reflect.Type
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		want = ft.In(ft.NumIn() - 1).Elem()
	} else {
		want = ft.In(i)
	}

	if v == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("dependency %q resolved to nil, want %s", dep, want)
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("dependency %q resolved to %T, want %s", dep, v, want)
	}
	return rv, nil
}

// invoke calls the factory and normalises its results. A panic inside the
// factory is converted into an error instead of tearing down the resolving
// goroutine with the container lock held.
func invoke(factory reflect.Value, args []reflect.Value) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()

	out := factory.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// ── Instance cache ────────────────────────────────────────────────────────────

// ClearCache evicts cached instances. With no arguments every instance is
// dropped; with names only those entries are dropped. Registrations are left
// intact either way, so later Gets rebuild lazily. Clearing a name that has
// no cached instance is a no-op.
func (c *Container) ClearCache(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(names) == 0 {
		c.instances = make(map[string]any)
		return
	}
	for _, name := range names {
		delete(c.instances, name)
	}
}

// ── Introspection ─────────────────────────────────────────────────────────────

// RegisteredServices returns the names of all registered definitions, sorted.
func (c *Container) RegisteredServices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.definitions)
}

// InstantiatedServices returns the names of services with a live cached
// instance, sorted.
func (c *Container) InstantiatedServices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.instances)
}

// DependencyGraph returns each registered name mapped to its declared (not
// resolved) dependency list. The result is a copy, safe for the caller to
// hold; it is meant for diagnostics and visualisation, the resolver does not
// use it.
func (c *Container) DependencyGraph() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	graph := make(map[string][]string, len(c.definitions))
	for name, def := range c.definitions {
		graph[name] = append([]string(nil), def.deps...)
	}
	return graph
}

// Stats is a point-in-time snapshot of the container plus process memory
// figures taken from the Go runtime. Observational only.
type Stats struct {
	RegisteredCount   int    `json:"registered_count"`
	InstantiatedCount int    `json:"instantiated_count"`
	CurrentUsageBytes uint64 `json:"current_usage_bytes"`
	PeakUsageBytes    uint64 `json:"peak_usage_bytes"`
}

// MemoryStats reports definition and instance counts together with heap
// usage: HeapAlloc as current usage and HeapSys, the high-water heap obtained
// from the OS, as the peak indicator.
func (c *Container) MemoryStats() Stats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	c.mu.Lock()
	registered := len(c.definitions)
	instantiated := len(c.instances)
	c.mu.Unlock()

	return Stats{
		RegisteredCount:   registered,
		InstantiatedCount: instantiated,
		CurrentUsageBytes: ms.HeapAlloc,
		PeakUsageBytes:    ms.HeapSys,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
