package container_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylepress/go-stylepress/container"
)

type widget struct{ label string }

// ── Registration ──────────────────────────────────────────────────────────────

func TestRegister_LazyConstruction(t *testing.T) {
	c := container.New()
	calls := 0

	require.NoError(t, c.Register("svc", func() *widget {
		calls++
		return &widget{label: "svc"}
	}))

	assert.Equal(t, 0, calls, "Register must never invoke the factory")
	assert.True(t, c.Has("svc"))
	assert.Empty(t, c.InstantiatedServices())

	_, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRegister_NonFunctionFactory(t *testing.T) {
	c := container.New()

	err := c.Register("x", 123)
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrInvalidFactory)

	var ife *container.InvalidFactoryError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, "x", ife.Name)

	assert.False(t, c.Has("x"), "failed registration must leave the registry unchanged")
}

func TestRegister_NilFactory(t *testing.T) {
	c := container.New()
	var f func() *widget

	err := c.Register("x", f)
	assert.ErrorIs(t, err, container.ErrInvalidFactory)
	assert.False(t, c.Has("x"))
}

func TestRegister_ArityMismatch(t *testing.T) {
	c := container.New()

	err := c.Register("x", func(a, b *widget) *widget { return a }, "only-one")
	assert.ErrorIs(t, err, container.ErrInvalidFactory)
	assert.False(t, c.Has("x"))
}

func TestRegister_BadReturnSignature(t *testing.T) {
	c := container.New()

	assert.ErrorIs(t, c.Register("none", func() {}), container.ErrInvalidFactory)
	assert.ErrorIs(t, c.Register("errOnly", func() error { return nil }), container.ErrInvalidFactory)
	assert.ErrorIs(t, c.Register("three", func() (int, int, error) { return 0, 0, nil }), container.ErrInvalidFactory)

	// value plus error is the canonical two-result shape
	assert.NoError(t, c.Register("ok", func() (*widget, error) { return &widget{}, nil }))
}

func TestRegister_EmptyName(t *testing.T) {
	c := container.New()
	assert.ErrorIs(t, c.Register("", func() int { return 1 }), container.ErrInvalidFactory)
}

func TestRegister_LateBindingOfDependencies(t *testing.T) {
	c := container.New()

	// "b" does not exist yet at registration time
	require.NoError(t, c.Register("a", func(b string) string { return "a" + b }, "b"))
	require.NoError(t, c.Register("b", func() string { return "b" }))

	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "ab", v)
}

// ── Singleton cache ───────────────────────────────────────────────────────────

func TestGet_SingletonIdentity(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.Register("svc", func() *widget {
		calls++
		return &widget{label: "svc"}
	}))

	first, err := c.Get("svc")
	require.NoError(t, err)
	second, err := c.Get("svc")
	require.NoError(t, err)

	assert.Same(t, first.(*widget), second.(*widget), "sequential Gets must return the identical instance")
	assert.Equal(t, 1, calls, "factory must run exactly once")
}

func TestGet_DiamondDependencySharedOnce(t *testing.T) {
	// a → [b, c], b → [d], c → [d]: d is built once and shared.
	c := container.New()
	dCalls := 0

	require.NoError(t, c.Register("d", func() *widget { dCalls++; return &widget{label: "d"} }))
	require.NoError(t, c.Register("b", func(d *widget) *widget { return d }, "d"))
	require.NoError(t, c.Register("c", func(d *widget) *widget { return d }, "d"))
	require.NoError(t, c.Register("a", func(b, cc *widget) []*widget { return []*widget{b, cc} }, "b", "c"))

	v, err := c.Get("a")
	require.NoError(t, err)

	pair := v.([]*widget)
	assert.Same(t, pair[0], pair[1], "b and c must receive the same d instance")
	assert.Equal(t, 1, dCalls)
}

func TestGet_BottomUpComposition(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("d", func() string { return "D" }))
	require.NoError(t, c.Register("c", func(d string) string { return "C" + d }, "d"))
	require.NoError(t, c.Register("b", func(cv string) string { return "B" + cv }, "c"))
	require.NoError(t, c.Register("a", func(b string) string { return "A" + b }, "b"))

	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "ABCD", v)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, c.InstantiatedServices())
}

// ── Cycle detection ───────────────────────────────────────────────────────────

func TestGet_DirectCycle(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("a", func(a any) any { return a }, "a"))

	_, err := c.Get("a")
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrCircularDependency)

	var ce *container.CircularDependencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"a", "a"}, ce.Chain)
}

func TestGet_IndirectCycle(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("a", func(b any) any { return b }, "b"))
	require.NoError(t, c.Register("b", func(cv any) any { return cv }, "c"))
	require.NoError(t, c.Register("c", func(a any) any { return a }, "a"))

	_, err := c.Get("a")
	require.Error(t, err)

	var ce *container.CircularDependencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"a", "b", "c", "a"}, ce.Chain)

	assert.Empty(t, c.InstantiatedServices(), "a failed resolution must cache nothing")
}

func TestGet_CycleEnteredMidChain(t *testing.T) {
	// b → c → b is a cycle; a merely leads into it. The reported chain
	// starts at the first repeated entry, not at the top-level request.
	c := container.New()
	require.NoError(t, c.Register("a", func(b any) any { return b }, "b"))
	require.NoError(t, c.Register("b", func(cv any) any { return cv }, "c"))
	require.NoError(t, c.Register("c", func(b any) any { return b }, "b"))

	_, err := c.Get("a")
	var ce *container.CircularDependencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"b", "c", "b"}, ce.Chain)
}

// ── Not found ─────────────────────────────────────────────────────────────────

func TestGet_NotFound(t *testing.T) {
	c := container.New()

	_, err := c.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrNotFound)

	var nfe *container.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "missing", nfe.Name)

	assert.Empty(t, c.RegisteredServices())
	assert.Empty(t, c.InstantiatedServices())
}

func TestGet_MissingDependencySurfacesNotFound(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("a", func(b any) any { return b }, "ghost"))

	_, err := c.Get("a")
	assert.ErrorIs(t, err, container.ErrNotFound)
}

// ── Construction failures ─────────────────────────────────────────────────────

func TestGet_ConstructionErrorPreservesCause(t *testing.T) {
	c := container.New()
	cause := errors.New("disk on fire")
	require.NoError(t, c.Register("svc", func() (*widget, error) { return nil, cause }))

	_, err := c.Get("svc")
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrConstruction)
	assert.ErrorIs(t, err, cause, "the factory's error must remain inspectable")

	var be *container.ConstructionError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "svc", be.Name)
	assert.Equal(t, cause, be.Root())
}

func TestGet_FailedConstructionIsNotCachedAndRetries(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.Register("svc", func() (*widget, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("first attempt fails")
		}
		return &widget{label: "ok"}, nil
	}))

	_, err := c.Get("svc")
	require.Error(t, err)
	assert.Empty(t, c.InstantiatedServices())

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "ok", v.(*widget).label)
	assert.Equal(t, 2, calls)
}

func TestGet_FactoryPanicBecomesConstructionError(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("svc", func() *widget { panic("boom") }))

	_, err := c.Get("svc")
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrConstruction)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, c.InstantiatedServices())

	// the container stays usable afterwards
	require.NoError(t, c.Register("other", func() string { return "fine" }))
	v, err := c.Get("other")
	require.NoError(t, err)
	assert.Equal(t, "fine", v)
}

func TestGet_DependencyTypeMismatch(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("num", func() int { return 7 }))
	require.NoError(t, c.Register("svc", func(w *widget) *widget { return w }, "num"))

	_, err := c.Get("svc")
	assert.ErrorIs(t, err, container.ErrConstruction)
}

// ── Cache clearing ────────────────────────────────────────────────────────────

func TestClearCache_SingleService(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.Register("x", func() *widget { calls++; return &widget{} }))
	require.NoError(t, c.Register("y", func() *widget { return &widget{} }))

	first, err := c.Get("x")
	require.NoError(t, err)
	_, err = c.Get("y")
	require.NoError(t, err)

	c.ClearCache("x")
	assert.ElementsMatch(t, []string{"y"}, c.InstantiatedServices(), "other services stay cached")

	second, err := c.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "factory runs again after eviction")
	assert.NotSame(t, first.(*widget), second.(*widget))
}

func TestClearCache_All(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("x", func() string { return "x" }))
	require.NoError(t, c.Register("y", func() string { return "y" }))
	_, _ = c.Get("x")
	_, _ = c.Get("y")

	c.ClearCache()

	assert.Empty(t, c.InstantiatedServices())
	assert.ElementsMatch(t, []string{"x", "y"}, c.RegisteredServices(), "registrations survive a flush")
}

func TestClearCache_UnknownNameIsNoOp(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("x", func() string { return "x" }))
	_, _ = c.Get("x")

	c.ClearCache("never-built")
	c.ClearCache("x")
	c.ClearCache("x") // second clear of the same name is also a no-op

	assert.Empty(t, c.InstantiatedServices())
}

// ── Re-registration ───────────────────────────────────────────────────────────

func TestReRegister_KeepsCachedInstance(t *testing.T) {
	// Replacing a definition does not evict the old instance; callers keep
	// seeing the stale value until ClearCache. Pinned on purpose.
	c := container.New()
	require.NoError(t, c.Register("svc", func() string { return "old" }))

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "old", v)

	require.NoError(t, c.Register("svc", func() string { return "new" }))
	v, err = c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "old", v, "stale instance is served until explicitly cleared")

	c.ClearCache("svc")
	v, err = c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

// ── Variadic factories ────────────────────────────────────────────────────────

func TestRegister_VariadicFactory(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("p1", func() string { return "one" }))
	require.NoError(t, c.Register("p2", func() string { return "two" }))
	require.NoError(t, c.Register("all", func(parts ...string) []string { return parts }, "p1", "p2"))

	v, err := c.Get("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, v)
}

// ── Introspection ─────────────────────────────────────────────────────────────

func TestDependencyGraph_ReturnsDeclaredCopy(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("settings", func(a, b any) any { return nil }, "cache", "security"))
	require.NoError(t, c.Register("cache", func() any { return nil }))
	require.NoError(t, c.Register("security", func() any { return nil }))

	graph := c.DependencyGraph()
	assert.Equal(t, []string{"cache", "security"}, graph["settings"])
	assert.Empty(t, graph["cache"])

	// mutating the returned map must not touch the container
	graph["settings"][0] = "tampered"
	assert.Equal(t, []string{"cache", "security"}, c.DependencyGraph()["settings"])
}

func TestMemoryStats(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("a", func() string { return "a" }))
	require.NoError(t, c.Register("b", func() string { return "b" }))
	_, _ = c.Get("a")

	stats := c.MemoryStats()
	assert.Equal(t, 2, stats.RegisteredCount)
	assert.Equal(t, 1, stats.InstantiatedCount)
	assert.NotZero(t, stats.CurrentUsageBytes)
	assert.GreaterOrEqual(t, stats.PeakUsageBytes, stats.CurrentUsageBytes)
}

// ── Concurrency ───────────────────────────────────────────────────────────────

func TestGet_ConcurrentFirstGetConstructsOnce(t *testing.T) {
	c := container.New()
	var calls atomic.Int32
	require.NoError(t, c.Register("svc", func() *widget {
		calls.Add(1)
		return &widget{label: "shared"}
	}))

	const goroutines = 32
	results := make([]*widget, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := c.Get("svc")
			if assert.NoError(t, err) {
				results[i] = v.(*widget)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "exactly one factory invocation must win")
	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestContainer_ConcurrentMixedUse(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("base", func() string { return "base" }))
	require.NoError(t, c.Register("svc", func(b string) string { return b + "+svc" }, "base"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = c.Get("svc")
		}()
		go func() {
			defer wg.Done()
			c.ClearCache("svc")
		}()
		go func() {
			defer wg.Done()
			_ = c.DependencyGraph()
			_ = c.MemoryStats()
		}()
	}
	wg.Wait()

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "base+svc", v)
}
