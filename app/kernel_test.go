package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylepress/go-stylepress/app"
	"github.com/stylepress/go-stylepress/cache"
	"github.com/stylepress/go-stylepress/container"
	"github.com/stylepress/go-stylepress/css"
	"github.com/stylepress/go-stylepress/settings"
)

func newApp(t *testing.T) *app.Application {
	t.Helper()
	a, err := app.New("testdata/does-not-exist.env")
	require.NoError(t, err)
	require.NoError(t, a.Boot())
	return a
}

func TestNew_RegistersCoreServices(t *testing.T) {
	a := newApp(t)

	for _, name := range []string{"config", "logger", "cache", "security", "settings", "css", "router"} {
		assert.True(t, a.Container.Has(name), "service %q should be registered", name)
	}
}

func TestApplication_ResolvesWholeGraph(t *testing.T) {
	a := newApp(t)

	gen, err := container.Resolve[*css.Generator](a.Container, "css")
	require.NoError(t, err)

	sheet, err := gen.Stylesheet()
	require.NoError(t, err)
	assert.Contains(t, sheet, "--stylepress-primary")
}

func TestApplication_DiamondSharesCache(t *testing.T) {
	// settings → [cache, security] and css → [settings, cache, config]:
	// both paths must see the single cached "cache" instance.
	a := newApp(t)

	_, err := container.Resolve[*settings.Store](a.Container, "settings")
	require.NoError(t, err)
	_, err = container.Resolve[*css.Generator](a.Container, "css")
	require.NoError(t, err)

	ca, err := container.Resolve[*cache.Store](a.Container, "cache")
	require.NoError(t, err)

	// an update through settings must evict what css cached in the shared store
	gen := container.MustResolve[*css.Generator](a.Container, "css")
	_, err = gen.Stylesheet()
	require.NoError(t, err)
	_, ok := ca.Get(settings.StylesheetCacheKey)
	require.True(t, ok)

	st := container.MustResolve[*settings.Store](a.Container, "settings")
	_, bag, err := st.Update(map[string]string{"primary_color": "#010203"})
	require.NoError(t, err)
	require.Nil(t, bag)

	_, ok = ca.Get(settings.StylesheetCacheKey)
	assert.False(t, ok, "settings and css must share one cache instance")
}

func TestApplication_MountHTTP(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.MountHTTP())

	graph := a.Container.DependencyGraph()
	assert.Equal(t, []string{"cache", "security"}, graph["settings"])
	assert.Equal(t, []string{"settings", "cache", "config"}, graph["css"])
}
