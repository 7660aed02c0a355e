package http

import (
	"errors"
	"net/http"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/stylepress/go-stylepress/container"
	"github.com/stylepress/go-stylepress/css"
	"github.com/stylepress/go-stylepress/routing"
	"github.com/stylepress/go-stylepress/settings"
)

// Handlers exposes the backend over HTTP: the public stylesheet plus the
// admin/AJAX surface for settings and container introspection. Every handler
// pulls its services from the container by name, which is exactly the
// consumption pattern the rest of the plugin uses.
type Handlers struct {
	c   *container.Container
	log *zap.Logger
}

// NewHandlers creates the handler set on top of c.
func NewHandlers(c *container.Container, log *zap.Logger) *Handlers {
	return &Handlers{c: c, log: log}
}

// Mount attaches all routes to the router.
func (h *Handlers) Mount(r *routing.Router) {
	r.Get("/stylesheet", h.Stylesheet)
	r.Get("/preview", h.Preview)

	r.Prefix("/admin", func(admin *routing.Router) {
		admin.Get("/settings", h.GetSettings)
		admin.Put("/settings", h.UpdateSettings)
		admin.Delete("/settings", h.ResetSettings)

		admin.Get("/services", h.Services)
		admin.Get("/services/graph", h.Graph)
		admin.Get("/stats", h.Stats)
		admin.Post("/cache/clear", h.ClearCache)
	})
}

// ── Stylesheet ────────────────────────────────────────────────────────────────

// Stylesheet serves the compiled CSS.
func (h *Handlers) Stylesheet(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)

	gen, err := container.Resolve[*css.Generator](h.c, "css")
	if err != nil {
		h.fail(res, err)
		return
	}
	sheet, err := gen.Stylesheet()
	if err != nil {
		h.fail(res, err)
		return
	}
	res.CSS(sheet)
}

// ── Settings ──────────────────────────────────────────────────────────────────

// GetSettings returns the current style settings.
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)

	store, err := container.Resolve[*settings.Store](h.c, "settings")
	if err != nil {
		h.fail(res, err)
		return
	}
	res.Success(store.Get())
}

// UpdateSettings applies a partial settings update from a JSON body of
// string values. Validation failures come back as a 422 error bag.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, res := NewRequest(r), NewResponse(w)

	input, err := req.BindStringMap()
	if err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}

	store, err := container.Resolve[*settings.Store](h.c, "settings")
	if err != nil {
		h.fail(res, err)
		return
	}

	updated, bag, err := store.Update(input)
	if err != nil {
		h.fail(res, err)
		return
	}
	if bag != nil {
		res.ValidationError(bag)
		return
	}
	res.Success(updated)
}

// ResetSettings restores the defaults.
func (h *Handlers) ResetSettings(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)

	store, err := container.Resolve[*settings.Store](h.c, "settings")
	if err != nil {
		h.fail(res, err)
		return
	}
	res.Success(store.Reset())
}

// ── Container introspection ───────────────────────────────────────────────────

// Services lists registered and instantiated service names.
func (h *Handlers) Services(w http.ResponseWriter, r *http.Request) {
	NewResponse(w).Success(map[string]any{
		"registered":   h.c.RegisteredServices(),
		"instantiated": h.c.InstantiatedServices(),
	})
}

// Graph returns the declared dependency graph.
func (h *Handlers) Graph(w http.ResponseWriter, r *http.Request) {
	NewResponse(w).Success(h.c.DependencyGraph())
}

// Stats returns container counts and process memory figures, with the byte
// counts also humanized for display.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.c.MemoryStats()
	NewResponse(w).Success(map[string]any{
		"registered_count":    stats.RegisteredCount,
		"instantiated_count":  stats.InstantiatedCount,
		"current_usage_bytes": stats.CurrentUsageBytes,
		"peak_usage_bytes":    stats.PeakUsageBytes,
		"current_usage":       humanize.Bytes(stats.CurrentUsageBytes),
		"peak_usage":          humanize.Bytes(stats.PeakUsageBytes),
	})
}

// ClearCache evicts container instances: every instance by default, or a
// single one when ?service=name is given.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	req, res := NewRequest(r), NewResponse(w)

	if name := req.Query("service"); name != "" {
		if !h.c.Has(name) {
			res.NotFound("Unknown service: " + name)
			return
		}
		h.c.ClearCache(name)
		res.Success(map[string]any{"cleared": []string{name}})
		return
	}

	cleared := h.c.InstantiatedServices()
	h.c.ClearCache()
	res.Success(map[string]any{"cleared": cleared})
}

// fail logs the error with its request-independent detail and answers 500,
// or 404 for an unregistered service name.
func (h *Handlers) fail(res *Response, err error) {
	h.log.Error("handler error", zap.Error(err))
	if errors.Is(err, container.ErrNotFound) {
		res.NotFound(err.Error())
		return
	}
	res.ServerError()
}
