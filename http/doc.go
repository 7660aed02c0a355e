// Package http is the HTTP boundary of the backend: JSON request/response
// helpers, request-id and zap logging middleware, and the handlers for the
// public stylesheet plus the admin/AJAX surface.
//
// Routes (mounted by Handlers.Mount):
//
//	GET    /stylesheet            compiled CSS (text/css)
//	GET    /preview               HTML page with the stylesheet inlined
//	GET    /admin/settings        current style settings
//	PUT    /admin/settings        partial update; 422 error bag on bad input
//	DELETE /admin/settings        reset to defaults
//	GET    /admin/services        registered + instantiated service names
//	GET    /admin/services/graph  declared dependency graph
//	GET    /admin/stats           container counts and memory usage
//	POST   /admin/cache/clear     evict instances (?service=name for one)
//
// Handlers resolve their collaborators from the service container by name on
// every request; the container's singleton cache makes that a map lookup
// after first use.
package http
