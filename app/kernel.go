package app

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stylepress/go-stylepress/config"
	"github.com/stylepress/go-stylepress/container"
	gohttp "github.com/stylepress/go-stylepress/http"
	"github.com/stylepress/go-stylepress/providers"
	"github.com/stylepress/go-stylepress/routing"
)

// Application is the top-level handle: the service container plus the
// provider registry driving its registrations. It is constructed once at
// process start and passed to whatever needs it — there is no package-level
// container.
type Application struct {
	Container *container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the core providers. Nothing is
// constructed yet; services materialise on first Get.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LogServiceProvider{},
		&providers.CacheServiceProvider{},
		&providers.SecurityServiceProvider{},
		&providers.SettingsServiceProvider{},
		&providers.StyleServiceProvider{},
		&providers.RoutingServiceProvider{},
	} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds an extra ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves the typed configuration.
func (a *Application) Config() (*config.Config, error) {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Router resolves the HTTP router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Log resolves the application logger.
func (a *Application) Log() (*zap.Logger, error) {
	return container.Resolve[*zap.Logger](a.Container, "logger")
}

// MountHTTP attaches request middleware and the backend routes to the
// router. Middleware must be in place before any route, so this runs once
// during bootstrap.
func (a *Application) MountHTTP() error {
	log, err := a.Log()
	if err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	router.Middleware(gohttp.RequestID, gohttp.Logger(log))
	gohttp.NewHandlers(a.Container, log).Mount(router)
	return nil
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// SIGINT/SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	cfg, err := a.Config()
	if err != nil {
		return err
	}
	log, err := a.Log()
	if err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("app", cfg.App.Name),
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
