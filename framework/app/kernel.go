package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/config"
	"github.com/km-arc/go-syringe/framework/container"
	"github.com/km-arc/go-syringe/framework/logging"
	"github.com/km-arc/go-syringe/framework/providers"
	"github.com/km-arc/go-syringe/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application is the composition root. It embeds the Container so user
// code can call app.Constructor(), app.RegisterType(), app.Resolve()
// directly, and carries the provider registry, configuration and logger.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Config    *config.Config
	Logger    *zap.Logger
}

// New loads configuration from envFiles (default .env), builds the logger
// and registers the framework providers.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWith(cfg, logger)
}

// NewWith is New with an already loaded configuration and logger.
func NewWith(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	c := container.New(
		container.WithLogger(logger),
		container.WithInjectTag(cfg.Container.InjectTag),
	)
	if err := container.RegisterValue(c, c); err != nil {
		return nil, err
	}

	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		Config:    cfg,
		Logger:    logger,
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: logger},
		&providers.RoutingServiceProvider{},
		&providers.InspectorServiceProvider{},
	}
	for _, p := range core {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Router resolves the application router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container)
}

// Run boots the application if needed and serves the router on the
// inspector address until ctx is cancelled. With the inspector disabled it
// only waits for ctx.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	if !a.Config.Inspector.Enabled {
		a.Logger.Info("inspector disabled")
		<-ctx.Done()
		return nil
	}

	router, err := a.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.Config.Inspector.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("inspector listening",
			zap.String("addr", srv.Addr),
			zap.String("env", a.Environment()),
			zap.String("container", a.ID()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("inspector: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspector shutdown: %w", err)
	}
	return nil
}

// Environment returns the SYRINGE_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Config.IsProduction() }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
