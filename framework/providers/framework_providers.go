package providers

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/config"
	"github.com/km-arc/go-syringe/framework/container"
	gohttp "github.com/km-arc/go-syringe/framework/http"
	"github.com/km-arc/go-syringe/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Registered types:
//   - *config.Config (instance)
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	return container.RegisterValue(app, p.Config)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Registered types:
//   - *zap.Logger (instance)
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	return container.RegisterValue(app, p.Logger)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router and, when the inspector
// is enabled, mounts its routes during Boot.
//
// Registered types:
//   - *routing.Router (singleton, built by routing.New)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	if err := app.Constructor(routing.New); err != nil {
		return err
	}
	return container.Register[*routing.Router](app, container.AsSingleton())
}

func (p *RoutingServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app)
	if err != nil {
		return err
	}
	if !cfg.Inspector.Enabled {
		return nil
	}

	router, err := container.Resolve[*routing.Router](app)
	if err != nil {
		return err
	}
	inspector, err := container.Resolve[*gohttp.Inspector](app)
	if err != nil {
		return err
	}
	inspector.Routes(router)
	return nil
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider is deferred: the inspector is only built when
// something resolves it.
//
// Registered types:
//   - *gohttp.Inspector (singleton, built by gohttp.NewInspector)
type InspectorServiceProvider struct {
	container.BaseProvider
}

func (p *InspectorServiceProvider) Register(app *container.Container) error {
	if err := app.Constructor(gohttp.NewInspector); err != nil {
		return err
	}
	return container.Register[*gohttp.Inspector](app, container.AsSingleton())
}

func (p *InspectorServiceProvider) Provides() []reflect.Type {
	return []reflect.Type{container.TypeOf[*gohttp.Inspector]()}
}

func (p *InspectorServiceProvider) IsDeferred() bool { return true }
