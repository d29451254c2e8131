package container

import (
	"errors"
	"fmt"
	"reflect"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Boot is called after ALL providers have been registered, making it safe
// to resolve other bindings inside Boot.
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(app *container.Container) error {
//	    return container.RegisterAs[Mailer, *SMTPMailer](app, container.AsSingleton())
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides returns the types this provider registers. Only consulted
	// for deferred providers.
	Provides() []reflect.Type

	// IsDeferred returns true if this provider should be registered lazily,
	// on the first Resolve of one of its Provides types.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot, Provides and IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error  { return nil }
func (p *BaseProvider) Provides() []reflect.Type { return nil }
func (p *BaseProvider) IsDeferred() bool         { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
	loaded     map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method unless it is
// deferred. Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		return r.interceptDeferred(provider)
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("registering %T: %w", provider, err)
	}
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("booting %T: %w", provider, err)
		}
	}
	return nil
}

// interceptDeferred registers a placeholder factory for each provided type.
// The first Resolve registers the provider for real and resolves again.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) error {
	for _, t := range provider.Provides() {
		err := r.app.RegisterFactory(t, func() (any, error) {
			if err := r.load(provider); err != nil {
				return nil, err
			}
			return r.app.Resolve(t)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) load(provider ServiceProvider) error {
	if r.loaded[provider] {
		return nil
	}

	// Drop the placeholders so a provider that forgets a type cannot
	// send Resolve back into this loader.
	for _, t := range provider.Provides() {
		delete(r.app.factories, t)
		delete(r.app.bindings, t)
	}
	if err := r.registerDeferred(provider); err != nil {
		// Reinstall the placeholders so the next Resolve retries.
		if ierr := r.interceptDeferred(provider); ierr != nil {
			return errors.Join(err, ierr)
		}
		return err
	}
	r.loaded[provider] = true

	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("booting deferred %T: %w", provider, err)
		}
	}
	return nil
}

func (r *ProviderRegistry) registerDeferred(provider ServiceProvider) error {
	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("registering deferred %T: %w", provider, err)
	}
	for _, t := range provider.Provides() {
		if !r.app.Bound(t) {
			return fmt.Errorf("deferred %T did not register %s: %w", provider, t, ErrUnregisteredType)
		}
	}
	return nil
}

// Boot calls Boot on all eager providers.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("booting %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
