package container

import "go.uber.org/zap"

// Lifetime controls how many instances a registration produces.
type Lifetime int

const (
	// Transient is the default lifetime: every Resolve runs the factory.
	Transient Lifetime = iota

	// Singleton runs the factory on the first Resolve and reuses the result.
	Singleton
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

type registration struct {
	lifetime Lifetime
}

// RegisterOption configures a single registration.
type RegisterOption func(*registration)

// WithLifetime sets the Lifetime of the registration.
func WithLifetime(l Lifetime) RegisterOption {
	return func(r *registration) {
		r.lifetime = l
	}
}

// AsSingleton is shorthand for WithLifetime(Singleton).
func AsSingleton() RegisterOption {
	return WithLifetime(Singleton)
}

type options struct {
	log          *zap.Logger
	constructors ConstructorProvider
	members      MemberProvider
	tag          string
}

// Option configures a Container at construction.
type Option func(*options)

// WithLogger sets the logger used for registration and resolution events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithConstructorProvider replaces the default ConstructorCatalog.
// Constructors declared through Container.Constructor are then ignored.
func WithConstructorProvider(p ConstructorProvider) Option {
	return func(o *options) {
		o.constructors = p
	}
}

// WithMemberProvider replaces the default TagMembers provider.
// Methods declared through Container.InjectMethod are then ignored.
func WithMemberProvider(p MemberProvider) Option {
	return func(o *options) {
		o.members = p
	}
}

// WithInjectTag changes the struct tag read by the default member provider.
func WithInjectTag(tag string) Option {
	return func(o *options) {
		o.tag = tag
	}
}
