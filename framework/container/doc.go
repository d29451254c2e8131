// Package container provides a small reflection-based dependency injection
// container with constructor selection, cycle detection and member
// injection.
//
// # Overview
//
// The container keeps a mapping from type to factory. Registrations fill
// the mapping; Resolve invokes the stored factory. RegisterType resolves a
// type's constructor graph once, at registration time, and stores the
// resulting factory.
//
//	c := container.New(container.WithLogger(logger))
//	c.Constructor(NewMailer)
//	c.Constructor(NewSMTPTransport)
//
//	container.Register[*Mailer](c)                        // transient
//	container.Register[*Mailer](c, container.AsSingleton()) // lazy singleton
//	container.RegisterAs[Transport, *SMTPTransport](c)
//	container.RegisterValue(c, cfg)
//	container.RegisterFunc[*Clock](c, func() (*Clock, error) { return NewClock(), nil })
//
//	mailer, err := container.Resolve[*Mailer](c)
//
// # Constructors
//
// Go has no class constructors, so constructors are declared as functions
// returning (T) or (T, error). A type may have several; they are tried with
// Preferred ones first and then by descending parameter count, and the
// first one whose parameters can all be resolved wins. A pointer to a
// struct without declared constructors is built from its zero value.
//
//	c.Constructor(NewReport)                           // NewReport(Store) *Report
//	c.Constructor(NewCachedReport, container.Preferred()) // NewCachedReport(Store, Cache) *Report
//
// A constructor graph that loops back on itself fails with an error
// matching ErrCircularDependency that carries the full path.
//
// # Member injection
//
// Exported fields tagged `inject:""` and methods declared with
// InjectMethod are filled after construction, and by Augment for values
// built elsewhere. Members whose dependencies are missing are skipped.
// While an auto-constructed value's members are injected, the value itself
// is visible in the container under its own type, so two types referring
// to each other through tagged fields end up pointing at each other:
//
//	type X struct{ Y *Y `inject:""` }
//	type Y struct{ X *X `inject:""` }
//
//	container.Register[*X](c)
//	container.Register[*Y](c)
//	x := container.MustResolve[*X](c) // x.Y.X == x
//
// # Contextual Binding
//
//	c.When(container.TypeOf[*PhotoService]()).
//	    Needs(container.TypeOf[Filesystem]()).
//	    Give(func() (any, error) { return &S3Filesystem{}, nil })
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return container.Register[*Mailer](app, container.AsSingleton())
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container
