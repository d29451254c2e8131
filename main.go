package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/app"
	"github.com/km-arc/go-syringe/framework/container"
)

// ── Demo services ─────────────────────────────────────────────────────────────

type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Greeter struct {
	Clock Clock
}

func NewGreeter(clock Clock) *Greeter { return &Greeter{Clock: clock} }

func (g *Greeter) Greet(name string) string {
	return fmt.Sprintf("hello %s, it is %s", name, g.Clock.Now().Format(time.Kitchen))
}

// Parent and Child reference each other through injected fields. The
// container hands the Parent under construction to its Child.
type Parent struct {
	Child *Child `inject:""`
}

type Child struct {
	Parent *Parent `inject:""`
}

// ── DemoServiceProvider ───────────────────────────────────────────────────────

type DemoServiceProvider struct {
	container.BaseProvider
}

func (p *DemoServiceProvider) Register(c *container.Container) error {
	if err := container.RegisterFunc[Clock](c, func() (systemClock, error) {
		return systemClock{}, nil
	}, container.AsSingleton()); err != nil {
		return err
	}
	if err := c.Constructor(NewGreeter); err != nil {
		return err
	}
	if err := container.Register[*Greeter](c); err != nil {
		return err
	}
	return container.Register[*Parent](c)
}

func (p *DemoServiceProvider) Boot(c *container.Container) error {
	logger := container.MustResolve[*zap.Logger](c)

	greeter, err := container.Resolve[*Greeter](c)
	if err != nil {
		return err
	}
	logger.Info(greeter.Greet("syringe"))

	parent, err := container.Resolve[*Parent](c)
	if err != nil {
		return err
	}
	logger.Info("member cycle resolved", zap.Bool("same_parent", parent.Child.Parent == parent))
	return nil
}

func main() {
	application, err := app.New() // loads .env when present
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = application.Logger.Sync() }()

	if err := application.Register(&DemoServiceProvider{}); err != nil {
		application.Logger.Fatal("register", zap.Error(err))
	}
	if err := application.Boot(); err != nil {
		application.Logger.Fatal("boot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		application.Logger.Fatal("run", zap.Error(err))
	}
}
