package container_test

import (
	"errors"
	"fmt"
)

// ── constructor graphs ────────────────────────────────────────────────────────

type Dependency struct{ Name string }

type Dependent struct {
	Dependency *Dependency
}

func NewDependent(d *Dependency) *Dependent { return &Dependent{Dependency: d} }

type A struct{ B *B }
type B struct{ C *C }
type C struct{ A *A }

func NewA(b *B) *A { return &A{B: b} }
func NewB(c *C) *B { return &B{C: c} }
func NewC(a *A) *C { return &C{A: a} }

// ── member cycles ─────────────────────────────────────────────────────────────

type X struct {
	Y *Y `inject:""`
}

type Y struct {
	X *X `inject:""`
}

// PingServer and PingClient close a member cycle through the Pinger
// interface.
type Pinger interface{ Ping() string }

type PingServer struct {
	Client *PingClient `inject:""`
}

func (*PingServer) Ping() string { return "pong" }

type PingClient struct {
	Server Pinger `inject:""`
}

// ── constructor selection ─────────────────────────────────────────────────────

type ManyConstructors struct {
	Picked string
}

func NewManyFromString(s string) *ManyConstructors {
	return &ManyConstructors{Picked: "string"}
}

func NewManyFromInt(x int) *ManyConstructors {
	return &ManyConstructors{Picked: "int"}
}

func NewManyFromIntString(x int, s string) *ManyConstructors {
	return &ManyConstructors{Picked: "int,string"}
}

func NewManyFromInts(x, y int) *ManyConstructors {
	return &ManyConstructors{Picked: fmt.Sprintf("int,int=%d,%d", x, y)}
}

// ── interfaces and implementations ────────────────────────────────────────────

type Storage interface {
	Name() string
}

type LocalStorage struct{ Root string }

func (*LocalStorage) Name() string { return "local" }

type S3Storage struct{ Bucket string }

func (*S3Storage) Name() string { return "s3" }

type Report struct {
	Storage Storage
}

func NewReport(s Storage) *Report { return &Report{Storage: s} }

type Archive struct {
	Storage Storage
}

func NewArchive(s Storage) *Archive { return &Archive{Storage: s} }

// ── member injection ──────────────────────────────────────────────────────────

type Clock struct{ Zone string }

type Logger struct{ Prefix string }

type Service struct {
	Logger   *Logger `inject:""`
	Clock    *Clock  `inject:"-"`
	Untagged *Clock
	hidden   *Logger `inject:""`

	setDepsCalls int
	log          *Logger
	clock        *Clock
}

func (s *Service) SetDeps(l *Logger, c *Clock) {
	s.setDepsCalls++
	s.log = l
	s.clock = c
}

func (s *Service) Close() {}

// ── failures ──────────────────────────────────────────────────────────────────

var errBoom = errors.New("boom")

type Broken struct{}

func NewBroken() (*Broken, error) { return nil, errBoom }
