package http

import (
	"net/http"
	"net/url"

	"github.com/km-arc/go-syringe/framework/container"
	"github.com/km-arc/go-syringe/framework/routing"
)

// BindingView is the wire form of a container.Binding.
type BindingView struct {
	Key      string `json:"key" yaml:"key"`
	Kind     string `json:"kind" yaml:"kind"`
	Concrete string `json:"concrete,omitempty" yaml:"concrete,omitempty"`
	Lifetime string `json:"lifetime" yaml:"lifetime"`
	Extended int    `json:"extended,omitempty" yaml:"extended,omitempty"`
}

// Summary is returned by GET /container.
type Summary struct {
	ID       string `json:"id" yaml:"id"`
	Bindings int    `json:"bindings" yaml:"bindings"`
}

func viewOf(b container.Binding) BindingView {
	v := BindingView{
		Key:      b.Key.String(),
		Kind:     string(b.Kind),
		Lifetime: b.Lifetime.String(),
		Extended: b.Extended,
	}
	if b.Concrete != nil {
		v.Concrete = b.Concrete.String()
	}
	return v
}

// Inspector serves a read-only view of a container's bindings.
//
//	GET /container                 → {"data": {"id": ..., "bindings": 3}}
//	GET /container/bindings        → {"data": [{"key": "*main.Mailer", ...}]}
//	GET /container/bindings/{key}  → {"data": {"key": "*main.Mailer", ...}}
//
// Append ?format=yaml for YAML bodies.
type Inspector struct {
	c *container.Container
}

// NewInspector creates an Inspector for c.
func NewInspector(c *container.Container) *Inspector {
	return &Inspector{c: c}
}

// Routes mounts the inspector under /container.
func (i *Inspector) Routes(r *routing.Router) {
	r.Prefix("/container", func(api *routing.Router) {
		api.Get("/", i.Summary)
		api.Get("/bindings", i.List)
		api.Get("/bindings/{key}", i.Show)
	})
}

func (i *Inspector) Summary(w http.ResponseWriter, r *http.Request) {
	Negotiate(w, r).Success(Summary{ID: i.c.ID(), Bindings: len(i.c.Bindings())})
}

func (i *Inspector) List(w http.ResponseWriter, r *http.Request) {
	bindings := i.c.Bindings()
	views := make([]BindingView, len(bindings))
	for n, b := range bindings {
		views[n] = viewOf(b)
	}
	Negotiate(w, r).Success(views)
}

func (i *Inspector) Show(w http.ResponseWriter, r *http.Request) {
	res := Negotiate(w, r)
	key, err := url.PathUnescape(routing.Param(r, "key"))
	if err != nil {
		res.Error(http.StatusBadRequest, "Malformed binding key.")
		return
	}
	for _, b := range i.c.Bindings() {
		if b.Key.String() == key {
			res.Success(viewOf(b))
			return
		}
	}
	res.NotFound("No binding registered for " + key + ".")
}
