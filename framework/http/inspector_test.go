package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/container"
	gohttp "github.com/km-arc/go-syringe/framework/http"
	"github.com/km-arc/go-syringe/framework/routing"
)

type Greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type Mailer struct {
	Greeter Greeter `inject:""`
}

func newInspected(t *testing.T) (*container.Container, *routing.Router) {
	t.Helper()
	c := container.New()
	require.NoError(t, container.RegisterValue[Greeter](c, englishGreeter{}))
	require.NoError(t, container.Register[*Mailer](c, container.AsSingleton()))
	require.NoError(t, c.Extend(container.TypeOf[*Mailer](), func(instance any) (any, error) {
		return instance, nil
	}))

	r := routing.New(zap.NewNop())
	gohttp.NewInspector(c).Routes(r)
	return c, r
}

func get(t *testing.T, r *routing.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestInspector_Summary(t *testing.T) {
	c, r := newInspected(t)

	rr := get(t, r, "/container")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeJSON(t, rr)["data"].(map[string]any)
	assert.Equal(t, c.ID(), data["id"])
	assert.Equal(t, float64(2), data["bindings"])
}

func TestInspector_List(t *testing.T) {
	_, r := newInspected(t)

	rr := get(t, r, "/container/bindings")
	require.Equal(t, http.StatusOK, rr.Code)

	data, ok := decodeJSON(t, rr)["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)

	// ordered by key name: "*http_test.Mailer" < "http_test.Greeter"
	mailer := data[0].(map[string]any)
	assert.Equal(t, "*http_test.Mailer", mailer["key"])
	assert.Equal(t, "type", mailer["kind"])
	assert.Equal(t, "*http_test.Mailer", mailer["concrete"])
	assert.Equal(t, "singleton", mailer["lifetime"])
	assert.Equal(t, float64(1), mailer["extended"])

	greeter := data[1].(map[string]any)
	assert.Equal(t, "http_test.Greeter", greeter["key"])
	assert.Equal(t, "instance", greeter["kind"])
	assert.Equal(t, "http_test.englishGreeter", greeter["concrete"])
}

func TestInspector_List_YAML(t *testing.T) {
	_, r := newInspected(t)

	rr := get(t, r, "/container/bindings?format=yaml")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))

	data, ok := decodeYAML(t, rr)["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	assert.Equal(t, "*http_test.Mailer", data[0].(map[string]any)["key"])
}

func TestInspector_Show(t *testing.T) {
	_, r := newInspected(t)

	rr := get(t, r, "/container/bindings/"+url.PathEscape("*http_test.Mailer"))
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeJSON(t, rr)["data"].(map[string]any)
	assert.Equal(t, "*http_test.Mailer", data["key"])
	assert.Equal(t, "singleton", data["lifetime"])
}

func TestInspector_Show_Unknown(t *testing.T) {
	_, r := newInspected(t)

	rr := get(t, r, "/container/bindings/nope.Missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No binding registered for nope.Missing.", decodeJSON(t, rr)["message"])
}

func TestInspector_ReflectsForget(t *testing.T) {
	c, r := newInspected(t)
	c.Forget(container.TypeOf[*Mailer]())

	rr := get(t, r, "/container/bindings/"+url.PathEscape("*http_test.Mailer"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
