package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with envelope helpers.
type Response struct {
	w    http.ResponseWriter
	yaml bool
}

// NewResponse wraps a ResponseWriter. Bodies are JSON.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Negotiate wraps a ResponseWriter and switches bodies to YAML when the
// request asks for it with ?format=yaml or an Accept header naming yaml.
func Negotiate(w http.ResponseWriter, r *http.Request) *Response {
	res := NewResponse(w)
	res.yaml = r.URL.Query().Get("format") == "yaml" ||
		strings.Contains(r.Header.Get("Accept"), "yaml")
	return res
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── Encoded responses ────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// YAML sends a YAML response.
func (res *Response) YAML(status int, data any) {
	res.w.Header().Set("Content-Type", "application/yaml")
	res.w.WriteHeader(status)
	enc := yaml.NewEncoder(res.w)
	enc.SetIndent(2)
	_ = enc.Encode(data)
	_ = enc.Close()
}

// Send encodes data in the negotiated format.
func (res *Response) Send(status int, data any) {
	if res.yaml {
		res.YAML(status, data)
		return
	}
	res.JSON(status, data)
}

// Success sends 200: {"data": v}
func (res *Response) Success(v any) {
	res.Send(http.StatusOK, envelope{"data": v})
}

// Error sends an error response.
//
//	res.Error(http.StatusNotFound, "Resource not found")
func (res *Response) Error(status int, message string) {
	res.Send(status, envelope{"message": message})
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
