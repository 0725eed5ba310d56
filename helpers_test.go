package hxview

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTTP(t *testing.T) {
	page := NewRegistry().Define("Page", func(c *Context) {
		c.Doctype()
		c.HTML(func(c *Context) {
			c.Body(func(c *Context) { c.H1(c.Attr("title")) })
		})
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, Render(w, r, page.New(Attrs{"title": "Home"})))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<!DOCTYPE html><html><body><h1>Home</h1></body></html>", w.Body.String())
}

func TestRenderErrorWritesNothing(t *testing.T) {
	broken := NewRegistry().Define("Broken", func(c *Context) {
		c.P("partial")
		c.Component(42, nil)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	err := Render(w, r, broken.New(nil))
	require.ErrorIs(t, err, ErrNotComponent)
	assert.Empty(t, w.Body.String())
}

func TestHandler(t *testing.T) {
	var logs bytes.Buffer
	reg := NewRegistry(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	greet := reg.Define("Greet", func(c *Context) { c.P(c.Attr("name")) })
	broken := reg.Define("Broken", func(c *Context) { c.Element("nope") })

	mux := http.NewServeMux()
	mux.Handle("/greet", Handler(func(r *http.Request) *Component {
		return greet.New(Attrs{"name": r.URL.Query().Get("name")})
	}))
	mux.Handle("/broken", Handler(func(r *http.Request) *Component {
		return broken.New(nil)
	}))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/greet?name=%3Cb%3E", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>&lt;b&gt;</p>", w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), "render failed")
	assert.Contains(t, logs.String(), "class=Broken")
}
