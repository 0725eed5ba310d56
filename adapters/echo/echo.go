// Package hxviewecho provides Echo framework integration for hxview
// components.
//
// Serve a component per request:
//
//	e := echo.New()
//	e.GET("/", hxviewecho.Handler(func(c echo.Context) *hxview.Component {
//	    return Page.New(hxview.Attrs{"q": c.QueryParam("q")})
//	}))
//
// Or render from an existing handler:
//
//	func handler(c echo.Context) error {
//	    return hxviewecho.Render(c, http.StatusOK, Page.New(nil))
//	}
package hxviewecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pthm/hxview"
	"github.com/pthm/hxview/lib/fragment"
)

// Render writes a component to the Echo response with the given status.
// The component is rendered in full first, so a render error is returned
// before anything is written.
func Render(c echo.Context, code int, comp *hxview.Component) error {
	buf, err := comp.Call(nil)
	if err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

// Cached writes a component rendered through store. See hxview.Cached.
func Cached(c echo.Context, code int, store *fragment.Store, comp *hxview.Component) error {
	html, err := hxview.Cached(c.Request().Context(), store, comp)
	if err != nil {
		return err
	}
	return c.HTMLBlob(code, html)
}

// Handler serves the component built by build with status 200. Render
// errors go to Echo's HTTP error handler.
func Handler(build func(c echo.Context) *hxview.Component) echo.HandlerFunc {
	return func(c echo.Context) error {
		return Render(c, http.StatusOK, build(c))
	}
}
