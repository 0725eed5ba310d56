package hxview

import (
	"net/http"
)

// Render writes a component to the HTTP response.
//
// Sets Content-Type to text/html and renders the whole component before
// writing, so a render error can still be answered with a 500:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    if err := hxview.Render(w, r, Page.New(hxview.Attrs{"title": "Home"})); err != nil {
//	        http.Error(w, "Internal error", http.StatusInternalServerError)
//	    }
//	}
func Render(w http.ResponseWriter, r *http.Request, c *Component) error {
	buf, err := c.Call(nil)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	return err
}

// Handler serves a component built per request by build.
//
// Render errors are logged through the class registry's logger and
// answered with 500.
func Handler(build func(r *http.Request) *Component) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := build(r)
		if err := Render(w, r, c); err != nil {
			c.class.registry.logger.Error("render failed",
				"class", c.class.FullName(), "path", r.URL.Path, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	})
}
