// Package hxview builds HTML from Go code through components whose cache
// keys follow the code that renders them.
//
// # Components
//
// A component class is a named template defined once, usually as a
// package-level variable:
//
//	var Card = hxview.Define("Card", func(c *hxview.Context) {
//	    c.Div(hxview.Attrs{"class": "card"}, func(c *hxview.Context) {
//	        c.H2(c.Attr("title"))
//	        c.Content()
//	    })
//	})
//
// Instances carry attributes and an optional content block:
//
//	html := Card.New(hxview.Attrs{"title": "Hello"},
//	    hxview.WithContent(func(c *hxview.Context) { c.P("Body") })).String()
//
// Templates write through a Context. Element builders take attributes,
// either one content value or one block, and return a collector that
// chains extra classes:
//
//	c.Span("New").Class("badge", hxview.Symbol("is_active"))
//
// Content and a block together, or either on a void element, are usage
// errors. The first error of a render pass stops further building and is
// returned by Component.Call.
//
// # Cache keys
//
// Every class has a cache key derived from its code identity, the set of
// components it can render (transitively) and the modules and parent
// classes it inherits from. Framework ancestors in the "hxview" namespace
// are excluded. Changing any component reachable from a class changes
// that class's key.
//
// Instance keys add the content block and, when asked, the attributes:
//
//	Card.New(attrs, hxview.WithCache(true)).CacheKey()
//	Card.New(attrs, hxview.WithCacheResources(hxview.Attrs{"id": id})).CacheKey()
//
// Versions fold in the Go and hxview versions as well, so a store can keep
// entries under a key and discard them when the version moves.
//
// Components a template renders are declared with Depends or Uses, or
// generated by running
//
//	hxview generate ./...
//
// which writes a *_hx.go manifest next to each source file.
//
// # Fragment caching
//
// Package lib/fragment holds rendered HTML under instance keys. Templates
// reach it with Context.Cached; handlers with Cached.
package hxview
