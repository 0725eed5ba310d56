package hxview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/hxview/lib/fragment"
)

func newStore(t *testing.T) *fragment.Store {
	t.Helper()
	s, err := fragment.New(fragment.Options{MaxEntries: 16})
	require.NoError(t, err)
	return s
}

func TestCached(t *testing.T) {
	var runs int
	card := NewRegistry().Define("Card", func(c *Context) {
		runs++
		c.P(c.Attr("title"))
	})
	store := newStore(t)

	html, err := Cached(context.Background(), store, card.New(Attrs{"title": "one"}, WithCache(true)))
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p>", string(html))

	html, err = Cached(context.Background(), store, card.New(Attrs{"title": "one"}, WithCache(true)))
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p>", string(html))
	assert.Equal(t, 1, runs)

	html, err = Cached(context.Background(), store, card.New(Attrs{"title": "two"}, WithCache(true)))
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", string(html))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, store.Len())
}

func TestCachedSharesEntryWithoutCachePolicy(t *testing.T) {
	card := NewRegistry().Define("Card", func(c *Context) { c.P(c.Attr("title")) })
	store := newStore(t)

	first, err := Cached(context.Background(), store, card.New(Attrs{"title": "one"}))
	require.NoError(t, err)
	second, err := Cached(context.Background(), store, card.New(Attrs{"title": "two"}))
	require.NoError(t, err)

	// Attributes are not part of the key, so the first render is served
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Len())
}

func TestCachedErrors(t *testing.T) {
	r := NewRegistry()
	broken := r.Define("Broken", func(c *Context) { c.Element("hr", "x") })
	unresolved := r.Define("Unresolved", nil, Uses("Missing"))
	store := newStore(t)

	_, err := Cached(context.Background(), store, broken.New(nil))
	require.ErrorIs(t, err, ErrVoidContent)
	assert.Equal(t, 0, store.Len())

	_, err = Cached(context.Background(), store, unresolved.New(nil))
	require.ErrorIs(t, err, ErrUnresolved)
}

func TestContextCached(t *testing.T) {
	r := NewRegistry()
	var runs int
	item := r.Define("Item", func(c *Context) {
		runs++
		c.Li(c.Attr("label"))
	})
	store := newStore(t)
	list := r.Define("List", func(c *Context) {
		c.Ul(func(c *Context) {
			c.Cached(store, item, Attrs{"label": "a"}, WithCacheResources(Attrs{"id": 1}))
			c.Cached(store, item, Attrs{"label": "b"}, WithCacheResources(Attrs{"id": 2}))
		})
	}, Depends(item))

	for i := 0; i < 3; i++ {
		html, err := list.New(nil).Call(nil)
		require.NoError(t, err)
		assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", html.String())
	}
	assert.Equal(t, 2, runs)

	_, err := r.Define("Bad", func(c *Context) { c.Cached(store, "Item", nil) }).New(nil).Call(nil)
	require.ErrorIs(t, err, ErrNotComponent)
}
