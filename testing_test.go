package hxview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestRender(t *testing.T) {
	card := NewRegistry().Define("Card", func(c *Context) {
		c.Div(Attrs{"class": "card"}, func(c *Context) {
			c.H2(c.Attr("title"))
		})
	})

	result, err := TestRender(card, Attrs{"title": "Hello"})
	require.NoError(t, err)

	assert.True(t, result.HTMLContains("<h2>Hello</h2>"))
	assert.True(t, result.HTMLContainsAll(`class="card"`, "Hello"))
	assert.True(t, result.HTMLContainsAny("missing", "Hello"))
	assert.False(t, result.HTMLContainsAny("missing", "absent"))
	assert.False(t, result.HTMLContainsAll("Hello", "absent"))
	assert.False(t, result.CacheKey.IsZero())
	assert.NotEqual(t, result.CacheKey, result.CacheVersion)

	other, err := TestRender(card, Attrs{"title": "Other"})
	require.NoError(t, err)
	assert.True(t, result.SameCacheEntry(other))

	cached, err := TestRender(card, Attrs{"title": "Other"}, WithCache(true))
	require.NoError(t, err)
	assert.False(t, result.SameCacheEntry(cached))
}

func TestTestComponentErrors(t *testing.T) {
	r := NewRegistry()
	broken := r.Define("Broken", func(c *Context) { c.Element("br", "x") })
	_, err := TestComponent(broken.New(nil))
	require.ErrorIs(t, err, ErrVoidContent)

	unresolved := r.Define("Unresolved", nil, Uses("Nope"))
	_, err = TestComponent(unresolved.New(nil))
	require.ErrorIs(t, err, ErrUnresolved)
}
