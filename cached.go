package hxview

import (
	"bytes"
	"context"

	"github.com/pthm/hxview/lib/fragment"
)

// Cached renders c through store, keyed by the instance cache key and
// cache version. The template runs only on a miss.
//
// The key is only as fine as the instance's cache policy: without
// WithCache or WithCacheResources, instances that differ only in
// attributes share one entry.
func Cached(ctx context.Context, store *fragment.Store, c *Component) ([]byte, error) {
	key, err := c.CacheKey()
	if err != nil {
		return nil, err
	}
	version, err := c.CacheVersion()
	if err != nil {
		return nil, err
	}
	return store.Fetch(ctx, key, version, func(context.Context) ([]byte, error) {
		buf, err := c.Call(nil)
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// CachedNode is a render tree leaf that renders its component through a
// fragment store.
type CachedNode struct {
	Store     *fragment.Store
	Component *Component
}

// Render implements Node.
func (n CachedNode) Render(buf *bytes.Buffer) error {
	html, err := Cached(context.Background(), n.Store, n.Component)
	if err != nil {
		return err
	}
	buf.Write(html)
	return nil
}

// Cached appends klass as a child rendered through store.
func (c *Context) Cached(store *fragment.Store, klass any, attrs Attrs, opts ...Option) {
	if c.failed() {
		return
	}
	k, ok := klass.(*Class)
	if !ok || k == nil {
		c.fail(errorNotComponent(klass))
		return
	}
	opts = append(opts, withParent(c.comp))
	c.append(CachedNode{Store: store, Component: k.New(attrs, opts...)})
}
