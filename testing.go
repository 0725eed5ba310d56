package hxview

import (
	"strings"
)

// TestResult holds the result of rendering a component for testing.
//
// Provides convenience methods for asserting on HTML content and on the
// instance cache key and version.
type TestResult struct {
	HTML         string
	CacheKey     Key
	CacheVersion Key
}

// TestRender instantiates klass, renders it and computes its instance
// cache key and version.
//
// Use this for unit tests of templates:
//
//	result, err := hxview.TestRender(Card, hxview.Attrs{"title": "Hi"})
//	if !result.HTMLContains("<h2>Hi</h2>") {
//	    t.Fatal("missing title")
//	}
func TestRender(klass *Class, attrs Attrs, opts ...Option) (*TestResult, error) {
	return TestComponent(klass.New(attrs, opts...))
}

// TestComponent renders an existing instance. See TestRender.
func TestComponent(c *Component) (*TestResult, error) {
	buf, err := c.Call(nil)
	if err != nil {
		return nil, err
	}
	key, err := c.CacheKey()
	if err != nil {
		return nil, err
	}
	version, err := c.CacheVersion()
	if err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:         buf.String(),
		CacheKey:     key,
		CacheVersion: version,
	}, nil
}

// HTMLContains reports whether the rendered HTML contains substr.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll reports whether the rendered HTML contains every substring.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny reports whether the rendered HTML contains at least one
// substring.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// SameCacheEntry reports whether r and other would share a fragment cache
// entry.
func (r *TestResult) SameCacheEntry(other *TestResult) bool {
	return r.CacheKey == other.CacheKey && r.CacheVersion == other.CacheVersion
}
