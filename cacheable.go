package hxview

import (
	"reflect"

	"github.com/pthm/hxview/lib/fingerprint"
)

// Cacheable is implemented by values that know how they take part in a
// cache key. CacheContribution returns a structural summary that is equal
// for equivalent values and stable within a process.
type Cacheable = fingerprint.Contributor

// CacheableObject wraps any value so it can be folded into a cache key or
// version, even when the value has no stable identity of its own. A
// content block is a fresh closure on every construction, but blocks
// written at the same place in the source contribute the same identity.
type CacheableObject struct {
	obj any
}

// NewCacheableObject wraps obj.
func NewCacheableObject(obj any) CacheableObject {
	return CacheableObject{obj: obj}
}

// Unwrap returns the wrapped value.
func (o CacheableObject) Unwrap() any {
	return o.obj
}

// CacheContribution implements Cacheable.
func (o CacheableObject) CacheContribution() any {
	switch x := o.obj.(type) {
	case nil:
		return nil
	case Cacheable:
		return x.CacheContribution()
	}
	if rv := reflect.ValueOf(o.obj); rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return nil
		}
		return map[string]any{"block": fingerprint.FuncIdentity(o.obj)}
	}
	return o.obj
}
