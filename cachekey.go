package hxview

import (
	"runtime"

	"github.com/cockroachdb/errors"

	"github.com/pthm/hxview/lib/fingerprint"
)

// Key is a cache key or cache version.
type Key = fingerprint.Key

// CacheKey returns the class cache key: the class's code identity, the set
// of every subcomponent it can render and its cacheable ancestors. Editing
// any reachable component changes the key. The first access resolves
// declared references; unresolvable names fail with ErrUnresolved.
func (k *Class) CacheKey() (Key, error) {
	return k.registry.keys.get(k, func() (Key, error) {
		parts, err := k.cacheParts()
		if err != nil {
			return Key{}, err
		}
		key, err := fingerprint.Fold(fingerprint.KeyDomain, parts...)
		if err != nil {
			return Key{}, errors.Wrapf(err, "hxview: cache key of %s", k.FullName())
		}
		k.registry.logger.Debug("computed class cache key", "class", k.FullName(), "key", key.Short())
		return key, nil
	})
}

// CacheVersion returns the class cache version: the class cache key inputs
// plus the Go runtime and hxview versions, so upgrades invalidate entries
// whose keys did not change.
func (k *Class) CacheVersion() (Key, error) {
	return k.registry.versions.get(k, func() (Key, error) {
		parts, err := k.cacheParts()
		if err != nil {
			return Key{}, err
		}
		parts = append([]any{runtime.Version(), Version}, parts...)
		version, err := fingerprint.Fold(fingerprint.VersionDomain, parts...)
		if err != nil {
			return Key{}, errors.Wrapf(err, "hxview: cache version of %s", k.FullName())
		}
		k.registry.logger.Debug("computed class cache version", "class", k.FullName(), "version", version.Short())
		return version, nil
	})
}

func (k *Class) cacheParts() ([]any, error) {
	subs, err := k.Subcomponents()
	if err != nil {
		return nil, err
	}
	set := make(fingerprint.Set, len(subs))
	for i, sub := range subs {
		set[i] = sub
	}
	ancestors := k.CacheableAncestors()
	wrapped := make([]any, len(ancestors))
	for i, a := range ancestors {
		wrapped[i] = a
	}
	return []any{k.identity(), set, wrapped}, nil
}

// CacheKey returns the instance cache key: the class cache key, the content
// block and the cacheable resources selected by WithCache or
// WithCacheResources. Computed once per instance.
func (c *Component) CacheKey() (Key, error) {
	if key := c.key.Load(); key != nil {
		return *key, nil
	}
	classKey, err := c.class.CacheKey()
	if err != nil {
		return Key{}, err
	}
	key, err := fingerprint.Fold(fingerprint.KeyDomain, classKey, c.cacheableContent(), c.cacheableResources())
	if err != nil {
		return Key{}, errors.Wrapf(err, "hxview: cache key of %s instance", c.class.FullName())
	}
	c.key.CompareAndSwap(nil, &key)
	return *c.key.Load(), nil
}

// CacheVersion returns the instance cache version.
func (c *Component) CacheVersion() (Key, error) {
	if version := c.version.Load(); version != nil {
		return *version, nil
	}
	classVersion, err := c.class.CacheVersion()
	if err != nil {
		return Key{}, err
	}
	version, err := fingerprint.Fold(fingerprint.VersionDomain,
		runtime.Version(), Version, classVersion, c.cacheableContent(), c.cacheableResources())
	if err != nil {
		return Key{}, errors.Wrapf(err, "hxview: cache version of %s instance", c.class.FullName())
	}
	c.version.CompareAndSwap(nil, &version)
	return *c.version.Load(), nil
}

func (c *Component) cacheableContent() CacheableObject {
	return NewCacheableObject(c.content)
}

func (c *Component) cacheableResources() Attrs {
	switch {
	case c.cacheAll:
		return c.assigns()
	case c.cacheSet != nil:
		return c.cacheSet
	default:
		return nil
	}
}

// CacheContribution implements Cacheable, so an instance passed as an
// attribute folds as its class, content block and resources.
func (c *Component) CacheContribution() any {
	return []any{c.class, c.cacheableContent(), c.cacheableResources()}
}
