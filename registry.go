package hxview

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/pthm/hxview/lib/fingerprint"
)

var (
	classNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	namespacePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)
	referencePattern = regexp.MustCompile(`^([a-z][a-z0-9_]*\.)*[A-Z][A-Za-z0-9]*$`)
)

// Registry owns component classes, custom elements and the memo table of
// class-level derivations.
//
// Memoized values are computed on first access and kept for the life of
// the registry. Concurrent first accesses may compute the same value more
// than once; the computation is pure, so every caller sees an equal
// result and the first stored one wins.
type Registry struct {
	mu       sync.RWMutex
	classes  map[string]*Class
	elements map[string]element
	logger   *slog.Logger

	subcomponents memoTable[[]*Class]
	ancestors     memoTable[[]CacheableObject]
	keys          memoTable[fingerprint.Key]
	versions      memoTable[fingerprint.Key]
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry's logger. Definitions and memo fills are
// logged at debug level.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		classes:  make(map[string]*Class),
		elements: make(map[string]element),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRegistry is used by the package-level Define and RegisterElement.
var DefaultRegistry = NewRegistry()

// Define creates a component class in DefaultRegistry.
func Define(name string, tmpl TemplateFunc, opts ...ClassOption) *Class {
	return DefaultRegistry.Define(name, tmpl, opts...)
}

// Define creates and registers a component class.
//
// Classes are meant to be package-level variables, so misuse panics the
// way regexp.MustCompile does: name must be a capitalized identifier, the
// namespace a dotted lowercase path, and namespace.Name unused in r.
//
//	var Card = hxview.Define("Card", func(c *hxview.Context) {
//	    c.Div(hxview.Attrs{"class": "card"}, func(c *hxview.Context) {
//	        c.Content()
//	    })
//	}, hxview.Namespace("app"))
func (r *Registry) Define(name string, tmpl TemplateFunc, opts ...ClassOption) *Class {
	k := &Class{name: name, registry: r, template: tmpl}
	for _, opt := range opts {
		opt(k)
	}

	if !classNamePattern.MatchString(name) {
		panic(errors.Wrapf(ErrInvalidName, "%q", name))
	}
	if k.namespace != "" && !namespacePattern.MatchString(k.namespace) {
		panic(errors.Wrapf(ErrInvalidName, "namespace %q", k.namespace))
	}
	if k.parent != nil && k.parent.registry != r {
		panic(fmt.Sprintf("hxview: %s extends %s from another registry", k.FullName(), k.parent.FullName()))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	full := k.FullName()
	if _, exists := r.classes[full]; exists {
		panic(errors.Wrapf(ErrDuplicateClass, "%q", full))
	}
	r.classes[full] = k
	r.logger.Debug("defined component", "class", full)
	return k
}

// Lookup returns the class registered under a fully qualified name.
func (r *Registry) Lookup(fullName string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.classes[fullName]
	return k, ok
}

// Classes returns every registered class, sorted by full name.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	out := make([]*Class, 0, len(r.classes))
	for _, k := range r.classes {
		out = append(out, k)
	}
	r.mu.RUnlock()
	sortClasses(out)
	return out
}

// Resolve finds the class a reference names, relative to a class's
// namespace. From a class in "app.admin", "Card" is looked up as
// "app.admin.Card", then "app.Card", then "Card". Qualified references
// such as "widgets.Card" resolve the same way.
func (r *Registry) Resolve(name string, relativeTo *Class) (*Class, error) {
	if !referencePattern.MatchString(name) {
		return nil, errors.Wrapf(ErrUnresolved, "malformed reference %q", name)
	}

	var scope []string
	if relativeTo != nil && relativeTo.namespace != "" {
		scope = strings.Split(relativeTo.namespace, ".")
	}
	for i := len(scope); i >= 0; i-- {
		if k, ok := r.Lookup(qualify(strings.Join(scope[:i], "."), name)); ok {
			return k, nil
		}
	}

	from := "top level"
	if relativeTo != nil {
		from = relativeTo.FullName()
	}
	return nil, errors.Wrapf(ErrUnresolved, "%q from %s", name, from)
}

// directSubcomponents resolves the references k declares itself.
func (r *Registry) directSubcomponents(k *Class) ([]*Class, error) {
	names, classes := k.references()
	for _, name := range names {
		sub, err := r.Resolve(name, k)
		if err != nil {
			return nil, err
		}
		classes = append(classes, sub)
	}
	return classes, nil
}

// Subcomponents returns every class reachable from k through declared
// references, deduplicated and sorted by full name. A class appears in its
// own set only when a reference cycle leads back to it.
func (k *Class) Subcomponents() ([]*Class, error) {
	r := k.registry
	return r.subcomponents.get(k, func() ([]*Class, error) {
		seen := make(map[*Class]bool)
		var out []*Class
		var visit func(c *Class) error
		visit = func(c *Class) error {
			direct, err := r.directSubcomponents(c)
			if err != nil {
				return err
			}
			for _, sub := range direct {
				if seen[sub] {
					continue
				}
				seen[sub] = true
				out = append(out, sub)
				if err := visit(sub); err != nil {
					return err
				}
			}
			return nil
		}
		if err := visit(k); err != nil {
			return nil, err
		}
		sortClasses(out)
		r.logger.Debug("resolved subcomponents", "class", k.FullName(), "count", len(out))
		return out, nil
	})
}

func (r *Registry) cacheableAncestors(k *Class) []CacheableObject {
	out, _ := r.ancestors.get(k, func() ([]CacheableObject, error) {
		var wrapped []CacheableObject
		for _, a := range k.ancestors() {
			if inFramework(a.AncestorName()) {
				continue
			}
			wrapped = append(wrapped, NewCacheableObject(a))
		}
		return wrapped, nil
	})
	return out
}

func sortClasses(classes []*Class) {
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].FullName() < classes[j].FullName()
	})
}

// memoTable is a write-once cache keyed by class identity. Failed
// computations are not stored.
type memoTable[V any] struct {
	m sync.Map
}

func (t *memoTable[V]) get(k *Class, compute func() (V, error)) (V, error) {
	if v, ok := t.m.Load(k); ok {
		return v.(V), nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	actual, _ := t.m.LoadOrStore(k, v)
	return actual.(V), nil
}
