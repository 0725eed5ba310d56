package hxview

import (
	"sort"
	"strings"
	"sync"

	"github.com/pthm/hxview/lib/fingerprint"
)

// FrameworkNamespace is the namespace of hxview's own classes and modules.
// Ancestors in it never contribute to cache keys.
const FrameworkNamespace = "hxview"

// TemplateFunc builds markup through a Context.
type TemplateFunc func(c *Context)

// Ancestor is a type a class inherits behavior from: a parent Class or an
// included Module.
type Ancestor interface {
	Cacheable
	AncestorName() string
}

// Module is a named bundle of partials that classes include. Including a
// module makes its partials callable through Context.Partial and adds the
// module to the class's ancestors.
type Module struct {
	// Name is the fully qualified module name, e.g. "app.Badges".
	Name string

	// Partials maps partial names to templates.
	Partials map[string]TemplateFunc

	// Revision is an optional code revision label.
	Revision string
}

// AncestorName implements Ancestor.
func (m *Module) AncestorName() string {
	return m.Name
}

// CacheContribution implements Cacheable.
func (m *Module) CacheContribution() any {
	return map[string]any{
		"module":   m.Name,
		"revision": m.Revision,
		"partials": partialIdentities(m.Partials),
	}
}

// Helpers is the framework module every class includes implicitly.
var Helpers = &Module{
	Name: FrameworkNamespace + ".Helpers",
	Partials: map[string]TemplateFunc{
		"doctype": func(c *Context) { c.Raw("<!DOCTYPE html>") },
	},
}

// Class is a component class: a named template plus the structure its
// cache key is derived from.
//
// Classes are created with Registry.Define and are immutable afterwards,
// apart from DependsOn and Uses, which must be called before the class's
// cache key is first requested.
type Class struct {
	name      string
	namespace string
	registry  *Registry
	template  TemplateFunc
	parent    *Class
	mixins    []*Module
	partials  map[string]TemplateFunc
	revision  string

	mu      sync.Mutex
	uses    []string
	depends []*Class
}

// ClassOption configures a Class at definition time.
type ClassOption func(*Class)

// Namespace places the class in a dotted namespace such as "app.admin".
// References from the class resolve relative to it.
func Namespace(ns string) ClassOption {
	return func(k *Class) { k.namespace = ns }
}

// Extends makes parent the superclass. A class without a template inherits
// its parent's; partials are looked up along the parent chain.
func Extends(parent *Class) ClassOption {
	return func(k *Class) { k.parent = parent }
}

// Include mixes modules into the class. Later modules take precedence.
func Include(mods ...*Module) ClassOption {
	return func(k *Class) { k.mixins = append(k.mixins, mods...) }
}

// Uses declares components the class renders, by name. Names resolve
// relative to the class namespace when the cache key is first computed.
func Uses(names ...string) ClassOption {
	return func(k *Class) { k.uses = append(k.uses, names...) }
}

// Depends declares components the class renders, by value.
func Depends(classes ...*Class) ClassOption {
	return func(k *Class) { k.depends = append(k.depends, classes...) }
}

// WithPartial attaches a named partial to the class.
func WithPartial(name string, fn TemplateFunc) ClassOption {
	return func(k *Class) {
		if k.partials == nil {
			k.partials = make(map[string]TemplateFunc)
		}
		k.partials[name] = fn
	}
}

// Revision labels the class's code revision. Changing it changes the cache
// key of the class and of every class that renders it.
func Revision(rev string) ClassOption {
	return func(k *Class) { k.revision = rev }
}

// Name returns the class name without namespace.
func (k *Class) Name() string {
	return k.name
}

// Namespace returns the dotted namespace, possibly empty.
func (k *Class) Namespace() string {
	return k.namespace
}

// FullName returns namespace.Name.
func (k *Class) FullName() string {
	return qualify(k.namespace, k.name)
}

// String implements fmt.Stringer.
func (k *Class) String() string {
	return k.FullName()
}

// Parent returns the superclass, or nil.
func (k *Class) Parent() *Class {
	return k.parent
}

// Registry returns the registry the class was defined in.
func (k *Class) Registry() *Registry {
	return k.registry
}

// DependsOn adds declared references after definition. Generated
// dependency manifests call it.
func (k *Class) DependsOn(classes ...*Class) *Class {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.depends = append(k.depends, classes...)
	return k
}

// Uses adds declared references by name after definition.
func (k *Class) Uses(names ...string) *Class {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.uses = append(k.uses, names...)
	return k
}

// AncestorName implements Ancestor.
func (k *Class) AncestorName() string {
	return k.FullName()
}

// CacheContribution implements Cacheable: the class's own code identity
// followed by its cacheable ancestors.
func (k *Class) CacheContribution() any {
	ancestors := k.CacheableAncestors()
	contributions := make([]any, len(ancestors))
	for i, a := range ancestors {
		contributions[i] = a
	}
	return map[string]any{
		"class":     k.identity(),
		"ancestors": contributions,
	}
}

// identity summarizes what the class itself defines.
func (k *Class) identity() map[string]any {
	return map[string]any{
		"name":     k.FullName(),
		"revision": k.revision,
		"template": fingerprint.FuncIdentity(k.template),
		"partials": partialIdentities(k.partials),
	}
}

// CacheableAncestors returns the ancestor chain without the class itself
// and without framework-namespace ancestors, each wrapped for folding.
func (k *Class) CacheableAncestors() []CacheableObject {
	return k.registry.cacheableAncestors(k)
}

// ancestors returns the full lookup chain after the class itself: the
// class's modules (last included first), then the parent class and its
// modules, and so on, ending with Helpers. Repeats are dropped.
func (k *Class) ancestors() []Ancestor {
	var chain []Ancestor
	seen := map[Ancestor]bool{k: true}
	add := func(a Ancestor) {
		if !seen[a] {
			seen[a] = true
			chain = append(chain, a)
		}
	}
	for c := k; c != nil; c = c.parent {
		add(c)
		for i := len(c.mixins) - 1; i >= 0; i-- {
			add(c.mixins[i])
		}
	}
	add(Helpers)
	return chain
}

func (k *Class) templateFunc() TemplateFunc {
	for c := k; c != nil; c = c.parent {
		if c.template != nil {
			return c.template
		}
	}
	return nil
}

// partial finds a named partial on the class, its modules or its parents.
func (k *Class) partial(name string) (TemplateFunc, bool) {
	if fn, ok := k.partials[name]; ok {
		return fn, true
	}
	for _, a := range k.ancestors() {
		switch x := a.(type) {
		case *Class:
			if fn, ok := x.partials[name]; ok {
				return fn, true
			}
		case *Module:
			if fn, ok := x.Partials[name]; ok {
				return fn, true
			}
		}
	}
	return nil, false
}

func (k *Class) references() ([]string, []*Class) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.uses...), append([]*Class(nil), k.depends...)
}

func inFramework(name string) bool {
	return name == FrameworkNamespace || strings.HasPrefix(name, FrameworkNamespace+".")
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

func partialIdentities(partials map[string]TemplateFunc) []string {
	ids := make([]string, 0, len(partials))
	for name, fn := range partials {
		ids = append(ids, name+"="+fingerprint.FuncIdentity(fn))
	}
	sort.Strings(ids)
	return ids
}
