package hxview

import "github.com/cockroachdb/errors"

// Sentinel errors for component definition and rendering.
var (
	ErrNotComponent    = errors.New("hxview: not a component class")
	ErrContentAndBlock = errors.New("hxview: element given both content and a block")
	ErrVoidContent     = errors.New("hxview: void element cannot have content")
	ErrBadArgument     = errors.New("hxview: unsupported element argument")
	ErrUnknownElement  = errors.New("hxview: unknown element")
	ErrUnknownPartial  = errors.New("hxview: unknown partial")
	ErrElementName     = errors.New("hxview: custom elements must be named by a symbol")
	ErrClassType       = errors.New("hxview: classes must be string, Symbol or []string")
	ErrClassFrozen     = errors.New("hxview: class list already rendered")
	ErrUnresolved      = errors.New("hxview: unresolved component reference")
	ErrDuplicateClass  = errors.New("hxview: component class already defined")
	ErrInvalidName     = errors.New("hxview: invalid component name")
)

var usageErrors = []error{
	ErrNotComponent,
	ErrContentAndBlock,
	ErrVoidContent,
	ErrBadArgument,
	ErrUnknownElement,
	ErrUnknownPartial,
	ErrElementName,
	ErrDuplicateClass,
	ErrInvalidName,
}

// IsUsageError reports whether err comes from calling the builder or
// registry API incorrectly.
func IsUsageError(err error) bool {
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsResolutionError reports whether err comes from a component reference
// that names no defined class.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrUnresolved)
}

// IsTypeError reports whether err comes from a class list value of an
// unsupported type.
func IsTypeError(err error) bool {
	return errors.Is(err, ErrClassType)
}
