package fingerprint

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/pthm/hxview/lib/encoding"
	"github.com/zeebo/blake3"
)

// Key is a 32-byte BLAKE3 digest.
type Key [32]byte

// String returns the lowercase hex form of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Short returns the first 8 hex characters, for logs.
func (k Key) Short() string {
	return hex.EncodeToString(k[:4])
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// CacheContribution lets a key take part in another fold.
func (k Key) CacheContribution() any {
	return k.String()
}

// Domain is a BLAKE3 key that separates one family of fingerprints from
// another. The key bytes are the ASCII domain name, zero-padded.
type Domain struct {
	name string
	key  [32]byte
}

// NewDomain returns a domain for name. Names longer than 32 bytes are
// truncated.
func NewDomain(name string) Domain {
	d := Domain{name: name}
	copy(d.key[:], name)
	return d
}

// Name returns the domain name.
func (d Domain) Name() string {
	return d.name
}

var (
	// KeyDomain is used for cache keys.
	KeyDomain = NewDomain("hxview.cache.key")
	// VersionDomain is used for cache versions.
	VersionDomain = NewDomain("hxview.cache.version")
)

// Contributor is implemented by values that provide their own structural
// summary for folding.
type Contributor interface {
	CacheContribution() any
}

// Set is an unordered collection. Its members fold in canonical order and
// equal members fold once.
type Set []any

// maxDepth bounds normalization so self-referential values fail instead of
// recursing forever.
const maxDepth = 64

// Fold digests parts, in order, under domain d.
func Fold(d Domain, parts ...any) (Key, error) {
	summary := make([]any, len(parts))
	for i, part := range parts {
		n, err := normalize(part, 0)
		if err != nil {
			return Key{}, errors.Wrapf(err, "fingerprint: part %d", i)
		}
		summary[i] = n
	}
	data, err := encoding.Canonical(summary)
	if err != nil {
		return Key{}, errors.Wrap(err, "fingerprint")
	}

	h, err := blake3.NewKeyed(d.key[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = h.Write(data)
	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}

// Normalize returns the structural summary of v that Fold would encode.
func Normalize(v any) (any, error) {
	return normalize(v, 0)
}

// FuncIdentity names a function by its symbol and the file:line of its
// entry point. Closures created at the same site share an identity.
func FuncIdentity(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return fmt.Sprintf("func@%x", rv.Pointer())
	}
	file, line := f.FileLine(f.Entry())
	return fmt.Sprintf("%s:%s:%d", f.Name(), filepath.Base(file), line)
}

func normalize(v any, depth int) (any, error) {
	if depth > maxDepth {
		return nil, errors.Newf("value nested deeper than %d levels", maxDepth)
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Contributor:
		return normalize(x.CacheContribution(), depth+1)
	case Set:
		return normalizeSet(x, depth)
	case string, bool, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return nil, nil
		}
		return map[string]any{"func": FuncIdentity(v)}, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface(), depth+1)
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeMap(rv, depth)
	case reflect.Struct:
		return normalizeStruct(rv, depth)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			n, err := normalize(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Chan, reflect.UnsafePointer:
		return nil, errors.Newf("%T cannot be fingerprinted", v)
	}
	return v, nil
}

// textMarshaler matches encoding.TextMarshaler.
type textMarshaler interface {
	MarshalText() ([]byte, error)
}

// normalizeMap keeps string-keyed maps as maps. Other key types become a
// list of [key, value] pairs ordered by encoded key, so keys that print
// alike (1 and "1") stay distinct.
func normalizeMap(rv reflect.Value, depth int) (any, error) {
	if rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			n, err := normalize(iter.Value().Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = n
		}
		return out, nil
	}

	type pair struct {
		key, value []byte
		entry      []any
	}
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := normalize(iter.Key().Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		v, err := normalize(iter.Value().Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		kenc, err := encoding.Canonical(k)
		if err != nil {
			return nil, err
		}
		venc, err := encoding.Canonical(v)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair{key: kenc, value: venc, entry: []any{k, v}})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if c := bytes.Compare(pairs[i].key, pairs[j].key); c != 0 {
			return c < 0
		}
		return bytes.Compare(pairs[i].value, pairs[j].value) < 0
	})

	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = p.entry
	}
	return map[string]any{"map": out}, nil
}

// normalizeStruct summarizes every field, exported or not, under the type
// name. Types with a text form (time.Time, netip.Addr) use that instead.
func normalizeStruct(rv reflect.Value, depth int) (any, error) {
	typ := rv.Type().String()
	if rv.CanInterface() {
		if tm, ok := rv.Interface().(textMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return nil, errors.Wrapf(err, "%s", typ)
			}
			return map[string]any{"type": typ, "text": string(text)}, nil
		}
	}

	// An addressable copy lets unexported fields be read through unsafe.
	cp := reflect.New(rv.Type()).Elem()
	cp.Set(rv)
	fields := make(map[string]any, cp.NumField())
	for i := 0; i < cp.NumField(); i++ {
		f := cp.Field(i)
		if !f.CanInterface() {
			f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
		}
		n, err := normalize(f.Interface(), depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", typ, cp.Type().Field(i).Name)
		}
		fields[cp.Type().Field(i).Name] = n
	}
	return map[string]any{"type": typ, "fields": fields}, nil
}

func normalizeSet(s Set, depth int) (any, error) {
	type member struct {
		value   any
		encoded []byte
	}
	members := make([]member, 0, len(s))
	for _, v := range s {
		n, err := normalize(v, depth+1)
		if err != nil {
			return nil, err
		}
		enc, err := encoding.Canonical(n)
		if err != nil {
			return nil, err
		}
		members = append(members, member{value: n, encoded: enc})
	}
	sort.Slice(members, func(i, j int) bool {
		return bytes.Compare(members[i].encoded, members[j].encoded) < 0
	})

	out := make([]any, 0, len(members))
	for i, m := range members {
		if i > 0 && bytes.Equal(m.encoded, members[i-1].encoded) {
			continue
		}
		out = append(out, m.value)
	}
	return map[string]any{"set": out}, nil
}
