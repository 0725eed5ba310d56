package fingerprint

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type named struct{ name string }

func (n named) CacheContribution() any { return map[string]any{"name": n.name} }

type loop struct{}

func (l loop) CacheContribution() any { return l }

func mustFold(t *testing.T, d Domain, parts ...any) Key {
	t.Helper()
	k, err := Fold(d, parts...)
	require.NoError(t, err)
	return k
}

func TestFoldDeterministic(t *testing.T) {
	parts := []any{"a", 1, map[string]any{"x": []string{"y"}}, named{"n"}}
	first := mustFold(t, KeyDomain, parts...)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, mustFold(t, KeyDomain, parts...))
	}
	require.False(t, first.IsZero())
}

func TestFoldSensitivity(t *testing.T) {
	base := mustFold(t, KeyDomain, "a", named{"n"})

	tests := []struct {
		name  string
		parts []any
	}{
		{"different contribution", []any{"a", named{"m"}}},
		{"different order", []any{named{"n"}, "a"}},
		{"extra part", []any{"a", named{"n"}, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEqual(t, base, mustFold(t, KeyDomain, tt.parts...))
		})
	}
}

func TestDomainsSeparate(t *testing.T) {
	require.NotEqual(t,
		mustFold(t, KeyDomain, "same"),
		mustFold(t, VersionDomain, "same"))
}

func TestSetIsUnordered(t *testing.T) {
	a := mustFold(t, KeyDomain, Set{named{"x"}, named{"y"}})
	b := mustFold(t, KeyDomain, Set{named{"y"}, named{"x"}, named{"y"}})
	require.Equal(t, a, b)

	c := mustFold(t, KeyDomain, Set{named{"x"}})
	require.NotEqual(t, a, c)
}

func TestMapKeyOrderIrrelevant(t *testing.T) {
	m1 := map[string]any{}
	m2 := map[string]any{}
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		m1[k] = k
	}
	for _, k := range []string{"e", "d", "c", "b", "a"} {
		m2[k] = k
	}
	require.Equal(t, mustFold(t, KeyDomain, m1), mustFold(t, KeyDomain, m2))
}

func blockA() {}
func blockB() {}

func TestFuncsFoldByIdentity(t *testing.T) {
	require.Equal(t, mustFold(t, KeyDomain, blockA), mustFold(t, KeyDomain, blockA))
	require.NotEqual(t, mustFold(t, KeyDomain, blockA), mustFold(t, KeyDomain, blockB))

	var nilFunc func()
	require.Equal(t, mustFold(t, KeyDomain, nil), mustFold(t, KeyDomain, nilFunc))
}

func TestFuncIdentity(t *testing.T) {
	id := FuncIdentity(blockA)
	require.True(t, strings.Contains(id, "blockA"), id)
	require.True(t, strings.Contains(id, "fingerprint_test.go"), id)
	require.Empty(t, FuncIdentity("not a func"))
}

func TestFoldErrors(t *testing.T) {
	_, err := Fold(KeyDomain, make(chan int))
	require.Error(t, err)

	_, err = Fold(KeyDomain, loop{})
	require.Error(t, err)
}

func TestKeyFormatting(t *testing.T) {
	k := mustFold(t, KeyDomain, "x")
	require.Len(t, k.String(), 64)
	require.Equal(t, k.String()[:8], k.Short())
	require.Equal(t, k.String(), k.CacheContribution())
}

func TestMapKeysKeepTheirType(t *testing.T) {
	mixed := func() map[any]any { return map[any]any{1: "a", "1": "b"} }
	first := mustFold(t, KeyDomain, mixed())
	for i := 0; i < 50; i++ {
		require.Equal(t, first, mustFold(t, KeyDomain, mixed()))
	}

	require.NotEqual(t,
		mustFold(t, KeyDomain, map[any]any{1: "a"}),
		mustFold(t, KeyDomain, map[any]any{"1": "a"}))
	require.NotEqual(t,
		mustFold(t, KeyDomain, map[int]string{1: "a", 2: "b"}),
		mustFold(t, KeyDomain, map[int]string{1: "b", 2: "a"}))
}

type opaque struct{ n int }

type wrapper struct {
	Label string
	inner opaque
	when  time.Time
}

func TestStructsFoldUnexportedFields(t *testing.T) {
	require.NotEqual(t, mustFold(t, KeyDomain, opaque{1}), mustFold(t, KeyDomain, opaque{2}))
	require.Equal(t, mustFold(t, KeyDomain, opaque{1}), mustFold(t, KeyDomain, opaque{1}))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	base := mustFold(t, KeyDomain, wrapper{Label: "x", inner: opaque{1}, when: at})
	require.Equal(t, base, mustFold(t, KeyDomain, wrapper{Label: "x", inner: opaque{1}, when: at}))
	require.NotEqual(t, base, mustFold(t, KeyDomain, wrapper{Label: "x", inner: opaque{2}, when: at}))
	require.NotEqual(t, base, mustFold(t, KeyDomain, wrapper{Label: "x", inner: opaque{1}, when: at.Add(time.Nanosecond)}))

	_, err := Fold(KeyDomain, struct{ ch chan int }{make(chan int)})
	require.Error(t, err)
}
