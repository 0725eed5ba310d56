package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalSortsMapKeys(t *testing.T) {
	a := map[string]any{"b": 2, "a": 1, "c": []any{"x", 3}}
	b := map[string]any{"c": []any{"x", 3}, "a": 1, "b": 2}

	for i := 0; i < 10; i++ {
		encA, err := Canonical(a)
		require.NoError(t, err)
		encB, err := Canonical(b)
		require.NoError(t, err)
		require.Equal(t, encA, encB)
	}
}

func TestCanonicalDistinguishesValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
	}{
		{"string vs int", "1", 1},
		{"different strings", "a", "b"},
		{"nil vs empty string", nil, ""},
		{"slice order", []any{1, 2}, []any{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encA, err := Canonical(tt.a)
			require.NoError(t, err)
			encB, err := Canonical(tt.b)
			require.NoError(t, err)
			require.NotEqual(t, encA, encB)
		})
	}
}

func TestCanonicalRejectsFuncs(t *testing.T) {
	_, err := Canonical(map[string]any{"f": func() {}})
	require.Error(t, err)
}

type entry struct {
	Key  string `msgpack:"k"`
	HTML []byte `msgpack:"h"`
}

func TestPackUnpack(t *testing.T) {
	packed, err := Pack(entry{Key: "abc", HTML: []byte("<p>hi</p>")})
	require.NoError(t, err)

	var got entry
	require.NoError(t, Unpack(packed, &got))
	require.Equal(t, "abc", got.Key)
	require.Equal(t, "<p>hi</p>", string(got.HTML))
}

func TestUnpackInvalid(t *testing.T) {
	var got entry
	require.Error(t, Unpack([]byte{0xc1}, &got))
}
