package hxview

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/hxview/lib/config"
)

func render(t *testing.T, n Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestTagClassComposition(t *testing.T) {
	tag, err := NewTag("div", Attrs{"class": "a b", "id": "x"})
	require.NoError(t, err)

	require.NoError(t, tag.AddClass(Symbol("c")))
	require.NoError(t, tag.AddClass([]string{"d", "e"}))
	require.NoError(t, tag.AddClass(nil))

	assert.Equal(t, "a b c d e", tag.Classes())
	assert.Equal(t, `<div class="a b c d e" id="x"></div>`, render(t, tag))
}

func TestTagClassValues(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr error
	}{
		{"string", "card", "card", nil},
		{"symbol", Symbol("card"), "card", nil},
		{"strings", []string{"card", "wide"}, "card wide", nil},
		{"symbols", []Symbol{"card", "wide"}, "card wide", nil},
		{"padded", "  card  ", "card", nil},
		{"decoded list", []any{"card", Symbol("wide"), nil}, "card wide", nil},
		{"decoded list with number", []any{"card", 2}, "", ErrClassType},
		{"nil", nil, "", nil},
		{"int", 7, "", ErrClassType},
		{"map", map[string]bool{"card": true}, "", ErrClassType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := NewTag("span", nil)
			require.NoError(t, err)

			err = tag.AddClass(tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsTypeError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag.Classes())
		})
	}
}

func TestTagClassOmittedWhenEmpty(t *testing.T) {
	tag, err := NewTag("p", Attrs{"class": nil})
	require.NoError(t, err)
	assert.Equal(t, "<p></p>", render(t, tag))
}

func TestTagUnderscoreConversion(t *testing.T) {
	Configure(config.Config{ConvertUnderscoresToDashes: true})
	t.Cleanup(func() { Configure(config.Default()) })

	tag, err := NewTag("div", Attrs{"class": "card_title"})
	require.NoError(t, err)
	require.NoError(t, tag.AddClass(Symbol("is_active")))

	assert.Equal(t, `<div class="card-title is-active"></div>`, render(t, tag))

	Configure(config.Default())
	tag, err = NewTag("div", Attrs{"class": "card_title"})
	require.NoError(t, err)
	assert.Equal(t, `<div class="card_title"></div>`, render(t, tag))
}

func TestTagClassFrozen(t *testing.T) {
	tag, err := NewTag("div", Attrs{"class": "a"})
	require.NoError(t, err)

	assert.Equal(t, "a", tag.Classes())

	err = tag.AddClass("b")
	require.ErrorIs(t, err, ErrClassFrozen)
	assert.Equal(t, "a", tag.Classes())
}

func TestTagAttributes(t *testing.T) {
	tag, err := NewTag("a", Attrs{
		"title": `say "hi" <now>`,
		"href":  "/x?a=1&b=2",
		"rel":   nil,
	})
	require.NoError(t, err)

	v, ok := tag.Attribute("href")
	require.True(t, ok)
	assert.Equal(t, "/x?a=1&b=2", v)

	assert.Equal(t,
		`<a href="/x?a=1&amp;b=2" title="say &#34;hi&#34; &lt;now&gt;"></a>`,
		render(t, tag))
}

func TestVoidTag(t *testing.T) {
	tag, err := NewVoidTag("img", Attrs{"src": "/a.png", "alt": ""})
	require.NoError(t, err)

	assert.True(t, tag.IsVoid())
	assert.Equal(t, "img", tag.Name())
	assert.Equal(t, `<img alt="" src="/a.png">`, render(t, tag))
}

func TestTagChildren(t *testing.T) {
	tag, err := NewTag("p", nil)
	require.NoError(t, err)

	tag.ChildNodes().Append(Text{Value: "1 < 2"})
	tag.ChildNodes().Append(Raw("<br>"))
	tag.ChildNodes().Append(Text{Value: nil})

	assert.Equal(t, 3, tag.ChildNodes().Len())
	assert.Equal(t, "<p>1 &lt; 2<br></p>", render(t, tag))
}

func TestClassCollectorNil(t *testing.T) {
	var cc *ClassCollector
	assert.Nil(t, cc.Class("a"))
	assert.Nil(t, cc.Tag())

	empty := &ClassCollector{}
	assert.Same(t, empty, empty.Class("a"))
	assert.Nil(t, empty.Tag())
}
