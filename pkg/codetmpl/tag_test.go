package codetmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		keys  []string
		kinds []string
	}{
		{
			name:  "plain with and without closing hash",
			text:  "a /*# x #*/ b /*#y*/",
			keys:  []string{"/*# x #*/", "/*#y*/"},
			kinds: []string{"tag", "tag"},
		},
		{
			name:  "filters",
			text:  "/*# json:a */ /*# xml:b[c] */ /*# php:d */",
			keys:  []string{"/*# json:a */", "/*# xml:b[c] */", "/*# php:d */"},
			kinds: []string{"json", "xml", "php"},
		},
		{
			name:  "joins",
			text:  "(/*# join:args:, */) [/*# join-php:vals:| */]",
			keys:  []string{"/*# join:args:, */", "/*# join-php:vals:| */"},
			kinds: []string{"join", "join-php"},
		},
		{
			name:  "duplicates collapse",
			text:  "/*# a */-/*# a */",
			keys:  []string{"/*# a */"},
			kinds: []string{"tag"},
		},
		{
			name: "not tags",
			text: "/* comment */ /*# two words */ /*# bad! */",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := ParseTags(tt.text, "")
			require.Len(t, subs, len(tt.keys))
			for i, sub := range subs {
				assert.Equal(t, tt.keys[i], sub.Key())
				assert.Equal(t, tt.kinds[i], substitutionKind(sub))
			}
		})
	}
}

func substitutionKind(s Substitution) string {
	switch v := s.(type) {
	case *TagSubstitution:
		return "tag"
	case *JSONSubstitution:
		return "json"
	case *XMLSubstitution:
		return "xml"
	case *LiteralSubstitution:
		return "php"
	case *JoinSubstitution:
		if v.Export {
			return "join-php"
		}
		return "join"
	}
	return "unknown"
}

func resolveTag(t *testing.T, tag string, data TemplateData) (string, error) {
	t.Helper()
	subs := ParseTags(tag, "")
	require.Len(t, subs, 1)
	return subs[0].Value(NewValues(data))
}

func TestTagSubstitution(t *testing.T) {
	out, err := resolveTag(t, "/*# name */", TemplateData{"name": "User"})
	require.NoError(t, err)
	assert.Equal(t, "User", out)

	out, err = resolveTag(t, "/*# n */", TemplateData{"n": nil})
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = resolveTag(t, "/*# f */", TemplateData{"f": 1.5})
	require.NoError(t, err)
	assert.Equal(t, "1.5", out)

	_, err = resolveTag(t, "/*# missing[x] */", TemplateData{})
	require.Error(t, err)
	assert.True(t, IsUndefinedValue(err))

	var undef *UndefinedValueError
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, "missing[x]", undef.Name)
}

func TestJoinSubstitution(t *testing.T) {
	tag := "/*# join:vals:, */"

	out, err := resolveTag(t, tag, TemplateData{"vals": []interface{}{"val1", "val2", "val3"}})
	require.NoError(t, err)
	assert.Equal(t, "val1,val2,val3", out)

	out, err = resolveTag(t, tag, TemplateData{})
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = resolveTag(t, tag, TemplateData{"vals": nil})
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = resolveTag(t, tag, TemplateData{"vals": []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "1,2", out)

	_, err = resolveTag(t, tag, TemplateData{"vals": "not a list"})
	require.Error(t, err)
	assert.True(t, IsInvalidType(err))

	var invalid *InvalidTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "array", invalid.Expected)

	_, err = resolveTag(t, tag, TemplateData{"vals": map[string]interface{}{"a": 1}})
	assert.True(t, IsInvalidType(err))
}

func TestJoinPHPSubstitution(t *testing.T) {
	out, err := resolveTag(t, "/*# join-php:vals:, */", TemplateData{"vals": []interface{}{1, "a", nil, true}})
	require.NoError(t, err)
	assert.Equal(t, "1,'a',null,true", out)
}

func TestJSONSubstitution(t *testing.T) {
	ordered := data.NewMap()
	ordered.Set("z", "<b>")
	ordered.Set("a", []interface{}{1, 2})

	out, err := resolveTag(t, "/*# json:v */", TemplateData{"v": ordered})
	require.NoError(t, err)
	assert.Equal(t, `{"z":"<b>","a":[1,2]}`, out)

	out, err = resolveTag(t, "/*# json:v */", TemplateData{"v": map[string]interface{}{"b": 1, "a": "x"}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, out)

	out, err = resolveTag(t, "/*# json:v */", TemplateData{"v": nil})
	require.NoError(t, err)
	assert.Equal(t, "null", out)

	_, err = resolveTag(t, "/*# json:v */", TemplateData{})
	assert.True(t, IsUndefinedValue(err))
}

func TestXMLSubstitution(t *testing.T) {
	out, err := resolveTag(t, "/*# xml:v */", TemplateData{"v": `a < b & "c" 'd' > &amp; &#39; &#x41; &copy;`})
	require.NoError(t, err)
	assert.Equal(t, `a &lt; b &amp; &quot;c&quot; &apos;d&apos; &gt; &amp; &#39; &#x41; &copy;`, out)

	out, err = resolveTag(t, "/*# xml:v */", TemplateData{"v": 42})
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	_, err = resolveTag(t, "/*# xml:v */", TemplateData{})
	assert.True(t, IsUndefinedValue(err))
}

func TestLiteralSubstitution(t *testing.T) {
	out, err := resolveTag(t, "/*# php:v */", TemplateData{"v": []interface{}{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "array(0 => 1,1 => 2)", out)

	out, err = resolveTag(t, "/*# php:v */", TemplateData{"v": "it's"})
	require.NoError(t, err)
	assert.Equal(t, `'it\'s'`, out)

	subs := ParseTags("$x = /*# php:v */;", "    ")
	require.Len(t, subs, 1)
	out, err = subs[0].Value(NewValues(TemplateData{"v": []interface{}{"a\nb"}}))
	require.NoError(t, err)
	assert.Equal(t, "array(0 => 'a\n    b')", out)

	_, err = resolveTag(t, "/*# php:v */", TemplateData{})
	assert.True(t, IsUndefinedValue(err))
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "plain", EscapeXML("plain"))
	assert.Equal(t, "&amp;&amp;", EscapeXML("&&"))
	assert.Equal(t, "&amp;nope", EscapeXML("&nope"))
	assert.Equal(t, "&lt;a&gt;", EscapeXML("<a>"))
}
