package data

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".yml", FormatYAML, false},
		{"YAML", FormatYAML, false},
		{"toml", FormatTOML, false},
		{".xml", FormatXML, false},
		{"ini", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath_NoExtension(t *testing.T) {
	_, err := FormatFromPath("values")
	assert.Error(t, err)
}

func TestLoadFile_AllFormats(t *testing.T) {
	for _, name := range []string{"values.json", "values.yaml", "values.toml", "values.xml"} {
		t.Run(name, func(t *testing.T) {
			values, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, "User", values["class"])

			options, ok := values["options"].(*Map)
			require.True(t, ok, "options should decode to an ordered map, got %T", values["options"])
			assert.Len(t, options.Keys(), 2)
		})
	}
}

func TestDecodeJSON_OrderAndNumbers(t *testing.T) {
	values, err := Decode(strings.NewReader(`{"m": {"z": 1, "a": 2.5, "n": null}, "list": [3, "x", true]}`), FormatJSON)
	require.NoError(t, err)

	m := values["m"].(*Map)
	assert.Equal(t, []string{"z", "a", "n"}, m.Keys())
	z, _ := m.Get("z")
	assert.Equal(t, int64(1), z)
	a, _ := m.Get("a")
	assert.Equal(t, 2.5, a)

	assert.Equal(t, []interface{}{int64(3), "x", true}, values["list"])
}

func TestDecodeJSON_RejectsNonObject(t *testing.T) {
	_, err := Decode(strings.NewReader(`[1, 2]`), FormatJSON)
	assert.Error(t, err)
}

func TestDecode_EmptyDocument(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		values, err := Decode(strings.NewReader(""), format)
		require.NoError(t, err)
		assert.Empty(t, values)
	}
}

func TestDecodeYAML_Order(t *testing.T) {
	src := "m:\n  z: 1\n  a: two\nbase: &b\n  k: v\nref: *b\n"
	values, err := Decode(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)

	m := values["m"].(*Map)
	assert.Equal(t, []string{"z", "a"}, m.Keys())
	z, _ := m.Get("z")
	assert.Equal(t, 1, z)

	ref := values["ref"].(*Map)
	k, _ := ref.Get("k")
	assert.Equal(t, "v", k)
}

func TestDecodeXML_Shapes(t *testing.T) {
	src := `<values>
  <name>demo</name>
  <tags list="true"><tag>one</tag></tags>
  <item>a</item>
  <item>b</item>
  <opt enabled="yes"/>
  <note lang="en">hi</note>
</values>`
	values, err := Decode(strings.NewReader(src), FormatXML)
	require.NoError(t, err)

	assert.Equal(t, "demo", values["name"])
	assert.Equal(t, []interface{}{"one"}, values["tags"])
	assert.Equal(t, []interface{}{"a", "b"}, values["item"])

	opt := values["opt"].(*Map)
	enabled, _ := opt.Get("@enabled")
	assert.Equal(t, "yes", enabled)

	note := values["note"].(*Map)
	text, _ := note.Get("#text")
	assert.Equal(t, "hi", text)
}

func TestDecodeXML_FieldsFixture(t *testing.T) {
	values, err := LoadFile(filepath.Join("testdata", "values.xml"))
	require.NoError(t, err)

	fields := values["fields"].(*Map)
	list, ok := fields.Get("field")
	require.True(t, ok)
	require.Len(t, list, 2)

	first := list.([]interface{})[0].(*Map)
	name, _ := first.Get("@name")
	assert.Equal(t, "id", name)
}

func TestMerge(t *testing.T) {
	dstInner := NewMap()
	dstInner.Set("a", 1)
	dstInner.Set("b", 2)
	srcInner := NewMap()
	srcInner.Set("b", 3)
	srcInner.Set("c", 4)

	dst := map[string]interface{}{"m": dstInner, "keep": "x", "swap": "old"}
	src := map[string]interface{}{"m": srcInner, "swap": []interface{}{1}}
	Merge(dst, src)

	m := dst["m"].(*Map)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	b, _ := m.Get("b")
	assert.Equal(t, 3, b)
	assert.Equal(t, "x", dst["keep"])
	assert.Equal(t, []interface{}{1}, dst["swap"])
}

func TestSetPath(t *testing.T) {
	root := map[string]interface{}{"plain": "v"}

	require.NoError(t, SetPath(root, "top", nil, 1))
	assert.Equal(t, 1, root["top"])

	require.NoError(t, SetPath(root, "cfg", []string{"db", "host"}, "localhost"))
	cfg := root["cfg"].(*Map)
	db, _ := cfg.Get("db")
	host, _ := db.(*Map).Get("host")
	assert.Equal(t, "localhost", host)

	err := SetPath(root, "plain", []string{"x"}, 1)
	assert.Error(t, err)

	fields := NewMap()
	fields.Set("name", "id")
	root["fields"] = []interface{}{fields}
	require.NoError(t, SetPath(root, "fields", []string{"0", "type"}, "int"))
	typ, _ := fields.Get("type")
	assert.Equal(t, "int", typ)

	err = SetPath(root, "fields", []string{"3", "type"}, "int")
	assert.ErrorContains(t, err, "out of range")

	root["plainMap"] = map[string]interface{}{"b": 1, "a": 2}
	require.NoError(t, SetPath(root, "plainMap", []string{"c"}, 3))
	assert.Equal(t, []string{"a", "b", "c"}, root["plainMap"].(*Map).Keys())
}

func TestParseScalar(t *testing.T) {
	assert.Equal(t, 42, ParseScalar("42"))
	assert.Equal(t, true, ParseScalar("true"))
	assert.Equal(t, 1.5, ParseScalar("1.5"))
	assert.Nil(t, ParseScalar("null"))
	assert.Equal(t, "hello world", ParseScalar("hello world"))
	assert.Equal(t, "[a, b]", ParseScalar("[a, b]"))
}
