package codetmpl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVarRef(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		indexes []string
	}{
		{"name", "name", nil},
		{"  padded  ", "padded", nil},
		{"my-var_2", "my-var_2", nil},
		{"fields[0]", "fields", []string{"0"}},
		{"set1[k1][k-2]", "set1", []string{"k1", "k-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseVarRef(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.name, ref.Name)
			assert.Equal(t, tt.indexes, ref.Indexes)
		})
	}
}

func TestParseVarRef_Invalid(t *testing.T) {
	for _, input := range []string{"", "a.b", "a[", "a[]", "[a]", "a[b c]", "a b", "a[b]x"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseVarRef(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidVarRef))

			var refErr *VarRefError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, input, refErr.Text)
		})
	}
}

func TestVarRef_String(t *testing.T) {
	for _, input := range []string{"name", "a[b]", "a[0][c-d]"} {
		assert.Equal(t, input, MustParseVarRef(input).String())
	}
}

func TestMustParseVarRef_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseVarRef("not valid") })
}
