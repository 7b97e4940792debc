package codetmpl

import (
	"regexp"
	"strings"
)

var (
	varRefRegex   = regexp.MustCompile(`^([A-Za-z0-9_-]+)((?:\[[A-Za-z0-9_-]+\])*)$`)
	varIndexRegex = regexp.MustCompile(`\[([A-Za-z0-9_-]+)\]`)
)

// VarRef names a value in a value set: a bare name or a name followed by a
// chain of bracketed indexes, e.g. fields[0][name].
type VarRef struct {
	Name    string
	Indexes []string
}

// ParseVarRef parses the textual form of a variable reference. Surrounding
// whitespace is ignored; anything else that does not fit the form fails.
func ParseVarRef(text string) (VarRef, error) {
	trimmed := strings.TrimSpace(text)
	m := varRefRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return VarRef{}, &VarRefError{Text: text}
	}

	ref := VarRef{Name: m[1]}
	if m[2] != "" {
		for _, idx := range varIndexRegex.FindAllStringSubmatch(m[2], -1) {
			ref.Indexes = append(ref.Indexes, idx[1])
		}
	}
	return ref, nil
}

// MustParseVarRef is like ParseVarRef but panics on malformed input.
func MustParseVarRef(text string) VarRef {
	ref, err := ParseVarRef(text)
	if err != nil {
		panic(err)
	}
	return ref
}

func (r VarRef) String() string {
	if len(r.Indexes) == 0 {
		return r.Name
	}
	var sb strings.Builder
	sb.WriteString(r.Name)
	for _, idx := range r.Indexes {
		sb.WriteByte('[')
		sb.WriteString(idx)
		sb.WriteByte(']')
	}
	return sb.String()
}
