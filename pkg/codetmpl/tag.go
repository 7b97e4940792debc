package codetmpl

import (
	"regexp"
	"strings"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
	"github.com/pgraham/codetmpl/pkg/codetmpl/literal"
)

var (
	// tagRegex matches a substitution tag span; the # before */ is optional
	tagRegex = regexp.MustCompile(`/\*#\s*(.+?)\s*#?\*/`)

	joinBodyRegex   = regexp.MustCompile(`^join(-php)?:([^:\s]+):(.+)$`)
	filterBodyRegex = regexp.MustCompile(`^(json|xml|php):(\S+)$`)

	xmlEscapeRegex = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);|[&<>'"]`)
)

// Substitution is a tag found in a template line. Key is the exact source
// span the tag occupies; Value produces its replacement text.
type Substitution interface {
	Key() string
	Value(values *Values) (string, error)
}

// TagSubstitution inserts a value as text: /*# name */
type TagSubstitution struct {
	key string
	ref VarRef
}

func (s *TagSubstitution) Key() string { return s.key }

func (s *TagSubstitution) Value(values *Values) (string, error) {
	val, ok := values.Resolve(s.ref)
	if !ok {
		return "", NewUndefinedValueError(s.ref.String())
	}
	return FormatValue(val), nil
}

// JoinSubstitution concatenates the elements of a sequence with a glue
// string: /*# join:name:glue */. With Export set (join-php) every element is
// rendered as a source literal first. An undefined or nil value joins to the
// empty string.
type JoinSubstitution struct {
	key    string
	ref    VarRef
	glue   string
	Export bool
}

func (s *JoinSubstitution) Key() string { return s.key }

func (s *JoinSubstitution) Value(values *Values) (string, error) {
	val, ok := values.Resolve(s.ref)
	if !ok || val == nil {
		return "", nil
	}

	items, isSeq := toSlice(val)
	if !isSeq {
		return "", NewInvalidTypeError(s.ref.String(), "array", val)
	}

	parts := make([]string, len(items))
	for i, item := range items {
		if s.Export {
			parts[i] = literal.Export(item)
		} else {
			parts[i] = FormatValue(item)
		}
	}
	return strings.Join(parts, s.glue), nil
}

// JSONSubstitution inserts a value encoded as JSON: /*# json:name */
type JSONSubstitution struct {
	key string
	ref VarRef
}

func (s *JSONSubstitution) Key() string { return s.key }

func (s *JSONSubstitution) Value(values *Values) (string, error) {
	val, ok := values.Resolve(s.ref)
	if !ok {
		return "", NewUndefinedValueError(s.ref.String())
	}
	out, err := data.MarshalJSON(val)
	if err != nil {
		return "", NewInvalidTypeError(s.ref.String(), "json encodable value", val)
	}
	return string(out), nil
}

// XMLSubstitution inserts a value with XML special characters escaped:
// /*# xml:name */
type XMLSubstitution struct {
	key string
	ref VarRef
}

func (s *XMLSubstitution) Key() string { return s.key }

func (s *XMLSubstitution) Value(values *Values) (string, error) {
	val, ok := values.Resolve(s.ref)
	if !ok {
		return "", NewUndefinedValueError(s.ref.String())
	}
	return EscapeXML(FormatValue(val)), nil
}

// EscapeXML encodes & < > ' and ". Entities already present in s are left
// as they are.
func EscapeXML(s string) string {
	return xmlEscapeRegex.ReplaceAllStringFunc(s, func(m string) string {
		switch m {
		case "&":
			return "&amp;"
		case "<":
			return "&lt;"
		case ">":
			return "&gt;"
		case "'":
			return "&apos;"
		case `"`:
			return "&quot;"
		}
		return m
	})
}

// LiteralSubstitution inserts a value as a source literal: /*# php:name */.
// Multi-line array output continues at the line's indentation.
type LiteralSubstitution struct {
	key    string
	ref    VarRef
	indent string
}

func (s *LiteralSubstitution) Key() string { return s.key }

func (s *LiteralSubstitution) Value(values *Values) (string, error) {
	val, ok := values.Resolve(s.ref)
	if !ok {
		return "", NewUndefinedValueError(s.ref.String())
	}
	return literal.Reindent(literal.Export(val), s.indent), nil
}

// ParseTags finds the substitution tags in a line of text. indent is the
// line's indentation prefix, used by literal substitutions. A tag body that
// is not a valid reference is not a tag and stays literal text. Repeated
// spans are returned once.
func ParseTags(text, indent string) []Substitution {
	var subs []Substitution
	seen := make(map[string]bool)

	for _, m := range tagRegex.FindAllStringSubmatch(text, -1) {
		key, body := m[0], m[1]
		if seen[key] {
			continue
		}
		sub := parseTagBody(key, body, indent)
		if sub == nil {
			continue
		}
		seen[key] = true
		subs = append(subs, sub)
	}
	return subs
}

func parseTagBody(key, body, indent string) Substitution {
	if m := joinBodyRegex.FindStringSubmatch(body); m != nil {
		ref, err := ParseVarRef(m[2])
		if err != nil {
			return nil
		}
		return &JoinSubstitution{key: key, ref: ref, glue: m[3], Export: m[1] != ""}
	}

	if m := filterBodyRegex.FindStringSubmatch(body); m != nil {
		ref, err := ParseVarRef(m[2])
		if err != nil {
			return nil
		}
		switch m[1] {
		case "json":
			return &JSONSubstitution{key: key, ref: ref}
		case "xml":
			return &XMLSubstitution{key: key, ref: ref}
		case "php":
			return &LiteralSubstitution{key: key, ref: ref, indent: indent}
		}
	}

	ref, err := ParseVarRef(body)
	if err != nil {
		return nil
	}
	return &TagSubstitution{key: key, ref: ref}
}
