package codetmpl

import (
	"errors"
	"fmt"
	"os"
)

// Template is a parsed template. It is immutable and safe to resolve from
// multiple goroutines at once.
type Template struct {
	path   string
	indent string
	root   *CompositeBlock
}

func newTemplate(path, indent string) *Template {
	return &Template{
		path:   path,
		indent: indent,
		root:   newCompositeBlock(0),
	}
}

// Path returns the path the template was parsed from, or InlinePath
func (t *Template) Path() string { return t.path }

// Blocks returns the top level blocks
func (t *Template) Blocks() []Block { return t.root.Children() }

// Resolve renders the template with the given value set
func (t *Template) Resolve(data TemplateData) (string, error) {
	return t.ResolveValues(NewValues(data))
}

// ResolveValues renders the template against a prepared value chain. A
// template whose every block is omitted resolves to the empty string.
func (t *Template) ResolveValues(values *Values) (string, error) {
	text, _, err := t.root.Resolve(values)
	if err != nil {
		return "", t.resolutionError(err, values)
	}
	return text, nil
}

// resolutionError fills in the template path and value set of a failure
// raised while resolving.
func (t *Template) resolutionError(err error, values *Values) error {
	var re *ResolutionError
	if errors.As(err, &re) {
		out := *re
		out.Path = t.path
		out.Values = values.Data()
		return &out
	}
	return &ResolutionError{Path: t.path, Values: values.Data(), Cause: err}
}

func (t *Template) String() string {
	return fmt.Sprintf("Template(%s)%s", t.path, t.root)
}

// Parse parses template text with the default parser settings
func Parse(text string) (*Template, error) {
	return NewParser().Parse(text)
}

// ParseFile reads and parses a template file
func ParseFile(path string, opts ...ParserOption) (*Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &TemplateNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return NewParser(opts...).ParseNamed(path, string(content))
}

// Indent returns the indentation unit the template was parsed with
func (t *Template) Indent() string { return t.indent }
