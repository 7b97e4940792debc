package codetmpl

import (
	"errors"
	"fmt"
	"strings"
)

// InlinePath is the template path reported for templates parsed from memory.
const InlinePath = "<inline>"

// Structural errors detected while parsing a template. They are always
// returned wrapped in a *ParseError.
var (
	ErrUnclosedBlock     = errors.New("unclosed template block")
	ErrUnexpectedCase    = errors.New("case statements must appear within a switch block")
	ErrUnexpectedDefault = errors.New("default statements must appear within a switch block")
	ErrCaseAfterDefault  = errors.New("default case must be the last switch case")
	ErrDefaultFirst      = errors.New("default case cannot be the first switch case")
	ErrCodeBeforeCase    = errors.New("code cannot appear inside a switch before the first case statement")
	ErrUnexpectedElse    = errors.New("elseif and else must follow an if or elseif clause")
	ErrClauseAfterElse   = errors.New("else must be the last clause of a conditional")
	ErrUnexpectedClose   = errors.New("block close without an open block")
	ErrMalformedEach     = errors.New("each must be of the form: <name> as <alias> [<status>]")
	ErrInvalidVarRef     = errors.New("invalid variable name")
)

// ParseError represents a structural error found while parsing a template.
type ParseError struct {
	Path  string
	Line  int
	Text  string
	Cause error
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = InlinePath
	}
	if e.Text != "" {
		return fmt.Sprintf("error parsing %s at line %d (%q): %v", path, e.Line, e.Text, e.Cause)
	}
	return fmt.Sprintf("error parsing %s at line %d: %v", path, e.Line, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error with position information
func NewParseError(path string, line int, text string, cause error) error {
	return &ParseError{
		Path:  path,
		Line:  line,
		Text:  strings.TrimSpace(text),
		Cause: cause,
	}
}

// ResolutionError represents an error raised while resolving a parsed
// template against a value set.
type ResolutionError struct {
	Path   string
	Line   int
	Text   string
	Values TemplateData
	Cause  error
}

func (e *ResolutionError) Error() string {
	path := e.Path
	if path == "" {
		path = InlinePath
	}
	if e.Text != "" {
		return fmt.Sprintf("error resolving %s at line %d (%q): %v", path, e.Line, e.Text, e.Cause)
	}
	return fmt.Sprintf("error resolving %s at line %d: %v", path, e.Line, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// atLine attaches a source line number and its text to a resolution failure.
// Errors that already carry a line are returned unchanged so the innermost
// position wins.
func atLine(err error, line int, text string) error {
	if err == nil {
		return nil
	}
	var re *ResolutionError
	if errors.As(err, &re) {
		return err
	}
	return &ResolutionError{Line: line, Text: strings.TrimSpace(text), Cause: err}
}

// UndefinedValueError is returned when a required value is absent from the
// value set.
type UndefinedValueError struct {
	Name string
}

func (e *UndefinedValueError) Error() string {
	return fmt.Sprintf("substitution value for %s is not defined", e.Name)
}

// NewUndefinedValueError creates a new undefined value error
func NewUndefinedValueError(name string) error {
	return &UndefinedValueError{Name: name}
}

// InvalidTypeError is returned when a value is present but has the wrong shape.
type InvalidTypeError struct {
	Name     string
	Expected string
	Actual   interface{}
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("substitution value for %s must be of type %s, got %T", e.Name, e.Expected, e.Actual)
}

// NewInvalidTypeError creates a new invalid type error
func NewInvalidTypeError(name, expected string, actual interface{}) error {
	return &InvalidTypeError{
		Name:     name,
		Expected: expected,
		Actual:   actual,
	}
}

// ExpressionError represents a malformed conditional expression
type ExpressionError struct {
	Expression string
	Position   int
	Message    string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("invalid conditional expression %q at position %d: %s", e.Expression, e.Position, e.Message)
}

// NewExpressionError creates a new expression error
func NewExpressionError(expression string, position int, message string) error {
	return &ExpressionError{
		Expression: expression,
		Position:   position,
		Message:    message,
	}
}

// VarRefError represents a variable name that could not be parsed
type VarRefError struct {
	Text string
}

func (e *VarRefError) Error() string {
	return fmt.Sprintf("%v: %q", ErrInvalidVarRef, e.Text)
}

func (e *VarRefError) Unwrap() error {
	return ErrInvalidVarRef
}

// TemplateNotFoundError is returned when a template file does not exist
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("unable to load template: %s does not exist", e.Path)
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Errors returns the collected errors
func (m *MultiError) Errors() []error {
	return m.errors
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}

	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsResolutionError checks if an error is a resolution error
func IsResolutionError(err error) bool {
	var target *ResolutionError
	return errors.As(err, &target)
}

// IsUndefinedValue checks if an error was caused by an undefined value
func IsUndefinedValue(err error) bool {
	var target *UndefinedValueError
	return errors.As(err, &target)
}

// IsInvalidType checks if an error was caused by a value of the wrong type
func IsInvalidType(err error) bool {
	var target *InvalidTypeError
	return errors.As(err, &target)
}

// IsExpressionError checks if an error is a conditional expression error
func IsExpressionError(err error) bool {
	var target *ExpressionError
	return errors.As(err, &target)
}
