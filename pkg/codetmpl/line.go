package codetmpl

import (
	"strings"
)

// DefaultIndent is the indentation unit used when none is configured
const DefaultIndent = "  "

// Line is one literal output line of a template
type Line struct {
	text    string
	lineNum int
	level   int
	unit    string
	tags    []Substitution
}

// NewLine creates a line from its source text. The text is trimmed and its
// tags are parsed immediately.
func NewLine(text string, lineNum int) *Line {
	return newLine(text, lineNum, DefaultIndent, 0)
}

func newLine(text string, lineNum int, unit string, level int) *Line {
	if level < 0 {
		level = 0
	}
	l := &Line{
		text:    strings.TrimSpace(text),
		lineNum: lineNum,
		level:   level,
		unit:    unit,
	}
	l.tags = ParseTags(l.text, l.prefix())
	return l
}

// SetIndent sets the number of indent units the line is prefixed with.
// Negative levels are treated as 0.
func (l *Line) SetIndent(level int) {
	if level < 0 {
		level = 0
	}
	l.level = level
	l.tags = ParseTags(l.text, l.prefix())
}

// Indent returns the line's indentation level
func (l *Line) Indent() int { return l.level }

// LineNum returns the source line number
func (l *Line) LineNum() int { return l.lineNum }

// Text returns the trimmed source text
func (l *Line) Text() string { return l.text }

// Tags returns the substitutions found in the line
func (l *Line) Tags() []Substitution { return l.tags }

func (l *Line) prefix() string {
	return strings.Repeat(l.unit, l.level)
}

// Resolve substitutes every tag and prefixes the indentation. Empty lines are
// returned without a prefix.
func (l *Line) Resolve(values *Values) (string, error) {
	if l.text == "" {
		return "", nil
	}

	out := l.text
	if len(l.tags) > 0 {
		pairs := make([]string, 0, len(l.tags)*2)
		for _, tag := range l.tags {
			val, err := tag.Value(values)
			if err != nil {
				return "", atLine(err, l.lineNum, l.text)
			}
			pairs = append(pairs, tag.Key(), val)
		}
		out = strings.NewReplacer(pairs...).Replace(out)
	}
	return l.prefix() + out, nil
}

func (l *Line) String() string {
	return l.prefix() + l.text
}
