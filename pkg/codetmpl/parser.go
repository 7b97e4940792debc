package codetmpl

import (
	"regexp"
	"strings"
	"time"
)

// directiveType identifies what a template line does
type directiveType int

const (
	directiveLiteral directiveType = iota
	directiveIf
	directiveElseIf
	directiveElse
	directiveSwitch
	directiveCase
	directiveDefault
	directiveEach
	directiveClose
)

func (d directiveType) String() string {
	switch d {
	case directiveIf:
		return "if"
	case directiveElseIf:
		return "elseif"
	case directiveElse:
		return "else"
	case directiveSwitch:
		return "switch"
	case directiveCase:
		return "case"
	case directiveDefault:
		return "default"
	case directiveEach:
		return "each"
	case directiveClose:
		return "close"
	default:
		return "literal"
	}
}

// directivePatterns are tried in order; the first match wins
var directivePatterns = []struct {
	typ directiveType
	re  *regexp.Regexp
}{
	{directiveIf, regexp.MustCompile(`^\s*#\{\s*if\s+(.+)$`)},
	{directiveElseIf, regexp.MustCompile(`^\s*#\}?\{\s*elseif\s+(.+)$`)},
	{directiveElse, regexp.MustCompile(`^\s*#\}?\{\s*else\s*$`)},
	{directiveSwitch, regexp.MustCompile(`^\s*#\{\s*switch\s+(.+)$`)},
	{directiveCase, regexp.MustCompile(`^\s*#\|\s*case\s+(.+)$`)},
	{directiveDefault, regexp.MustCompile(`^\s*#\|\s*default\s*$`)},
	{directiveEach, regexp.MustCompile(`^\s*#\{\s*each\s+(.+)$`)},
	{directiveClose, regexp.MustCompile(`^\s*#\}\s*$`)},
}

var eachRegex = regexp.MustCompile(`^(\S+)\s+(?i:as)\s+([A-Za-z0-9_-]+)(?:\s+([A-Za-z0-9_-]+))?$`)

// directive is a classified template line
type directive struct {
	typ directiveType
	arg string
}

func classifyLine(line string) directive {
	for _, p := range directivePatterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			d := directive{typ: p.typ}
			if len(m) > 1 {
				d.arg = strings.TrimSpace(m[1])
			}
			return d
		}
	}
	return directive{typ: directiveLiteral}
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithIndent sets the string that makes up one level of indentation, both
// when reading template lines and when writing output.
func WithIndent(unit string) ParserOption {
	return func(p *Parser) {
		p.indent = unit
	}
}

// WithPath sets the path reported in errors for templates parsed from text
func WithPath(path string) ParserOption {
	return func(p *Parser) {
		p.path = path
	}
}

// Parser builds block trees from template text. A Parser holds no state
// between calls and may be shared.
type Parser struct {
	indent string
	path   string
}

// NewParser creates a parser
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		indent: DefaultIndent,
		path:   InlinePath,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses template text
func (p *Parser) Parse(text string) (*Template, error) {
	return p.ParseNamed(p.path, text)
}

// ParseNamed parses template text, reporting path in errors
func (p *Parser) ParseNamed(path, text string) (*Template, error) {
	start := time.Now()
	if path == "" {
		path = InlinePath
	}

	st := &parseState{
		parser: p,
		path:   path,
		lines:  strings.Split(text, "\n"),
		tmpl:   newTemplate(path, p.indent),
	}
	st.stack = []container{st.tmpl.root}

	for i, raw := range st.lines {
		raw = strings.TrimSuffix(raw, "\r")
		if err := st.parseLine(raw, i+1); err != nil {
			return nil, NewParseError(path, i+1, raw, err)
		}
	}

	if len(st.stack) > 1 {
		open := st.stack[len(st.stack)-1]
		return nil, NewParseError(path, open.LineNum(), st.lineText(open.LineNum()), ErrUnclosedBlock)
	}

	logger := GetLogger()
	logger.Debug().
		Str("path", path).
		Int("lines", len(st.lines)).
		Int("blocks", len(st.tmpl.root.children)).
		Dur("duration", time.Since(start)).
		Msg("template parsed")

	return st.tmpl, nil
}

// parseState is the working state of one parse
type parseState struct {
	parser  *Parser
	path    string
	lines   []string
	tmpl    *Template
	stack   []container
	literal *LiteralBlock
}

func (st *parseState) top() container {
	return st.stack[len(st.stack)-1]
}

func (st *parseState) push(c container) {
	st.stack = append(st.stack, c)
}

func (st *parseState) lineText(lineNum int) string {
	if lineNum < 1 || lineNum > len(st.lines) {
		return ""
	}
	return strings.TrimSuffix(st.lines[lineNum-1], "\r")
}

// open adds a new block to the current container and makes it the target
// for following lines.
func (st *parseState) open(c container) error {
	if err := st.top().add(c); err != nil {
		return err
	}
	st.push(c)
	return nil
}

func (st *parseState) parseLine(raw string, lineNum int) error {
	d := classifyLine(raw)
	if d.typ == directiveLiteral {
		return st.addLiteral(raw, lineNum)
	}
	st.literal = nil

	switch d.typ {
	case directiveIf:
		expr, err := ParseExpression(d.arg)
		if err != nil {
			return err
		}
		return st.open(newConditionalBlock(expr, lineNum))

	case directiveElseIf, directiveElse:
		var expr *Expression
		if d.typ == directiveElseIf {
			var err error
			if expr, err = ParseExpression(d.arg); err != nil {
				return err
			}
		}
		return st.chainClause(newConditionalBlock(expr, lineNum))

	case directiveSwitch:
		subject, err := ParseVarRef(d.arg)
		if err != nil {
			return err
		}
		return st.open(newSwitchBlock(subject, lineNum))

	case directiveCase:
		sw, ok := st.top().(*SwitchBlock)
		if !ok {
			return ErrUnexpectedCase
		}
		return sw.addCase(d.arg, lineNum)

	case directiveDefault:
		sw, ok := st.top().(*SwitchBlock)
		if !ok {
			return ErrUnexpectedDefault
		}
		return sw.setDefault(lineNum)

	case directiveEach:
		each, err := parseEach(d.arg, lineNum, raw)
		if err != nil {
			return err
		}
		return st.open(each)

	case directiveClose:
		if len(st.stack) == 1 {
			return ErrUnexpectedClose
		}
		st.stack = st.stack[:len(st.stack)-1]
	}
	return nil
}

// chainClause attaches an elseif/else clause to the open conditional and
// replaces it on the stack.
func (st *parseState) chainClause(clause *ConditionalBlock) error {
	if len(st.stack) == 1 {
		return ErrUnexpectedElse
	}
	prev, ok := st.top().(*ConditionalBlock)
	if !ok {
		return ErrUnexpectedElse
	}
	if prev.IsElse() {
		return ErrClauseAfterElse
	}
	prev.Next = clause
	st.stack[len(st.stack)-1] = clause
	return nil
}

func (st *parseState) addLiteral(raw string, lineNum int) error {
	if sw, ok := st.top().(*SwitchBlock); ok && !sw.hasCases() {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		return ErrCodeBeforeCase
	}

	if st.literal == nil {
		block := newLiteralBlock(lineNum)
		if err := st.top().add(block); err != nil {
			return err
		}
		st.literal = block
	}

	unit := st.parser.indent
	level := countIndent(raw, unit) - (len(st.stack) - 1)
	st.literal.addLine(newLine(raw, lineNum, unit, level))
	return nil
}

func parseEach(arg string, lineNum int, raw string) (*EachBlock, error) {
	m := eachRegex.FindStringSubmatch(arg)
	if m == nil {
		return nil, ErrMalformedEach
	}
	source, err := ParseVarRef(m[1])
	if err != nil {
		return nil, err
	}
	return newEachBlock(source, m[2], m[3], lineNum, raw), nil
}

// countIndent counts the leading indentation units of a raw line
func countIndent(line, unit string) int {
	if unit == "" {
		return 0
	}
	n := 0
	for strings.HasPrefix(line, unit) {
		line = line[len(unit):]
		n++
	}
	return n
}
