package codetmpl

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Operator is a comparison operator of a condition
type Operator string

const (
	OpNone     Operator = ""
	OpEq       Operator = "="
	OpNotEq    Operator = "!="
	OpGt       Operator = ">"
	OpGte      Operator = ">="
	OpLt       Operator = "<"
	OpLte      Operator = "<="
	OpIsSet    Operator = "ISSET"
	OpIsNotSet Operator = "ISNOTSET"
)

// Unary reports whether the operator takes no right-hand operand
func (op Operator) Unary() bool {
	return op == OpNone || op == OpIsSet || op == OpIsNotSet
}

// OperandKind distinguishes variable references from literal values
type OperandKind int

const (
	OperandVar OperandKind = iota
	OperandLiteral
)

// Operand is one side of a condition
type Operand struct {
	Kind  OperandKind
	Ref   VarRef
	Value interface{}
}

func (o Operand) resolve(values *Values) (interface{}, bool) {
	if o.Kind == OperandLiteral {
		return o.Value, true
	}
	return values.Resolve(o.Ref)
}

func (o Operand) String() string {
	if o.Kind == OperandVar {
		return o.Ref.String()
	}
	if s, ok := o.Value.(string); ok {
		return "'" + s + "'"
	}
	return FormatValue(o.Value)
}

// Condition is a single comparison. Right is nil for unary operators.
type Condition struct {
	Left  Operand
	Op    Operator
	Right *Operand
}

func (c Condition) String() string {
	switch {
	case c.Op == OpNone:
		return c.Left.String()
	case c.Right == nil:
		return c.Left.String() + " " + string(c.Op)
	default:
		return c.Left.String() + " " + string(c.Op) + " " + c.Right.String()
	}
}

// evaluator decides a condition from its resolved operands. The defined flags
// are false for undefined variables.
type evaluator func(left interface{}, leftDefined bool, right interface{}) bool

var evaluators = map[Operator]evaluator{
	OpNone: func(l interface{}, defined bool, _ interface{}) bool {
		return defined && isTruthy(l)
	},
	OpIsSet: func(l interface{}, defined bool, _ interface{}) bool {
		return defined && l != nil
	},
	OpIsNotSet: func(l interface{}, defined bool, _ interface{}) bool {
		return !defined || l == nil
	},
	OpEq: func(l interface{}, _ bool, r interface{}) bool {
		return strictEqual(l, r)
	},
	OpNotEq: func(l interface{}, _ bool, r interface{}) bool {
		return !strictEqual(l, r)
	},
	OpGt:  ordered(func(c int) bool { return c > 0 }),
	OpGte: ordered(func(c int) bool { return c >= 0 }),
	OpLt:  ordered(func(c int) bool { return c < 0 }),
	OpLte: ordered(func(c int) bool { return c <= 0 }),
}

func ordered(test func(int) bool) evaluator {
	return func(l interface{}, _ bool, r interface{}) bool {
		c, ok := compareOrdered(l, r)
		return ok && test(c)
	}
}

func (c Condition) isSatisfiedBy(values *Values) bool {
	left, defined := c.Left.resolve(values)
	var right interface{}
	if c.Right != nil {
		right, _ = c.Right.resolve(values)
	}
	eval, ok := evaluators[c.Op]
	if !ok {
		return false
	}
	return eval(left, defined, right)
}

// Expression is a parsed conditional in conjunctive normal form: every group
// must hold at least one satisfied condition.
type Expression struct {
	text   string
	groups [][]Condition
}

// ParseExpression parses a conditional expression. "and" closes the current
// OR-group and opens a new one, so "A and B or C" means (A) AND (B OR C).
func ParseExpression(text string) (*Expression, error) {
	tokens, err := tokenizeExpression(text)
	if err != nil {
		return nil, err
	}
	p := &exprParser{text: text, tokens: tokens}
	groups, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Expression{text: strings.TrimSpace(text), groups: groups}, nil
}

// IsSatisfiedBy evaluates the expression against a value set
func (e *Expression) IsSatisfiedBy(values *Values) bool {
	for _, group := range e.groups {
		satisfied := false
		for _, cond := range group {
			if cond.isSatisfiedBy(values) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// Groups returns a copy of the AND-ed OR-groups
func (e *Expression) Groups() [][]Condition {
	out := make([][]Condition, len(e.groups))
	for i, g := range e.groups {
		out[i] = append([]Condition(nil), g...)
	}
	return out
}

// Text returns the source text the expression was parsed from
func (e *Expression) Text() string {
	return e.text
}

// String renders the normalized form, e.g. "a = 1 OR b AND c"
func (e *Expression) String() string {
	groups := make([]string, len(e.groups))
	for i, g := range e.groups {
		conds := make([]string, len(g))
		for j, c := range g {
			conds[j] = c.String()
		}
		groups[i] = strings.Join(conds, " OR ")
	}
	return strings.Join(groups, " AND ")
}

type exprTokenType int

const (
	exprEOF exprTokenType = iota
	exprWord
	exprNumber
	exprString
	exprOperator
	exprAnd
	exprOr
)

type exprToken struct {
	typ   exprTokenType
	text  string
	value interface{}
	pos   int
}

var numberRegex = regexp.MustCompile(`^-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`)

func isOperatorChar(c byte) bool {
	return c == '=' || c == '<' || c == '>' || c == '!'
}

func tokenizeExpression(text string) ([]exprToken, error) {
	var tokens []exprToken
	i := 0
	for i < len(text) {
		c := text[i]
		if unicode.IsSpace(rune(c)) {
			i++
			continue
		}

		switch {
		case isOperatorChar(c):
			start := i
			op := string(c)
			if i+1 < len(text) && text[i+1] == '=' && c != '=' {
				op += "="
			}
			if op == "!" {
				return nil, NewExpressionError(text, start, "unexpected character '!'")
			}
			i += len(op)
			tokens = append(tokens, exprToken{typ: exprOperator, text: op, pos: start})

		case c == '\'' || c == '"':
			end := closingQuote(text, i)
			if end < 0 {
				return nil, NewExpressionError(text, i, "unterminated quoted string")
			}
			if j := embeddedOperator(text, i, end); j >= 0 {
				return nil, NewExpressionError(text, j, "quote followed by an operator inside a quoted string; separate operands and operators with whitespace")
			}
			tokens = append(tokens, exprToken{typ: exprString, text: text[i : end+1], value: text[i+1 : end], pos: i})
			i = end + 1

		default:
			start := i
			for i < len(text) && !unicode.IsSpace(rune(text[i])) && !isOperatorChar(text[i]) {
				i++
			}
			tokens = append(tokens, classifyWord(text[start:i], start))
		}
	}
	tokens = append(tokens, exprToken{typ: exprEOF, pos: len(text)})
	return tokens, nil
}

// closingQuote finds the quote that ends a quoted literal: the first matching
// quote followed by whitespace or the end of input.
func closingQuote(text string, open int) int {
	q := text[open]
	for j := open + 1; j < len(text); j++ {
		if text[j] != q {
			continue
		}
		if j+1 == len(text) || unicode.IsSpace(rune(text[j+1])) {
			return j
		}
	}
	return -1
}

// embeddedOperator returns the position of a quote inside a quoted literal
// that is directly followed by an operator, as in 'a'='a', or -1.
func embeddedOperator(text string, open, end int) int {
	q := text[open]
	for j := open + 1; j < end; j++ {
		if text[j] == q && j+1 < end && isOperatorChar(text[j+1]) {
			return j
		}
	}
	return -1
}

func classifyWord(word string, pos int) exprToken {
	switch word {
	case "and":
		return exprToken{typ: exprAnd, text: word, pos: pos}
	case "or":
		return exprToken{typ: exprOr, text: word, pos: pos}
	case string(OpIsSet), string(OpIsNotSet):
		return exprToken{typ: exprOperator, text: word, pos: pos}
	}
	if numberRegex.MatchString(word) {
		if v, ok := parseNumber(word); ok {
			return exprToken{typ: exprNumber, text: word, value: v, pos: pos}
		}
	}
	return exprToken{typ: exprWord, text: word, pos: pos}
}

// parseNumber stores floats that round-trip through int64 as int64
func parseNumber(word string) (interface{}, bool) {
	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return nil, false
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), true
	}
	return f, true
}

type exprParser struct {
	text   string
	tokens []exprToken
	pos    int
}

func (p *exprParser) peek() exprToken {
	return p.tokens[p.pos]
}

func (p *exprParser) next() exprToken {
	tok := p.tokens[p.pos]
	if tok.typ != exprEOF {
		p.pos++
	}
	return tok
}

func (p *exprParser) errorAt(tok exprToken, format string, args ...interface{}) error {
	return NewExpressionError(p.text, tok.pos, fmt.Sprintf(format, args...))
}

func (p *exprParser) parse() ([][]Condition, error) {
	if p.peek().typ == exprEOF {
		return nil, p.errorAt(p.peek(), "empty expression")
	}

	var groups [][]Condition
	var group []Condition
	for {
		cond, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		group = append(group, cond)

		tok := p.next()
		switch tok.typ {
		case exprEOF:
			return append(groups, group), nil
		case exprAnd:
			groups = append(groups, group)
			group = nil
		case exprOr:
		default:
			return nil, p.errorAt(tok, "unexpected %q, expected and/or", tok.text)
		}
		if p.peek().typ == exprEOF {
			return nil, p.errorAt(p.peek(), "missing condition after %q", tok.text)
		}
	}
}

func (p *exprParser) parseTerm() (Condition, error) {
	left, err := p.parseOperand(false)
	if err != nil {
		return Condition{}, err
	}
	cond := Condition{Left: left}

	if p.peek().typ != exprOperator {
		return cond, nil
	}
	opTok := p.next()
	cond.Op = Operator(opTok.text)
	if cond.Op.Unary() {
		return cond, nil
	}

	right, err := p.parseOperand(true)
	if err != nil {
		return Condition{}, err
	}
	cond.Right = &right
	return cond, nil
}

// parseOperand reads a literal or variable. A bare word on the right of an
// operator is a string literal, on the left it names a variable.
func (p *exprParser) parseOperand(rhs bool) (Operand, error) {
	tok := p.next()
	switch tok.typ {
	case exprNumber, exprString:
		return Operand{Kind: OperandLiteral, Value: tok.value}, nil
	case exprWord:
		if rhs {
			return Operand{Kind: OperandLiteral, Value: tok.text}, nil
		}
		ref, err := ParseVarRef(tok.text)
		if err != nil {
			return Operand{}, p.errorAt(tok, "invalid variable name %q", tok.text)
		}
		return Operand{Kind: OperandVar, Ref: ref}, nil
	case exprEOF:
		return Operand{}, p.errorAt(tok, "missing operand")
	default:
		return Operand{}, p.errorAt(tok, "unexpected %q, expected an operand", tok.text)
	}
}

// caseExpression builds the condition of a switch case: subject compared with
// the case text using its leading operator, or "=" when there is none.
func caseExpression(subject VarRef, text string) (*Expression, error) {
	tokens, err := tokenizeExpression(text)
	if err != nil {
		return nil, err
	}
	if tokens[0].typ == exprOperator {
		return ParseExpression(subject.String() + " " + strings.TrimSpace(text))
	}
	return ParseExpression(subject.String() + " " + string(OpEq) + " " + strings.TrimSpace(text))
}
