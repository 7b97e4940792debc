package codetmpl

import (
	"fmt"
	"strings"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

// Block is a node of a parsed template. Resolve reports emitted == false
// when the block contributes nothing to the output, not even a blank line.
type Block interface {
	Resolve(values *Values) (text string, emitted bool, err error)
	LineNum() int
	String() string
}

// container is a block that accepts child blocks while a template is parsed
type container interface {
	Block
	add(b Block) error
}

// LiteralBlock is a run of consecutive literal lines
type LiteralBlock struct {
	lineNum int
	lines   []*Line
}

func newLiteralBlock(lineNum int) *LiteralBlock {
	return &LiteralBlock{lineNum: lineNum}
}

func (b *LiteralBlock) addLine(l *Line) {
	b.lines = append(b.lines, l)
}

// Lines returns the lines of the block
func (b *LiteralBlock) Lines() []*Line { return b.lines }

func (b *LiteralBlock) LineNum() int { return b.lineNum }

func (b *LiteralBlock) Resolve(values *Values) (string, bool, error) {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		text, err := l.Resolve(values)
		if err != nil {
			return "", false, err
		}
		out[i] = text
	}
	return strings.Join(out, "\n"), true, nil
}

func (b *LiteralBlock) String() string {
	return fmt.Sprintf("Literal(line %d, %d lines)", b.lineNum, len(b.lines))
}

// CompositeBlock is an ordered sequence of child blocks
type CompositeBlock struct {
	lineNum  int
	children []Block
}

func newCompositeBlock(lineNum int) *CompositeBlock {
	return &CompositeBlock{lineNum: lineNum}
}

func (b *CompositeBlock) add(child Block) error {
	b.children = append(b.children, child)
	return nil
}

// Children returns the child blocks in order
func (b *CompositeBlock) Children() []Block { return b.children }

func (b *CompositeBlock) LineNum() int { return b.lineNum }

// Resolve joins the output of every emitted child with newlines. The block
// is omitted when no child is emitted.
func (b *CompositeBlock) Resolve(values *Values) (string, bool, error) {
	var out []string
	for _, child := range b.children {
		text, emitted, err := child.Resolve(values)
		if err != nil {
			return "", false, err
		}
		if emitted {
			out = append(out, text)
		}
	}
	if len(out) == 0 {
		return "", false, nil
	}
	return strings.Join(out, "\n"), true, nil
}

func (b *CompositeBlock) String() string {
	parts := make([]string, len(b.children))
	for i, child := range b.children {
		parts[i] = child.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ConditionalBlock is one clause of an if/elseif/else chain. A nil
// Expression marks the unconditional else clause.
type ConditionalBlock struct {
	lineNum    int
	Expression *Expression
	Body       *CompositeBlock
	Next       *ConditionalBlock
}

func newConditionalBlock(expr *Expression, lineNum int) *ConditionalBlock {
	return &ConditionalBlock{
		lineNum:    lineNum,
		Expression: expr,
		Body:       newCompositeBlock(lineNum),
	}
}

func (b *ConditionalBlock) add(child Block) error {
	return b.Body.add(child)
}

// IsElse reports whether this is the unconditional clause of its chain
func (b *ConditionalBlock) IsElse() bool {
	return b.Expression == nil
}

func (b *ConditionalBlock) LineNum() int { return b.lineNum }

// Resolve resolves the body of the first satisfied clause in the chain
func (b *ConditionalBlock) Resolve(values *Values) (string, bool, error) {
	for clause := b; clause != nil; clause = clause.Next {
		if clause.Expression == nil || clause.Expression.IsSatisfiedBy(values) {
			return clause.Body.Resolve(values)
		}
	}
	return "", false, nil
}

func (b *ConditionalBlock) String() string {
	var parts []string
	for clause := b; clause != nil; clause = clause.Next {
		if clause.Expression == nil {
			parts = append(parts, "Else"+clause.Body.String())
		} else {
			parts = append(parts, fmt.Sprintf("If(%s)%s", clause.Expression, clause.Body))
		}
	}
	return strings.Join(parts, " ")
}

// Loop status keys bound under an each block's status name
const (
	StatusIndex   = "index"
	StatusFirst   = "first"
	StatusLast    = "last"
	StatusHasNext = "has_next"
)

// EachBlock repeats its body for every element of a sequence
type EachBlock struct {
	lineNum int
	text    string
	Source  VarRef
	Alias   string
	Status  string
	Body    *CompositeBlock
}

func newEachBlock(source VarRef, alias, status string, lineNum int, text string) *EachBlock {
	return &EachBlock{
		lineNum: lineNum,
		text:    strings.TrimSpace(text),
		Source:  source,
		Alias:   alias,
		Status:  status,
		Body:    newCompositeBlock(lineNum),
	}
}

func (b *EachBlock) add(child Block) error {
	return b.Body.add(child)
}

func (b *EachBlock) LineNum() int { return b.lineNum }

// Resolve binds the alias (and status) for each element through the value
// chain, so concurrent resolves never share loop state.
func (b *EachBlock) Resolve(values *Values) (string, bool, error) {
	val, ok := values.Resolve(b.Source)
	if !ok {
		return "", false, atLine(NewUndefinedValueError(b.Source.String()), b.lineNum, b.text)
	}

	items, isSeq := toSlice(val)
	if !isSeq {
		return "", false, atLine(NewInvalidTypeError(b.Source.String(), "array", val), b.lineNum, b.text)
	}
	if len(items) == 0 {
		return "", false, nil
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		scope := values.With(b.Alias, item)
		if b.Status != "" {
			scope = scope.With(b.Status, loopStatus(i, len(items)))
		}

		text, emitted, err := b.Body.Resolve(scope)
		if err != nil {
			return "", false, atLine(err, b.lineNum, b.text)
		}
		if emitted {
			out = append(out, text)
		}
	}
	if len(out) == 0 {
		return "", false, nil
	}
	return strings.Join(out, "\n"), true, nil
}

func loopStatus(i, n int) *data.Map {
	status := data.NewMap()
	status.Set(StatusIndex, i)
	status.Set(StatusFirst, i == 0)
	status.Set(StatusLast, i == n-1)
	status.Set(StatusHasNext, i < n-1)
	return status
}

func (b *EachBlock) String() string {
	if b.Status != "" {
		return fmt.Sprintf("Each(%s as %s %s)%s", b.Source, b.Alias, b.Status, b.Body)
	}
	return fmt.Sprintf("Each(%s as %s)%s", b.Source, b.Alias, b.Body)
}

// SwitchBlock compares a subject against a chain of cases. Cases are stored
// as a conditional chain ending in the optional default clause.
type SwitchBlock struct {
	lineNum int
	Subject VarRef
	head    *ConditionalBlock
	tail    *ConditionalBlock
	dflt    bool
}

func newSwitchBlock(subject VarRef, lineNum int) *SwitchBlock {
	return &SwitchBlock{lineNum: lineNum, Subject: subject}
}

func (b *SwitchBlock) add(child Block) error {
	if b.tail == nil {
		return ErrCodeBeforeCase
	}
	return b.tail.add(child)
}

func (b *SwitchBlock) addCase(text string, lineNum int) error {
	if b.dflt {
		return ErrCaseAfterDefault
	}
	expr, err := caseExpression(b.Subject, text)
	if err != nil {
		return err
	}
	b.link(newConditionalBlock(expr, lineNum))
	return nil
}

func (b *SwitchBlock) setDefault(lineNum int) error {
	if b.head == nil {
		return ErrDefaultFirst
	}
	if b.dflt {
		return ErrCaseAfterDefault
	}
	b.link(newConditionalBlock(nil, lineNum))
	b.dflt = true
	return nil
}

func (b *SwitchBlock) link(clause *ConditionalBlock) {
	if b.head == nil {
		b.head = clause
	} else {
		b.tail.Next = clause
	}
	b.tail = clause
}

// Cases returns the head of the case chain, nil when there are no cases
func (b *SwitchBlock) Cases() *ConditionalBlock { return b.head }

func (b *SwitchBlock) hasCases() bool { return b.head != nil }

func (b *SwitchBlock) LineNum() int { return b.lineNum }

func (b *SwitchBlock) Resolve(values *Values) (string, bool, error) {
	if b.head == nil {
		return "", false, nil
	}
	return b.head.Resolve(values)
}

func (b *SwitchBlock) String() string {
	if b.head == nil {
		return fmt.Sprintf("Switch(%s)", b.Subject)
	}
	return fmt.Sprintf("Switch(%s) %s", b.Subject, b.head)
}
