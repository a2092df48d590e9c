// parser.go — source text → AST for the Egg language.
//
// Egg has no separate token stream: the parser works directly on a
// remaining-input cursor, trying an ordered set of lexical rules at the
// current position. A program is exactly one expression, which may be an
// arbitrarily nested application such as f(x)(y, g(1)).
//
// The three node shapes are a closed set (Literal, Identifier,
// Application); the evaluator in interpreter.go switches over them
// exhaustively. Nodes record the 1-based line/column where they start so
// runtime errors can point back into the source (see errors.go for the
// caret-snippet rendering).
//
// Errors are reported as *SyntaxError {Line, Col, Msg}. Parsing has no
// side effects; parsing the same text twice yields structurally equal
// trees.
package egg

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError reports malformed source text. Line and Col are 1-based.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SYNTAX ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Expr is the closed set of AST node shapes.
type Expr interface {
	exprNode()
}

// Literal is a quoted-string or decimal-integer token (VTStr or VTInt).
type Literal struct {
	Value Value
	Line  int
	Col   int
}

// Identifier is a bare word: any run of characters excluding whitespace,
// '(', ')', ',', '"' and '#'.
type Identifier struct {
	Name string
	Line int
	Col  int
}

// Application applies an operator expression to zero or more argument
// expressions. The operator may itself be any expression, so chained
// calls like f(x)(y) parse naturally. Line/Col point at the opening '('.
type Application struct {
	Operator Expr
	Args     []Expr
	Line     int
	Col      int
}

func (*Literal) exprNode()     {}
func (*Identifier) exprNode()  {}
func (*Application) exprNode() {}

// Parse reads a single expression from src and verifies nothing but
// whitespace and comments remains after it.
func Parse(src string) (Expr, error) {
	p := &parser{src: src, line: 1, col: 1}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skip()
	if p.pos < len(p.src) {
		return nil, p.errHere("unexpected trailing text")
	}
	return expr, nil
}

/* ---------- cursor ---------- */

type parser struct {
	src  string
	pos  int
	line int // 1-based line of src[pos]
	col  int // 1-based column of src[pos]
}

// advance consumes n bytes, keeping line/col in sync.
func (p *parser) advance(n int) {
	for i := 0; i < n; i++ {
		if p.src[p.pos] == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
		p.pos++
	}
}

func (p *parser) errHere(msg string) *SyntaxError {
	return &SyntaxError{Line: p.line, Col: p.col, Msg: msg}
}

// skip drops runs of whitespace and #-to-end-of-line comments until
// neither applies. Total over all inputs; never fails.
func (p *parser) skip() {
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.advance(1)
		case c == '#':
			n := strings.IndexByte(p.src[p.pos:], '\n')
			if n < 0 {
				n = len(p.src) - p.pos
			}
			p.advance(n)
		default:
			return
		}
	}
}

/* ---------- expressions ---------- */

// parseExpr parses one primary expression at the cursor, then hands it to
// parseApply to pick up any applied-form suffix.
func (p *parser) parseExpr() (Expr, error) {
	p.skip()
	if p.pos >= len(p.src) {
		return nil, p.errHere("unexpected end of input")
	}

	line, col := p.line, p.col
	var expr Expr

	if c := p.src[p.pos]; c == '"' {
		end := strings.IndexByte(p.src[p.pos+1:], '"')
		if end < 0 {
			// An unterminated string matches no lexical rule.
			return nil, p.errHere("unexpected syntax")
		}
		s := p.src[p.pos+1 : p.pos+1+end]
		p.advance(end + 2)
		expr = &Literal{Value: Str(s), Line: line, Col: col}
	} else {
		start := p.pos
		if isDigit(c) {
			for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
				p.advance(1)
			}
			if p.pos >= len(p.src) || !isWordChar(p.src[p.pos]) {
				n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
				if err != nil {
					return nil, &SyntaxError{Line: line, Col: col, Msg: "integer literal out of range"}
				}
				expr = &Literal{Value: Int(n), Line: line, Col: col}
				return p.parseApply(expr)
			}
			// Digits not at a word boundary (e.g. "123abc"): rescan the
			// whole run as a bare word.
			p.pos, p.line, p.col = start, line, col
		}
		for p.pos < len(p.src) && isWordByte(p.src[p.pos]) {
			p.advance(1)
		}
		if p.pos == start {
			return nil, p.errHere("unexpected syntax")
		}
		expr = &Identifier{Name: p.src[start:p.pos], Line: line, Col: col}
	}

	return p.parseApply(expr)
}

// parseApply checks whether expr is followed by an argument list. If not,
// expr is returned untouched; otherwise the resulting Application is
// itself re-offered to parseApply so chained calls associate leftward.
func (p *parser) parseApply(expr Expr) (Expr, error) {
	p.skip()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return expr, nil
	}
	line, col := p.line, p.col
	p.advance(1) // '('
	p.skip()

	var args []Expr
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.advance(1)
	} else {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skip()
			if p.pos >= len(p.src) {
				return nil, p.errHere("expected ',' or ')'")
			}
			if c := p.src[p.pos]; c == ')' {
				p.advance(1)
				break
			} else if c == ',' {
				p.advance(1)
			} else {
				return nil, p.errHere("expected ',' or ')'")
			}
		}
	}
	return p.parseApply(&Application{Operator: expr, Args: args, Line: line, Col: col})
}

/* ---------- character classes ---------- */

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isWordChar mirrors a \b word boundary: digits keep forming a number
// only when the next byte is not one of these.
func isWordChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// isWordByte admits everything a bare word may contain.
func isWordByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', ',', '"', '#':
		return false
	}
	return true
}
