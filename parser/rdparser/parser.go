// Copyright © 2024 The TLISP authors

package rdparser

import (
	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/token"
)

// Parser error messages.  Every structural error is embedded in the parsed
// result as an LError with code lisp.CodeSyntax.
const (
	msgUnexpectedBracket = "Parser Error: Unexpected bracket encountered"
	msgUnexpectedEOF     = "Parser Error: Unexpected EOF encountered"
	msgUnmatchedParen    = "Parser Error: Unmatched Parenthesis"
)

// Parse parses toks and returns one value per top-level form.  Parse never
// fails.  Malformed structure produces LError values in the result.
func Parse(toks []*token.Token) []*lisp.LVal {
	return New(toks).ParseProgram()
}

// Parser is a recursive descent parser with a cursor into a token slice.
type Parser struct {
	toks []*token.Token
	pos  int
	eof  *token.Token
}

// New initializes and returns a new Parser that reads toks.  The slice is
// normally terminated by a token.EOF token, but running off its end is
// treated the same as reading one.
func New(toks []*token.Token) *Parser {
	eof := &token.Token{Type: token.EOF}
	if n := len(toks); n > 0 {
		eof.Source = toks[n-1].Source
	}
	return &Parser{
		toks: toks,
		eof:  eof,
	}
}

// ParseProgram parses expressions until the end of the token stream.
func (p *Parser) ParseProgram() []*lisp.LVal {
	exprs := []*lisp.LVal{}
	for p.PeekType() != token.EOF {
		exprs = append(exprs, p.ParseExpression())
	}
	return exprs
}

// ParseExpression parses a single expression.  Unlike ParseProgram,
// ParseExpression requires an expression to be present and reports an
// unexpected EOF as an error value.
func (p *Parser) ParseExpression() *lisp.LVal {
	return p.parseExpression()(p)
}

func (p *Parser) parseExpression() func(p *Parser) *lisp.LVal {
	switch typ := p.PeekType(); {
	case typ == token.PAREN_L:
		return (*Parser).ParseList
	case typ.IsBracket():
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf(msgUnexpectedBracket)
		}
	default:
		return (*Parser).ParseAtom
	}
}

// ParseAtom parses a literal.  Identifiers, keys and reserved words all
// become atoms.
func (p *Parser) ParseAtom() *lisp.LVal {
	tok := p.ReadToken()
	switch tok.Type {
	case token.IDENT, token.KEY, token.RESERVED:
		return p.tokenLVal(lisp.Atom(tok.Text))
	case token.NUMBER:
		return p.tokenLVal(lisp.Num(tok.Num))
	case token.STRING:
		return p.tokenLVal(lisp.String(tok.Text))
	case token.EOF:
		return p.errorf(msgUnexpectedEOF)
	default:
		if tok.Type.IsBracket() {
			return p.errorf(msgUnexpectedBracket)
		}
		return p.errorf("Parser Error: Unexpected token %v", tok)
	}
}

// ParseList parses a parenthesized list.  Any closing bracket ends the list.
// When the token stream ends first the list is returned with an unmatched
// parenthesis error as its final element.
func (p *Parser) ParseList() *lisp.LVal {
	if p.PeekType() != token.PAREN_L {
		p.ReadToken()
		return p.errorf("Parser Error: Expected list")
	}
	open := p.ReadToken()
	lst := lisp.List()
	lst.Source = open.Source
	for {
		typ := p.PeekType()
		switch {
		case typ == token.EOF:
			p.ReadToken()
			lst.Cells = append(lst.Cells, p.errorf(msgUnmatchedParen))
			return lst
		case typ.IsClose():
			p.ReadToken()
			return lst
		default:
			lst.Cells = append(lst.Cells, p.ParseExpression())
		}
	}
}

// Peek returns the next token without consuming it.
func (p *Parser) Peek() *token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.eof
}

// PeekType returns the type of the next token.
func (p *Parser) PeekType() token.Type {
	return p.Peek().Type
}

// ReadToken consumes the next token and returns it.  Once the stream is
// exhausted ReadToken keeps returning an EOF token.
func (p *Parser) ReadToken() *token.Token {
	tok := p.Peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

// Token returns the most recently consumed token.
func (p *Parser) Token() *token.Token {
	if p.pos == 0 {
		return nil
	}
	return p.toks[p.pos-1]
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	if tok := p.Token(); tok != nil {
		v.Source = tok.Source
	}
	return v
}

func (p *Parser) errorf(format string, v ...interface{}) *lisp.LVal {
	lerr := lisp.Errorf(lisp.CodeSyntax, format, v...)
	if tok := p.Token(); tok != nil {
		lerr.Source = tok.Source
	} else {
		lerr.Source = p.eof.Source
	}
	return lerr
}
