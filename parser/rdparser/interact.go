// Copyright © 2024 The TLISP authors

package rdparser

import (
	"strings"

	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/lexer"
	"github.com/tlisp-lang/tlisp/parser/token"
)

// Interactive implements a parser that accumulates source a line at a time
// and only parses once the buffered text forms complete expressions.
type Interactive struct {
	name       string
	prompt     string
	promptCont string
	buf        strings.Builder
}

// NewInteractive initializes and returns a new Interactive parser.  The name
// is used in source locations.
func NewInteractive(name string) *Interactive {
	return &Interactive{
		name: name,
	}
}

// SetPrompts configures the string prompts returned by p.Prompt().  The cont
// string is used to prompt the user when the parser is in the middle of
// parsing an expression at the start of a line.
func (p *Interactive) SetPrompts(prompt, cont string) {
	p.prompt = prompt
	p.promptCont = cont
}

// Prompt returns the prompt for the next line of input.
func (p *Interactive) Prompt() string {
	if p.IsParsing() {
		return p.promptCont
	}
	return p.prompt
}

// IsParsing returns true if p holds the beginning of an unfinished
// expression.  IsParsing may be called when p is nil.
func (p *Interactive) IsParsing() bool {
	if p == nil {
		return false
	}
	return p.buf.Len() > 0
}

// Reset discards any buffered source.
func (p *Interactive) Reset() {
	p.buf.Reset()
}

// Feed adds a line of source.  When the buffered source contains only
// complete expressions they are parsed and returned with done set, and the
// buffer is cleared.  Otherwise Feed returns done false and waits for more
// input.  A lexical error clears the buffer so corrected source can be
// entered.
func (p *Interactive) Feed(line string) (exprs []*lisp.LVal, done bool, err error) {
	if p.buf.Len() > 0 {
		p.buf.WriteString("\n")
	}
	p.buf.WriteString(line)
	lex := lexer.New(p.name, p.buf.String())
	toks, err := lex.Run()
	if err != nil {
		p.buf.Reset()
		return nil, true, err
	}
	if lex.Unterminated() || Depth(toks) > 0 {
		return nil, false, nil
	}
	p.buf.Reset()
	return Parse(lexer.Substitute(toks)), true, nil
}

// Depth returns the number of parenthesized lists left open at the end of
// toks.  Any closing bracket closes the innermost open list.
func Depth(toks []*token.Token) int {
	depth := 0
	for _, tok := range toks {
		switch {
		case tok.Type == token.PAREN_L:
			depth++
		case tok.Type.IsClose() && depth > 0:
			depth--
		}
	}
	return depth
}
