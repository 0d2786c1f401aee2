// Copyright © 2024 The TLISP authors

package rdparser

import (
	"io"

	"github.com/tlisp-lang/tlisp/lisp"
	"github.com/tlisp-lang/tlisp/parser/lexer"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.  The stream is tokenized, reserved words are
// substituted and the tokens are parsed.  An error is returned only when r
// cannot be read or contains a character the lexer does not recognize.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.Tokenize(name, string(b))
	if err != nil {
		return nil, err
	}
	return Parse(lexer.Substitute(toks)), nil
}
