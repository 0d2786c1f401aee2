// Copyright © 2024 The TLISP authors

package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tlisp-lang/tlisp/parser/token"
)

// specialRunes start or extend a run of operator-like characters.  The ranges
// '$'..'\'', '*'..'/' and ';'..'?' are spelled out, minus the angle brackets.
const specialRunes = "@!$%&'*+,-./;=?^"

// ReservedWords are identifiers reclassified as token.RESERVED by Substitute.
var ReservedWords = []string{"true", "false", "nil"}

type mode uint8

const (
	modeNeutral mode = iota
	modeNumeric
	modeString
	modeIdent
	modeKey
	modeSpecial
)

var modeStrings = []string{
	modeNeutral: "neutral",
	modeNumeric: "numeric",
	modeString:  "string",
	modeIdent:   "identifier",
	modeKey:     "key",
	modeSpecial: "special",
}

func (m mode) String() string {
	if int(m) >= len(modeStrings) {
		return "invalid"
	}
	return modeStrings[m]
}

// UnexpectedCharError is the fatal error produced when the lexer encounters a
// character outside every recognized class.
type UnexpectedCharError struct {
	Char rune
	Pos  int
}

func (err *UnexpectedCharError) Error() string {
	return fmt.Sprintf("unexpected character %q encountered at char %d", err.Char, err.Pos)
}

// Lexer converts source text into tokens with a single left-to-right scan.
// At any point the lexer is in exactly one mode and each character either
// extends the current buffer or flushes it as a token before switching mode.
type Lexer struct {
	file  string
	src   []rune
	pos   int
	line  int
	col   int
	mode  mode
	buf   []rune
	start *token.Location
	out   []*token.Token

	unterminated bool
}

// New returns a Lexer for src.  The file name is only used in token locations.
func New(file string, src string) *Lexer {
	return &Lexer{
		file: file,
		src:  []rune(src),
		line: 1,
		col:  1,
	}
}

// Tokenize scans src and returns its tokens terminated by exactly one EOF
// token.  An unrecognized character aborts tokenization and the returned error
// is a *token.LocationError wrapping an *UnexpectedCharError.
func Tokenize(file string, src string) ([]*token.Token, error) {
	return New(file, src).Run()
}

// Run scans the entire source.
func (lex *Lexer) Run() ([]*token.Token, error) {
	for lex.pos < len(lex.src) {
		c := lex.src[lex.pos]
		err := lex.step(c)
		if err != nil {
			return nil, err
		}
		lex.advance(c)
	}
	lex.unterminated = lex.mode == modeString
	err := lex.flush()
	if err != nil {
		return nil, err
	}
	lex.out = append(lex.out, &token.Token{
		Type:   token.EOF,
		Source: lex.loc(),
	})
	return lex.out, nil
}

// Unterminated returns true if the source scanned by Run ended inside a
// string literal.  The literal is still emitted as a STRING token.
func (lex *Lexer) Unterminated() bool {
	return lex.unterminated
}

func (lex *Lexer) step(c rune) error {
	if c == '"' {
		if lex.mode == modeString {
			return lex.flush()
		}
		err := lex.flush()
		if err != nil {
			return err
		}
		lex.begin(modeString)
		return nil
	}
	if lex.mode == modeString {
		lex.buf = append(lex.buf, c)
		return nil
	}
	if typ, ok := token.Bracket(c); ok {
		err := lex.flush()
		if err != nil {
			return err
		}
		lex.out = append(lex.out, &token.Token{
			Type:   typ,
			Text:   string(c),
			Source: lex.loc(),
		})
		return nil
	}
	switch {
	case isLetter(c):
		return lex.matchLetter(c)
	case isDigit(c):
		return lex.matchDigit(c)
	case isSpace(c):
		return lex.flush()
	case c == '.' && lex.isDecimalPoint():
		lex.buf = append(lex.buf, c)
		return nil
	case strings.ContainsRune(specialRunes, c):
		return lex.matchSpecial(c)
	case c == ':':
		err := lex.flush()
		if err != nil {
			return err
		}
		lex.begin(modeKey)
		lex.buf = append(lex.buf, c)
		return nil
	default:
		return &token.LocationError{
			Err:    &UnexpectedCharError{Char: c, Pos: lex.pos},
			Source: lex.loc(),
		}
	}
}

func (lex *Lexer) matchLetter(c rune) error {
	switch lex.mode {
	case modeIdent, modeKey:
		lex.buf = append(lex.buf, c)
		return nil
	default:
		return lex.restart(modeIdent, c)
	}
}

func (lex *Lexer) matchDigit(c rune) error {
	switch lex.mode {
	case modeNumeric, modeIdent, modeKey:
		lex.buf = append(lex.buf, c)
		return nil
	default:
		return lex.restart(modeNumeric, c)
	}
}

func (lex *Lexer) matchSpecial(c rune) error {
	switch lex.mode {
	case modeSpecial, modeIdent:
		lex.buf = append(lex.buf, c)
		return nil
	default:
		return lex.restart(modeSpecial, c)
	}
}

// isDecimalPoint reports whether a '.' at the current position continues a
// numeric run, i.e. the run has no fraction yet and a digit follows.
func (lex *Lexer) isDecimalPoint() bool {
	if lex.mode != modeNumeric {
		return false
	}
	for _, c := range lex.buf {
		if c == '.' {
			return false
		}
	}
	next := lex.pos + 1
	return next < len(lex.src) && isDigit(lex.src[next])
}

// restart flushes pending text and starts a new run in mode m seeded with c.
func (lex *Lexer) restart(m mode, c rune) error {
	err := lex.flush()
	if err != nil {
		return err
	}
	lex.begin(m)
	lex.buf = append(lex.buf, c)
	return nil
}

func (lex *Lexer) begin(m mode) {
	lex.mode = m
	lex.buf = lex.buf[:0]
	lex.start = lex.loc()
}

// flush emits a token for any buffered text and returns the lexer to neutral
// mode.  String mode always emits a token, even for an empty literal.
func (lex *Lexer) flush() error {
	m := lex.mode
	text := string(lex.buf)
	lex.mode = modeNeutral
	lex.buf = lex.buf[:0]
	if m == modeNeutral || (m != modeString && text == "") {
		return nil
	}
	tok := &token.Token{
		Text:   text,
		Source: lex.start,
	}
	switch m {
	case modeString:
		tok.Type = token.STRING
	case modeNumeric:
		x, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return &token.LocationError{Err: err, Source: lex.start}
		}
		tok.Type = token.NUMBER
		tok.Num = x
	case modeKey:
		tok.Type = token.KEY
	case modeIdent, modeSpecial:
		tok.Type = token.IDENT
	}
	lex.out = append(lex.out, tok)
	return nil
}

func (lex *Lexer) advance(c rune) {
	lex.pos++
	if c == '\n' {
		lex.line++
		lex.col = 1
		return
	}
	lex.col++
}

func (lex *Lexer) loc() *token.Location {
	return &token.Location{
		File: lex.file,
		Pos:  lex.pos,
		Line: lex.line,
		Col:  lex.col,
	}
}

// Substitute returns a copy of toks where identifiers spelling a reserved word
// are reclassified as token.RESERVED.  The text is unchanged.
func Substitute(toks []*token.Token) []*token.Token {
	out := make([]*token.Token, len(toks))
	for i, tok := range toks {
		if tok.Type == token.IDENT && isReserved(tok.Text) {
			cp := *tok
			cp.Type = token.RESERVED
			tok = &cp
		}
		out[i] = tok
	}
	return out
}

// Dump renders toks in a human readable listing, two lines per token.
func Dump(toks []*token.Token) string {
	var buf strings.Builder
	for i, tok := range toks {
		if i > 0 {
			buf.WriteString("\n")
		}
		switch {
		case tok.Type.IsBracket():
			fmt.Fprintf(&buf, "Token Type: Bracket\nToken Val: %s", tok.Text)
		case tok.Type == token.STRING:
			fmt.Fprintf(&buf, "Token Type: String\nToken Val: %q", tok.Text)
		case tok.Type == token.NUMBER:
			fmt.Fprintf(&buf, "Token Type: Number\nToken Val: %s", strconv.FormatFloat(tok.Num, 'f', -1, 64))
		case tok.Type == token.IDENT:
			fmt.Fprintf(&buf, "Token Type: Identifier\nToken Val: %q", tok.Text)
		case tok.Type == token.KEY:
			fmt.Fprintf(&buf, "Token Type: Key\nToken Val: %q", tok.Text)
		case tok.Type == token.RESERVED:
			fmt.Fprintf(&buf, "Token Type: Reserved Ident\nToken Val: %q", tok.Text)
		case tok.Type == token.EOF:
			buf.WriteString("Token Type: End Of Stream")
		default:
			fmt.Fprintf(&buf, "Token Type: %s\nToken Val: %q", tok.Type, tok.Text)
		}
	}
	return buf.String()
}

func isReserved(s string) bool {
	for _, w := range ReservedWords {
		if s == w {
			return true
		}
	}
	return false
}

func isLetter(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
