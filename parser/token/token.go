// Copyright © 2024 The TLISP authors

package token

import "fmt"

// Token is a single lexical token.  Tokens are immutable once emitted by the
// lexer and their order in a token slice is the source order.
type Token struct {
	Type   Type
	Text   string
	Num    float64 // parsed value of a NUMBER token
	Source *Location
}

func (tok *Token) String() string {
	switch {
	case tok.Type == EOF:
		return tok.Type.String()
	case tok.Type == NUMBER:
		return fmt.Sprintf("%s(%g)", tok.Type, tok.Num)
	case tok.Type.IsBracket():
		return tok.Type.String()
	default:
		return fmt.Sprintf("%s(%q)", tok.Type, tok.Text)
	}
}

type Type uint

// Type constants produced by the lexer.  All eight bracket characters are
// lexed but only the parenthesis pair has structural meaning to the reader.
const (
	INVALID Type = iota
	EOF

	// Atomic tokens
	STRING
	NUMBER
	IDENT
	KEY
	RESERVED

	// Brackets
	PAREN_L
	PAREN_R
	SQUARE_L
	SQUARE_R
	CURLY_L
	CURLY_R
	ANGLE_L
	ANGLE_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:  "invalid",
		EOF:      "EOF",
		STRING:   "string",
		NUMBER:   "number",
		IDENT:    "identifier",
		KEY:      "key",
		RESERVED: "reserved",
		PAREN_L:  "(",
		PAREN_R:  ")",
		SQUARE_L: "[",
		SQUARE_R: "]",
		CURLY_L:  "{",
		CURLY_R:  "}",
		ANGLE_L:  "<",
		ANGLE_R:  ">",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsBracket returns true if typ is one of the eight bracket types.
func (typ Type) IsBracket() bool {
	return PAREN_L <= typ && typ <= ANGLE_R
}

// IsOpen returns true if typ is an opening bracket.
func (typ Type) IsOpen() bool {
	return typ.IsBracket() && (typ-PAREN_L)%2 == 0
}

// IsClose returns true if typ is a closing bracket.
func (typ Type) IsClose() bool {
	return typ.IsBracket() && (typ-PAREN_L)%2 == 1
}

// Bracket returns the bracket type for the character c.
func Bracket(c rune) (Type, bool) {
	switch c {
	case '(':
		return PAREN_L, true
	case ')':
		return PAREN_R, true
	case '[':
		return SQUARE_L, true
	case ']':
		return SQUARE_R, true
	case '{':
		return CURLY_L, true
	case '}':
		return CURLY_R, true
	case '<':
		return ANGLE_L, true
	case '>':
		return ANGLE_R, true
	}
	return INVALID, false
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // rune offset into the source
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc == nil:
		return "<unknown>"
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

// Unwrap returns the underlying error.
func (err *LocationError) Unwrap() error {
	return err.Err
}
