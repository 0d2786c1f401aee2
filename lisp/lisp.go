// Copyright © 2024 The TLISP authors

package lisp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tlisp-lang/tlisp/parser/token"
)

// LType is the type of an LVal
type LType uint8

// Possible LValue types.
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LString values contain a string in their Str field.  Strings are
	// self-evaluating.
	LString
	// LNum values contain a double precision float in their Num field.
	// Numbers are self-evaluating.
	LNum
	// LAtom values are bare symbols.  Their name is stored in the Str field.
	// An atom evaluates to the value bound to its name, or names a function
	// when it appears in the operator position of a list.
	LAtom
	// LList values contain an ordered sequence of values in their Cells
	// field.  A non-empty list evaluates as a function application.
	LList
	// LError values carry a message in their Str field and an integer code in
	// their Code field.  Errors are data.  They evaluate to themselves and are
	// returned like any other value.
	LError
	// The number of types.
	numTypes
)

var lvalTypeStrings = [numTypes]string{
	LInvalid: "INVALID",
	LString:  "string",
	LNum:     "number",
	LAtom:    "atom",
	LList:    "list",
	LError:   "error",
}

func (t LType) String() string {
	if t >= numTypes {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LVal is a lisp value.  The same type is used for parsed expressions and for
// the values produced by evaluating them.
type LVal struct {
	// Source is the location of the expression that produced the value, if
	// one is known.
	Source *token.Location

	Type LType

	// Str holds the text of strings, the names of atoms and the messages of
	// errors.
	Str string

	// Num holds the value of numbers.
	Num float64

	// Code holds the integer code of an error.
	Code int

	// Cells holds the elements of a list.
	Cells []*LVal
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LString,
		Str:    str,
	}
}

// Num returns an LVal representing the number x.
func Num(x float64) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LNum,
		Num:    x,
	}
}

// Atom returns an LVal representing the symbol name.
func Atom(name string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LAtom,
		Str:    name,
	}
}

// List returns an LVal representing a list of cells.
func List(cells ...*LVal) *LVal {
	if cells == nil {
		cells = []*LVal{}
	}
	return &LVal{
		Source: nativeSource(),
		Type:   LList,
		Cells:  cells,
	}
}

// Null returns the atom produced by evaluating an empty list.
func Null() *LVal {
	return Atom(NullName)
}

// IsNull returns true if v is the atom produced by evaluating an empty list.
func (v *LVal) IsNull() bool {
	return v.Type == LAtom && v.Str == NullName
}

// Len returns the number of cells in a list, or zero for any other value.
func (v *LVal) Len() int {
	if v.Type != LList {
		return 0
	}
	return len(v.Cells)
}

// Equal returns true if v and other have the same type and contents.  Source
// locations are ignored.
func (v *LVal) Equal(other *LVal) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LString, LAtom:
		return v.Str == other.Str
	case LNum:
		return v.Num == other.Num || (math.IsNaN(v.Num) && math.IsNaN(other.Num))
	case LError:
		return v.Str == other.Str && v.Code == other.Code
	case LList:
		if len(v.Cells) != len(other.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v as program output.  Strings render as their raw text and
// errors as "<message> with code <code>".  The elements of a list are
// concatenated between parentheses without any separator.
func (v *LVal) String() string {
	var buf strings.Builder
	v.render(&buf)
	return buf.String()
}

func (v *LVal) render(buf *strings.Builder) {
	switch v.Type {
	case LString, LAtom:
		buf.WriteString(v.Str)
	case LNum:
		buf.WriteString(formatNum(v.Num))
	case LError:
		fmt.Fprintf(buf, "%s with code %d", v.Str, v.Code)
	case LList:
		buf.WriteString("(")
		for _, c := range v.Cells {
			c.render(buf)
		}
		buf.WriteString(")")
	default:
		fmt.Fprintf(buf, "<%s>", v.Type)
	}
}

// Repr renders v as readable source text.  Unlike String it quotes strings
// and separates list elements with spaces.
func (v *LVal) Repr() string {
	var buf strings.Builder
	v.repr(&buf)
	return buf.String()
}

func (v *LVal) repr(buf *strings.Builder) {
	switch v.Type {
	case LString:
		buf.WriteString(strconv.Quote(v.Str))
	case LError:
		fmt.Fprintf(buf, "#<error %d %q>", v.Code, v.Str)
	case LList:
		buf.WriteString("(")
		for i, c := range v.Cells {
			if i > 0 {
				buf.WriteString(" ")
			}
			c.repr(buf)
		}
		buf.WriteString(")")
	default:
		v.render(buf)
	}
}

// formatNum formats x the shortest way that round trips, without exponents.
func formatNum(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

var defaultSourceLocation = &token.Location{
	File: "<native code>",
	Pos:  -1,
}

func nativeSource() *token.Location {
	return defaultSourceLocation
}
