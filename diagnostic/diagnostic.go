// Copyright © 2024 The TLISP authors

// Package diagnostic renders error reports for tlisp programs.  A report
// names the error and its code, quotes the offending source line and
// underlines the token or form the error is located at.
//
// The package does not depend on the lisp package, so commands can convert
// errors into a Diagnostic however suits them.
package diagnostic

import "github.com/tlisp-lang/tlisp/parser/token"

// Diagnostic is an error report.
type Diagnostic struct {
	// Code is the error code of an Err value, shown as error[Code].  Fatal
	// errors have no code.
	Code    string
	Message string
	// Span is the source the error is about, or nil when it has no
	// location in a program.
	Span  *Span
	Notes []string
}

// Span locates source text within a named source.
type Span struct {
	File string
	Line int // 1-based
	Col  int // 1-based, counted in runes
	// Width is the number of runes to underline.  When Width is zero the
	// token starting at Col is underlined, or the whole form when that
	// token opens a list.
	Width int
	Label string
}

// SpanAt returns a Span for loc.  It returns nil for locations which do not
// point into program text, such as values created by native code.
func SpanAt(loc *token.Location) *Span {
	if loc == nil || loc.Pos < 0 || loc.Line == 0 {
		return nil
	}
	return &Span{File: loc.File, Line: loc.Line, Col: loc.Col}
}
