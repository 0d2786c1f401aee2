// Copyright © 2024 The TLISP authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tlisp-lang/tlisp/parser/lexer"
	"github.com/tlisp-lang/tlisp/parser/token"
)

// Renderer writes diagnostics as text.
//
//	error[-5]: Input Error: Operation '-' requires 2 arguments
//	  --> prog.lisp:1:1
//	   |
//	 1 |  (- 1)
//	   |  ^^^^^
//	   |
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader returns the text of a named source.  If nil, sources
	// are read with os.ReadFile.
	SourceReader func(string) ([]byte, error)
}

// MemorySources returns a SourceReader that serves the named sources from
// memory, falling back to os.ReadFile for any other name.
func MemorySources(sources map[string]string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if src, ok := sources[name]; ok {
			return []byte(src), nil
		}
		return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
	}
}

// Render writes d to w.  The report is assembled in memory and written with
// a single call.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	var b strings.Builder

	kind := "error"
	if d.Code != "" {
		kind += "[" + d.Code + "]"
	}
	fmt.Fprintf(&b, "%s%s:%s %s%s%s\n", p.boldRed, kind, p.reset, p.bold, d.Message, p.reset)

	if d.Span != nil {
		r.writeSnippet(&b, *d.Span, p)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) writeSnippet(b *strings.Builder, span Span, p palette) {
	fmt.Fprintf(b, "  %s-->%s %s\n", p.boldBlue, p.reset, span.location())

	line, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		fmt.Fprintf(b, "   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	num := strconv.Itoa(span.Line)
	blank := strings.Repeat(" ", len(num))
	gutter := func(s string) string {
		return " " + p.boldBlue + s + " |" + p.reset
	}

	runes := []rune(line)
	col := span.Col
	if col < 1 {
		col = 1
	}
	if col > len(runes)+1 {
		col = len(runes) + 1
	}
	width := span.Width
	if width <= 0 {
		width = extent(line, col)
	}
	if rest := len(runes) - (col - 1); width > rest {
		width = rest
	}
	if width < 1 {
		width = 1
	}

	b.WriteString(gutter(blank) + "\n")
	b.WriteString(gutter(num) + "  " + expandTabs(line) + "\n")
	b.WriteString(gutter(blank) + "  " + strings.Repeat(" ", displayWidth(runes[:col-1])))
	b.WriteString(p.boldRed + strings.Repeat("^", width) + p.reset)
	if span.Label != "" {
		b.WriteString(" " + p.boldRed + span.Label + p.reset)
	}
	b.WriteString("\n" + gutter(blank) + "\n")
}

func (span Span) location() string {
	switch {
	case span.Line <= 0:
		return span.File
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
	}
}

func (r *Renderer) sourceLine(file string, n int) (string, bool) {
	if n <= 0 || file == "" {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == n {
			return strings.TrimRight(scanner.Text(), "\r"), true
		}
	}
	return "", false
}

// extent returns the number of runes taken by the token starting at col in
// line.  A list is measured up to its closing bracket, or to the end of the
// line when it does not close on the line.  Text that does not tokenize,
// like the character behind a lexer error, has an extent of one.
func extent(line string, col int) int {
	toks, err := lexer.Tokenize("", line)
	if err != nil {
		return 1
	}
	for i, tok := range toks {
		if tok.Type == token.EOF || tok.Source.Col != col {
			continue
		}
		switch tok.Type {
		case token.PAREN_L:
			return formExtent(toks[i:], line)
		case token.STRING:
			return utf8.RuneCountInString(tok.Text) + 2
		default:
			return utf8.RuneCountInString(tok.Text)
		}
	}
	return 1
}

// formExtent measures the list opened by toks[0].  Any closing bracket
// closes a list.
func formExtent(toks []*token.Token, line string) int {
	start := toks[0].Source.Col
	depth := 0
	for _, tok := range toks {
		switch {
		case tok.Type == token.PAREN_L:
			depth++
		case tok.Type.IsClose():
			depth--
			if depth == 0 {
				return tok.Source.Col - start + 1
			}
		}
	}
	return utf8.RuneCountInString(strings.TrimRight(line, " \t")) - start + 1
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// displayWidth returns the width of runes once tabs are expanded.
func displayWidth(runes []rune) int {
	w := 0
	for _, c := range runes {
		if c == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
