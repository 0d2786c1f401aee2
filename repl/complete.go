// Copyright © 2024 The TLISP authors

package repl

import (
	"sort"
	"strings"

	"github.com/tlisp-lang/tlisp/lisp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// function names bound in a lisp environment.
type symbolCompleter struct {
	env *lisp.LEnv
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or a bracket).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '\n' || strings.ContainsRune("()[]{}<>", ch) {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len(prefix)
}

// collectSymbols returns the sorted names of functions visible from the
// environment, including closures defined during the session, and of
// variables bound in it.
func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for e := c.env; e != nil; e = e.Parent {
		for name := range e.Funs {
			add(name)
		}
	}
	for name := range c.env.Vals {
		add(name)
	}
	sort.Strings(result)
	return result
}
