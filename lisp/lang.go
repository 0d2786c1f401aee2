// Copyright © 2024 The TLISP authors

package lisp

// Version is the version of the interpreter.
const Version = "0.1"

// NullName is the name of the atom that an empty list evaluates to.
const NullName = "null"

// ScopeMode selects how names are resolved through a chain of environments
// and how closures bind their arguments.
type ScopeMode uint8

const (
	// ScopeCompat resolves variables in the current environment only while
	// functions are found by walking the parent chain.  Closures bind their
	// arguments directly into the calling environment and evaluate their
	// body there.
	ScopeCompat ScopeMode = iota
	// ScopeLexical resolves variables and functions by walking the parent
	// chain.  A closure captures the environment it was defined in and each
	// call binds arguments in a fresh child of that environment.
	ScopeLexical
)

func (m ScopeMode) String() string {
	switch m {
	case ScopeCompat:
		return "compat"
	case ScopeLexical:
		return "lexical"
	default:
		return "invalid"
	}
}

// ParseScopeMode returns the ScopeMode named s.
func ParseScopeMode(s string) (ScopeMode, bool) {
	switch s {
	case "", "compat":
		return ScopeCompat, true
	case "lexical":
		return ScopeLexical, true
	default:
		return ScopeCompat, false
	}
}
