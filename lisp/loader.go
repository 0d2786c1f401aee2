// Copyright © 2024 The TLISP authors

package lisp

import (
	"errors"
	"io"
	"os"
	"strings"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of LVals that it
	// contains, one per top-level form.  Malformed structure is reported by
	// embedding LError values in the result.  A returned error means the
	// stream could not be read at all.
	Read(name string, r io.Reader) ([]*LVal, error)
}

// ErrNoReader is returned when source is loaded into an environment whose
// runtime has no Reader.
var ErrNoReader = errors.New("no reader configured for the environment")

// Load reads the source stream r using the runtime Reader and evaluates each
// form in env.  See EvalProgram.
func (env *LEnv) Load(name string, r io.Reader) ([]*LVal, error) {
	if env.Runtime.Reader == nil {
		return nil, ErrNoReader
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	return env.EvalProgram(exprs)
}

// LoadString evaluates the source text src in env.
func (env *LEnv) LoadString(name string, src string) ([]*LVal, error) {
	return env.Load(name, strings.NewReader(src))
}

// LoadFile evaluates the contents of the file at path in env.
func (env *LEnv) LoadFile(path string) ([]*LVal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return env.Load(path, f)
}
