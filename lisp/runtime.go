// Copyright © 2024 The TLISP authors

package lisp

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Runtime is an object underlying a tree of LEnv values.  It is responsible
// for holding shared environment state, generating identifiers, and writing
// debugging output to a stream (typically os.Stderr).
type Runtime struct {
	Stderr   io.Writer
	Logger   *logrus.Logger
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler

	// Scope determines how names resolve through chains of environments.
	Scope ScopeMode

	// StrictArity makes a closure call with the wrong number of arguments
	// an error instead of binding the arguments pairwise.
	StrictArity bool

	numenv atomicCounter
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr, a
// logger that reports warnings to Stderr and a call stack limited to
// DefaultMaxStackHeight frames.
func StandardRuntime() *Runtime {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return &Runtime{
		Stderr: os.Stderr,
		Logger: logger,
		Stack:  &CallStack{MaxHeight: DefaultMaxStackHeight},
	}
}

// GenEnvID returns a new identifier for an LEnv.
func (r *Runtime) GenEnvID() uint {
	return r.numenv.Add(1)
}

func (r *Runtime) log() *logrus.Logger {
	if r.Logger == nil {
		r.Logger = logrus.New()
		r.Logger.SetOutput(io.Discard)
	}
	return r.Logger
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
