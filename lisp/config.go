// Copyright © 2024 The TLISP authors

package lisp

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) *LVal

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return Null()
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.  The runtime logger is redirected to
// w as well.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		env.Runtime.log().SetOutput(w)
		return Null()
	}
}

// WithLogger returns a Config that replaces the runtime logger.
func WithLogger(logger *logrus.Logger) Config {
	return func(env *LEnv) *LVal {
		if logger == nil {
			return Errorf(CodeInput, "nil logger")
		}
		env.Runtime.Logger = logger
		return Null()
	}
}

// WithLogLevel returns a Config that sets the level of the runtime logger.
func WithLogLevel(level logrus.Level) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.log().SetLevel(level)
		return Null()
	}
}

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from allowing the call stack height to exceed n.  A
// non-positive n removes the limit, leaving deep recursion to exhaust the
// host stack.
func WithMaximumStackHeight(n int) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stack.MaxHeight = n
		return Null()
	}
}

// WithScopeMode returns a Config that selects how names are resolved.
func WithScopeMode(mode ScopeMode) Config {
	return func(env *LEnv) *LVal {
		if mode != ScopeCompat && mode != ScopeLexical {
			return Errorf(CodeInput, "invalid scope mode: %d", mode)
		}
		env.Runtime.Scope = mode
		return Null()
	}
}

// WithStrictArity returns a Config that controls whether closure calls must
// supply exactly one argument per parameter.
func WithStrictArity(strict bool) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.StrictArity = strict
		return Null()
	}
}

// WithPermission returns a Config that sets the permission tag of the
// environment being configured.
func WithPermission(perm int) Config {
	return func(env *LEnv) *LVal {
		env.Permission = perm
		return Null()
	}
}

// WithProfiler returns a Config that enables p.  The profiler must have been
// created for the runtime of the environment being configured.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) *LVal {
		err := p.Enable()
		if err != nil {
			return Errorf(CodeInput, "%v", err)
		}
		env.Runtime.Profiler = p
		return Null()
	}
}
