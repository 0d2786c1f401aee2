// Copyright © 2024 The TLISP authors

package lisp

// Profiler observes function calls made by the evaluator.  A Profiler is
// installed on a Runtime by calling its Enable method.
type Profiler interface {
	// IsEnabled returns true if the profiler is collecting data.
	IsEnabled() bool
	// Enable installs the profiler on its runtime and starts collecting.
	Enable() error
	// Complete ends the profiling session and flushes collected data.
	Complete() error
	// Start marks the beginning of the call described by frame.  The
	// returned function is called when the call returns.
	Start(frame *CallFrame) func()
}
