// Copyright © 2024 The TLISP authors

package lisp

import (
	"fmt"
	"io"

	"github.com/tlisp-lang/tlisp/parser/token"
)

// DefaultMaxStackHeight is the call stack height limit of a StandardRuntime.
// Evaluation is naively recursive so some limit is always required to keep
// runaway recursion from exhausting the host stack.
const DefaultMaxStackHeight = 10000

// CallStack is a function call stack.
type CallStack struct {
	Frames    []CallFrame
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	// Source is the location of the call expression.
	Source *token.Location
	// Name is the name the function was called by.
	Name string
	// Fun is the function being called.
	Fun *Executable
}

func (f *CallFrame) String() string {
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, f.desc())
	}
	return f.desc()
}

func (f *CallFrame) desc() string {
	if f.Fun == nil {
		return f.Name
	}
	return fmt.Sprintf("%s [%s]", f.Name, f.Fun.Type)
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Copy creates a copy of the current stack so that it can be attached to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		MaxHeight: s.MaxHeight,
		Frames:    frames,
	}
}

// Push pushes a new frame onto s.  If s is already at its maximum height the
// frame is not pushed and a *StackOverflowError is returned.
func (s *CallStack) Push(src *token.Location, name string, fun *Executable) error {
	err := s.checkHeight()
	if err != nil {
		return err
	}
	s.Frames = append(s.Frames, CallFrame{
		Source: src,
		Name:   name,
		Fun:    fun,
	})
	return nil
}

// checkHeight is inclusive because it is called before a new frame is pushed.
// Any error reports the height the stack would have reached.
func (s *CallStack) checkHeight() error {
	if s.MaxHeight <= 0 {
		return nil
	}
	if s.MaxHeight <= len(s.Frames) {
		return &StackOverflowError{Height: len(s.Frames) + 1}
	}
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// Reset removes every frame from the stack.
func (s *CallStack) Reset() {
	for i := range s.Frames {
		s.Frames[i] = CallFrame{}
	}
	s.Frames = s.Frames[:0]
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fstr := s.Frames[i].String()
		_n, err := fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, fstr)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Trace describes up to n frames from the top of s, the top frame first,
// as "in NAME at LOCATION".  When frames are left out a final line counts
// them.
func (s *CallStack) Trace(n int) []string {
	var lines []string
	for i := len(s.Frames) - 1; i >= 0 && len(lines) < n; i-- {
		f := &s.Frames[i]
		if f.Source != nil && f.Source.Pos >= 0 {
			lines = append(lines, fmt.Sprintf("in %s at %s", f.Name, f.Source))
		} else {
			lines = append(lines, "in "+f.Name)
		}
	}
	if rest := len(s.Frames) - len(lines); rest > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more frames", rest))
	}
	return lines
}

// StackOverflowError is the fatal error produced when evaluation would push
// the call stack beyond its maximum height.
type StackOverflowError struct {
	Height int
	// Stack is a copy of the call stack at the time of the overflow.
	Stack *CallStack
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack height exceeded maximum: %v", e.Height)
}
