// Copyright © 2024 The TLISP authors

package cmd

import (
	"fmt"
	"os"
)

// source is a named unit of program text given on the command line.
type source struct {
	name string
	text string
}

// readSources returns the program text named by args.  When expression is
// true each argument is itself source text, otherwise it is a file path.
func readSources(args []string, expression bool) ([]source, error) {
	srcs := make([]source, len(args))
	for i, arg := range args {
		if expression {
			srcs[i] = source{name: fmt.Sprintf("<expr%d>", i+1), text: arg}
			continue
		}
		b, err := os.ReadFile(arg) //nolint:gosec // reads user-specified source files
		if err != nil {
			return nil, err
		}
		srcs[i] = source{name: arg, text: string(b)}
	}
	return srcs, nil
}

// sourceMap indexes srcs by name for diagnostic rendering.
func sourceMap(srcs []source) map[string]string {
	m := make(map[string]string, len(srcs))
	for _, src := range srcs {
		m[src.name] = src.text
	}
	return m
}
