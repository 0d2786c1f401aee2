// Copyright © 2024 The TLISP authors

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/tlisp-lang/tlisp/lisp"
)

const docWidth = 72

func newDocCommand(s *settings) *cobra.Command {
	var docSourceFile string
	cmd := &cobra.Command{
		Use:   "doc [flags] [NAME]",
		Short: "Show documentation for functions",
		Long: `Show documentation for builtin functions and for functions defined in
a source file.

Without a NAME every builtin is listed.  Use -f to load a source file first
so functions it defines can be looked up.

Examples:
  tlisp doc                      Document every builtin
  tlisp doc defn                 Show docs for the defn form
  tlisp doc -f mylib.lisp sq     Load a file, then show the usage of sq`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Environment output is discarded unless loading the source
			// file fails.
			errbuf := &bytes.Buffer{}
			env, prof, err := s.newEnv(errbuf)
			if err != nil {
				return err
			}
			defer prof.abort()
			if docSourceFile != "" {
				results, err := env.LoadFile(docSourceFile)
				if err != nil {
					_, _ = cmd.ErrOrStderr().Write(errbuf.Bytes())
					return err
				}
				for _, v := range results {
					if v.Type == lisp.LError {
						_, _ = cmd.ErrOrStderr().Write(errbuf.Bytes())
						return lisp.GoError(v)
					}
				}
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return renderBuiltins(out)
			}
			fun, lerr := env.LookupFunction(lisp.Atom(args[0]))
			if lerr != nil {
				return fmt.Errorf("no function named %q", args[0])
			}
			return renderFun(out, args[0], fun)
		},
	}
	cmd.Flags().StringVarP(&docSourceFile, "source-file", "f", "",
		"Evaluate a lisp source file before querying documentation.")
	return cmd
}

// renderBuiltins writes documentation for every builtin to w.
func renderBuiltins(w io.Writer) error {
	for i, b := range lisp.Builtins() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderBuiltin(w, b); err != nil {
			return fmt.Errorf("builtin %s: %w", b.Name(), err)
		}
	}
	return nil
}

func renderBuiltin(w io.Writer, b lisp.Builtin) error {
	_, err := fmt.Fprintf(w, "builtin %s\n", lisp.Usage(b.Name(), b.Formals()))
	if err != nil {
		return err
	}
	doc := cleanDocstring(b.Docstring())
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
	}
	return err
}

func renderFun(w io.Writer, name string, fun *lisp.Executable) error {
	switch fun.Type {
	case lisp.ExecBuiltin:
		builtins := lisp.Builtins()
		if fun.Builtin < 0 || fun.Builtin >= len(builtins) {
			return fmt.Errorf("builtin index %d out of range", fun.Builtin)
		}
		return renderBuiltin(w, builtins[fun.Builtin])
	default:
		_, err := fmt.Fprintf(w, "%s %s\n", fun.Type, lisp.Usage(name, fun.Params))
		if err != nil {
			return err
		}
		if fun.Source != nil && fun.Source.Pos >= 0 {
			_, err = fmt.Fprintf(w, "  Defined at %s.\n", fun.Source)
		}
		return err
	}
}

func cleanDocstring(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(doc, docWidth), 2)
	return strings.TrimSuffix(doc, "\n")
}
