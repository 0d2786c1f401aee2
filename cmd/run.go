// Copyright © 2024 The TLISP authors

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tlisp-lang/tlisp/diagnostic"
	"github.com/tlisp-lang/tlisp/lisp"
)

func newRunCommand(s *settings) *cobra.Command {
	var (
		runExpression bool
		runPrint      bool
	)
	cmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run lisp code",
		Long: `Run lisp code supplied via the command line or in files.

All sources are evaluated in order against a single root environment, so
functions defined by one file may be called by the next.  Error results are
reported on stderr and make the command exit with a non-zero status once
every source has been evaluated.  A fatal error, such as an unexpected
character in the source or a stack overflow, stops evaluation immediately.

Examples:
  tlisp run prog.lisp
  tlisp run -e '(defn sq (x) (* x x)) (sq 12)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.newRenderer()
			if err != nil {
				return err
			}
			srcs, err := readSources(args, runExpression)
			if err != nil {
				return err
			}
			r.SourceReader = diagnostic.MemorySources(sourceMap(srcs))
			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			env, prof, err := s.newEnv(stderr)
			if err != nil {
				return err
			}
			nerr := 0
			for _, src := range srcs {
				results, err := env.LoadString(src.name, src.text)
				for _, v := range results {
					if v.Type == lisp.LError {
						nerr++
						_ = r.Render(stderr, lispErrorToDiagnostic(v))
					}
					if runPrint || runExpression {
						fmt.Fprintln(stdout, v) //nolint:errcheck // best-effort output
					}
				}
				if err != nil {
					prof.abort()
					rerr := renderFatal(stderr, r, err)
					var serr *lisp.StackOverflowError
					if s.v.GetString("log-level") == "debug" && errors.As(err, &serr) && serr.Stack != nil {
						serr.Stack.DebugPrint(stderr) //nolint:errcheck // best-effort output
					}
					return rerr
				}
			}
			if err := prof.finish(stderr); err != nil {
				return err
			}
			if nerr > 0 {
				return &reportedError{msg: fmt.Sprintf("%d error results", nerr)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions and print their values")
	cmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	return cmd
}
