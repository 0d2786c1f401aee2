// Copyright © 2024 The TLISP authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tlisp-lang/tlisp/diagnostic"
	"github.com/tlisp-lang/tlisp/parser"
)

func newReadCommand(s *settings) *cobra.Command {
	var (
		expression bool
		repr       bool
	)
	cmd := &cobra.Command{
		Use:   "read [flags] FILE...",
		Short: "Print the parsed forms of lisp source",
		Long: `Print each top-level form the reader produces, one per line, without
evaluating anything.  Reader errors such as unmatched parentheses appear in
place as error values.  Forms are printed the way results are printed unless
--repr is given, which quotes strings and separates list elements.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.newRenderer()
			if err != nil {
				return err
			}
			srcs, err := readSources(args, expression)
			if err != nil {
				return err
			}
			r.SourceReader = diagnostic.MemorySources(sourceMap(srcs))
			reader := parser.NewReader()
			for _, src := range srcs {
				exprs, err := reader.Read(src.name, strings.NewReader(src.text))
				if err != nil {
					return renderFatal(cmd.ErrOrStderr(), r, err)
				}
				for _, expr := range exprs {
					if repr {
						fmt.Fprintln(cmd.OutOrStdout(), expr.Repr()) //nolint:errcheck // best-effort output
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), expr) //nolint:errcheck // best-effort output
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "Interpret arguments as lisp source")
	cmd.Flags().BoolVarP(&repr, "repr", "r", false, "Print forms as readable source")
	return cmd
}
