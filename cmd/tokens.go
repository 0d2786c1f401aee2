// Copyright © 2024 The TLISP authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tlisp-lang/tlisp/diagnostic"
	"github.com/tlisp-lang/tlisp/parser/lexer"
)

func newTokensCommand(s *settings) *cobra.Command {
	var (
		expression bool
		substitute bool
	)
	cmd := &cobra.Command{
		Use:   "tokens [flags] FILE...",
		Short: "Print the tokens of lisp source",
		Long: `Print the token stream the lexer produces for each source, one
type/value pair per token.  With --substitute the reserved words true, false
and nil are reported as reserved identifiers.`,
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
			for _, src := range srcs {
				toks, err := lexer.Tokenize(src.name, src.text)
				if err != nil {
					return renderFatal(cmd.ErrOrStderr(), r, err)
				}
				if substitute {
					toks = lexer.Substitute(toks)
				}
				fmt.Fprintln(cmd.OutOrStdout(), lexer.Dump(toks)) //nolint:errcheck // best-effort output
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "Interpret arguments as lisp source")
	cmd.Flags().BoolVarP(&substitute, "substitute", "s", false, "Mark reserved words")
	return cmd
}
