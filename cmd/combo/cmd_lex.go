package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/combo/lex"
)

func newLexCmd() *cobra.Command {
	var (
		grammarFile     string
		startProduction string
		skip            []string
	)

	cmd := &cobra.Command{
		Use:   "lex <file>",
		Short: "Tokenize a file with the token productions of an EBNF grammar",
		Long: `Tokenize a file with an EBNF grammar. Every production whose name starts
with an uppercase letter is a token kind; the longest match wins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := lex.LoadGrammar(grammarFile)
			if err != nil {
				return flatten(err)
			}
			if startProduction != "" {
				if err := lex.Verify(grammar, startProduction); err != nil {
					return flatten(err)
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			log.Debugf("token kinds: %v", lex.TokenKinds(grammar))

			tokens, err := lex.NewLexer(grammar, data, skip...).Tokenize()
			fmt.Fprint(cmd.OutOrStdout(), lex.Describe(tokens))
			return err
		},
	}

	cmd.Flags().StringVar(&grammarFile, "ebnf", "", "EBNF grammar file")
	cmd.Flags().StringVar(&startProduction, "start", "", "verify the grammar from this production first")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "token kinds to drop, e.g. Whitespace")
	cmd.MarkFlagRequired("ebnf")

	return cmd
}

// flatten turns an ebnf error list into an error with one line per entry.
func flatten(err error) error {
	inner := err
	for u := errors.Unwrap(inner); u != nil; u = errors.Unwrap(inner) {
		inner = u
	}
	v := reflect.ValueOf(inner)
	if v.Kind() != reflect.Slice {
		return err
	}
	errs := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}
