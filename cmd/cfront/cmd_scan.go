package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/lexer"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	var outputFormat string
	var trivia bool

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "List the tokens of a source file",
		Long: `List the tokens of a source file.

Lexical errors are reported on stderr and do not stop the scan. The exit
status is non-zero when any error was found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(outputFormat, format.Table, format.Table, format.Line, format.JSON, format.YAML)
			if err != nil {
				return err
			}
			return runScan(args[0], f, trivia)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: table, line, json or yaml")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace and comment tokens")

	return cmd
}

func runScan(filename string, f format.Format, trivia bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	tokens, lexErrs := lexer.Tokenize(string(data))
	if !trivia {
		tokens = lexer.Terminals(tokens)
	}

	if err := format.NewTokenEncoder(os.Stdout, f).Encode(tokens); err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	if len(lexErrs) > 0 {
		errs := make([]error, len(lexErrs))
		for i, e := range lexErrs {
			errs[i] = e
		}
		format.WriteDiagnostics(os.Stderr, filename, errs, true)
		return fmt.Errorf("%s: %d lexical errors", filename, len(lexErrs))
	}
	return nil
}
