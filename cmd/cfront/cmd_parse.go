package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/frontend"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var grammarPath string
	var positions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and print its parse tree",
		Long: `Parse a source file and print its parse tree.

The tables are restored from the configured cache when it matches the
grammar and rebuilt otherwise. Lexical and syntax errors are reported on
stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(outputFormat, format.Text, format.Text, format.JSON, format.YAML)
			if err != nil {
				return err
			}

			fe, err := frontend.Load(a.frontendOptions(grammarPath))
			if err != nil {
				return err
			}
			return runParse(fe, args[0], f, positions)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text, json or yaml")
	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file (default: from cfront.toml or built-in minic)")
	cmd.Flags().BoolVarP(&positions, "positions", "p", false, "show token positions in text output")

	return cmd
}

func runParse(fe *frontend.Frontend, filename string, f format.Format, positions bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	result := fe.Analyze(string(data))
	if result.Tree != nil {
		switch {
		case f == format.Text && !positions:
			fmt.Print(result.Tree.String())
		default:
			if err := format.NewTreeEncoder(os.Stdout, f).Encode(result.Tree); err != nil {
				return fmt.Errorf("encode tree: %w", err)
			}
		}
	}

	if errs := result.Errors(); len(errs) > 0 {
		format.WriteDiagnostics(os.Stderr, filename, errs, true)
		return fmt.Errorf("%s: %d errors", filename, len(errs))
	}
	return nil
}
