package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/frontend"
	"github.com/dhamidi/cfront/grammar"
	"github.com/dhamidi/cfront/lr1"
	"github.com/spf13/cobra"
)

func newGrammarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect and check grammar files",
		Long: `Inspect and check grammar files.

Every subcommand takes an optional grammar file. Without one the grammar
configured in cfront.toml is used, or the built-in minic grammar.`,
	}

	cmd.AddCommand(newGrammarShowCmd(a))
	cmd.AddCommand(newGrammarFirstCmd(a))
	cmd.AddCommand(newGrammarCheckCmd(a))
	cmd.AddCommand(newGrammarEBNFCmd(a))

	return cmd
}

func (a *app) loadGrammar(args []string) (*grammar.Grammar, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return frontend.LoadGrammar(a.frontendOptions(path))
}

func newGrammarShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [grammar]",
		Short: "Print tokens, start symbol and numbered productions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar(args)
			if err != nil {
				return err
			}
			fmt.Print(g)
			return nil
		},
	}
}

func newGrammarFirstCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "first [grammar]",
		Short: "Print the FIRST set of every nonterminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(outputFormat, format.Text, format.Text, format.JSON, format.YAML)
			if err != nil {
				return err
			}
			g, err := a.loadGrammar(args)
			if err != nil {
				return err
			}

			if f != format.Text {
				return format.EncodeData(os.Stdout, g.FirstSets(), f)
			}
			sets := g.FirstSets()
			for _, sym := range g.Nonterminals() {
				name := g.Name(sym)
				fmt.Printf("FIRST(%s) = { %s }\n", name, strings.Join(sets[name], " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text, json or yaml")

	return cmd
}

func newGrammarCheckCmd(a *app) *cobra.Command {
	var allowConflicts bool

	cmd := &cobra.Command{
		Use:   "check [grammar]",
		Short: "Validate a grammar and report LR(1) conflicts",
		Long: `Validate a grammar and report LR(1) conflicts.

The grammar is loaded, rendered as EBNF and verified, and its LR(1) tables
are built. Unreachable nonterminals are reported as warnings. Conflicts are
errors unless --allow-conflicts is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar(args)
			if err != nil {
				return err
			}

			if err := g.VerifyEBNF(); err != nil {
				fmt.Fprintln(os.Stderr, "warning: ebnf verification failed:")
				printErrors(err)
			}

			var opts []lr1.Option
			if allowConflicts || a.project.Config.Grammar.AllowConflicts {
				opts = append(opts, lr1.AllowConflicts())
			}
			tables, err := lr1.BuildTables(g, opts...)
			if tables != nil {
				for _, c := range tables.Conflicts {
					fmt.Fprintln(os.Stderr, c)
				}
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d terminals, %d nonterminals, %d productions, %d states\n",
				g.Source(), len(g.Terminals()), len(g.Nonterminals()), g.NumProductions(), tables.NumStates())
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowConflicts, "allow-conflicts", false, "accept conflicts, keeping the first action")

	return cmd
}

func newGrammarEBNFCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ebnf [grammar]",
		Short: "Print the grammar in EBNF notation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar(args)
			if err != nil {
				return err
			}
			fmt.Print(g.EBNF())
			return nil
		},
	}
}
