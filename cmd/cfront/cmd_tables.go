package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/lr1"
	"github.com/spf13/cobra"
)

func newTablesCmd(a *app) *cobra.Command {
	var output string
	var outputFormat string
	var allowConflicts bool

	cmd := &cobra.Command{
		Use:   "tables [grammar]",
		Short: "Build the LR(1) parsing tables of a grammar",
		Long: `Build the LR(1) parsing tables of a grammar.

With -o the tables are written as a snapshot that "cfront parse" can load
instead of rebuilding; the encoding is JSON for .json files and YAML
otherwise. Without -o the tables are printed as a grid of actions and
gotos, as one line per state (--format text), or as a JSON or YAML
snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGrammar(args)
			if err != nil {
				return err
			}

			var opts []lr1.Option
			if allowConflicts || a.project.Config.Grammar.AllowConflicts {
				opts = append(opts, lr1.AllowConflicts())
			}
			tables, err := lr1.BuildTables(g, opts...)
			if err != nil {
				if tables != nil {
					for _, c := range tables.Conflicts {
						fmt.Fprintln(os.Stderr, c)
					}
				}
				return err
			}

			fmt.Fprintf(os.Stderr, "%d states, %d conflicts\n", tables.NumStates(), len(tables.Conflicts))

			if output != "" {
				if err := format.WriteSnapshot(output, tables.Snapshot(g)); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "wrote %s\n", output)
				return nil
			}

			f, err := a.outputFormat(outputFormat, format.Table, format.Table, format.Text, format.JSON, format.YAML)
			if err != nil {
				return err
			}
			switch f {
			case format.Table:
				fmt.Println(format.ActionTable(g, tables))
			case format.Text:
				fmt.Print(tables.Format(g))
			default:
				return format.EncodeSnapshot(os.Stdout, tables.Snapshot(g), f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write a tables snapshot to this file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: table, text, json or yaml")
	cmd.Flags().BoolVar(&allowConflicts, "allow-conflicts", false, "accept conflicts, keeping the first action")

	return cmd
}
