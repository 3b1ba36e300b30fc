package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/frontend"
	"github.com/dhamidi/cfront/project"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// app is the state shared by every subcommand once the root command has
// loaded the project.
type app struct {
	configPath string
	verbosity  int
	project    *project.Project
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "cfront",
		Short:         "Scanner and LR(1) parser front end for a C subset",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to "+project.FileName+" (default: search upwards)")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newGrammarCmd(a))
	rootCmd.AddCommand(newTablesCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newInitCmd())

	if err := rootCmd.Execute(); err != nil {
		printErrors(err)
		os.Exit(1)
	}
}

func (a *app) load() error {
	var err error
	if a.configPath != "" {
		a.project, err = project.LoadFile(a.configPath)
	} else {
		a.project, err = project.Load()
	}
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	verbosity := a.verbosity
	if verbosity == 0 {
		verbosity = a.project.Config.Log.Verbosity
	}
	commonlog.Configure(verbosity, nil)
	return nil
}

// frontendOptions returns the project's frontend options. A non-empty
// grammarPath replaces the configured grammar.
func (a *app) frontendOptions(grammarPath string) frontend.Options {
	cfg := a.project.Config
	opts := frontend.Options{
		GrammarPath:    a.project.GrammarPath(),
		Start:          cfg.Grammar.Start,
		AllowConflicts: cfg.Grammar.AllowConflicts,
		CachePath:      a.project.CachePath(),
	}
	if grammarPath != "" {
		opts.GrammarPath = grammarPath
		opts.CachePath = ""
	}
	return opts
}

// outputFormat resolves the --format flag against the project default.
// fallback is used when neither is set or the configured format does not
// apply to the command.
func (a *app) outputFormat(flag string, fallback format.Format, allowed ...format.Format) (format.Format, error) {
	if flag != "" {
		f, err := format.Parse(flag)
		if err != nil {
			return "", err
		}
		for _, ok := range allowed {
			if f == ok {
				return f, nil
			}
		}
		return "", fmt.Errorf("format %q is not supported here", flag)
	}

	if f, err := format.Parse(a.project.Config.Output.Format); err == nil {
		for _, ok := range allowed {
			if f == ok {
				return f, nil
			}
		}
	}
	return fallback, nil
}

// printErrors prints list errors one per line. Wrapped lists are found by
// unwrapping.
func printErrors(err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(os.Stderr, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, err)
}
