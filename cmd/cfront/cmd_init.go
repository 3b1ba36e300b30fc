package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/cfront/frontend"
	"github.com/dhamidi/cfront/project"
	"github.com/spf13/cobra"
)

const helloSource = `int main(void) {
    int n = 0;
    while (n < 3) {
        n++;
    }
    return n;
}
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a cfront.toml with a copy of the default grammar",
		Long: `Create a cfront.toml with a copy of the default grammar.

If a directory is provided it is created if needed. Otherwise the current
directory is used. Existing files are left untouched.

This command creates:
  - cfront.toml pointing at the grammar and a table cache in .cfront/
  - minic.grammar, the built-in C subset grammar, ready to edit
  - src/main.c, a small program to parse`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir)
		},
	}
}

func runInit(dir string) error {
	cfg := project.DefaultConfig()
	cfg.Grammar.Path = frontend.DefaultGrammarName
	cfg.Tables.Cache = filepath.Join(".cfront", "tables.yaml")
	cfg.Sources.Dirs = []string{"src"}

	path, err := project.Init(dir, cfg)
	switch {
	case errors.Is(err, project.ErrExists):
		fmt.Printf("%s already exists\n", path)
	case err != nil:
		return err
	default:
		fmt.Printf("Created %s\n", path)
	}

	if err := writeIfMissing(filepath.Join(dir, frontend.DefaultGrammarName), frontend.DefaultGrammarText); err != nil {
		return err
	}
	if err := writeIfMissing(filepath.Join(dir, "src", "main.c"), helloSource); err != nil {
		return err
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  - Check the grammar: cfront grammar check")
	fmt.Println("  - Parse a file: cfront parse src/main.c")
	fmt.Println("  - Watch for changes: cfront watch")
	return nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("%s already exists\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}
