package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/frontend"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [file...]",
		Short: "Re-parse source files whenever they change",
		Long: `Re-parse source files whenever they change.

Without arguments every source file of the project is watched. Each change
prints the file's diagnostics, or "ok" when it parses cleanly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("invalid --interval %s: must be positive", interval)
			}
			files := args
			if len(files) == 0 {
				var err error
				files, err = a.project.SourceFiles()
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("no source files to watch in %s", a.project.RootDir)
			}

			fe, err := frontend.Load(a.frontendOptions(""))
			if err != nil {
				return err
			}
			return runWatch(fe, files, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "polling interval")

	return cmd
}

func runWatch(fe *frontend.Frontend, files []string, interval time.Duration) error {
	docs := frontend.NewDocuments(fe)

	w := frontend.NewWatcher(files...)
	w.SetInterval(interval)
	w.OnChange = func(path string) {
		doc, err := docs.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return
		}
		if doc.Result.OK() {
			fmt.Printf("%s: ok\n", path)
			return
		}
		format.WriteDiagnostics(os.Stdout, path, doc.Result.Errors(), true)
	}
	w.OnRemove = func(path string) {
		docs.Remove(path)
		fmt.Printf("%s: removed\n", path)
	}

	fmt.Fprintf(os.Stderr, "watching %d files\n", len(files))
	w.Start()
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
