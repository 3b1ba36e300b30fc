package main

import (
	"github.com/dhamidi/cfront/frontend"
	"github.com/dhamidi/cfront/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			fe, err := frontend.Load(a.frontendOptions(""))
			if err != nil {
				return err
			}
			return lsp.NewServer(fe, version).RunStdio()
		},
	}
}
