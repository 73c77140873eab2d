package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jet/winsec/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the winsec version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.GetInfo().FullString(true))
			return err
		},
	}
}
