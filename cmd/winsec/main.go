//go:build windows
// +build windows

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jet/winsec"
	"github.com/jet/winsec/log"
)

func main() {
	logger, err := log.NewLogger(LogConfigFromEnvironment())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	winsec.SetLogger(logger)

	root := &cobra.Command{
		Use:           "winsec",
		Short:         "Inspect Windows security descriptors, ACLs and SIDs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newShowCommand(),
		newSidCommand(),
		newScanCommand(logger),
		newVersionCommand(),
	)
	if err := root.Execute(); err != nil {
		logger.Error(err, "winsec command failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
