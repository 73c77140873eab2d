//go:build windows
// +build windows

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jet/winsec"
)

func newSidCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sid <sid-or-account>",
		Short: "Resolve between a SID and an account name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]
			w := cmd.OutOrStdout()
			if strings.HasPrefix(strings.ToUpper(arg), "S-") {
				sid, err := winsec.ParseSID(arg)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "SID:     %s\n", sid)
				domain, name, err := sid.LookupAccount()
				if err != nil {
					fmt.Fprintf(w, "Account: <unresolved: %v>\n", err)
					return nil
				}
				fmt.Fprintf(w, "Account: %s\\%s\n", domain, name)
				return nil
			}
			sid, err := winsec.LookupAccountSID("", arg)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Account: %s\n", arg)
			fmt.Fprintf(w, "SID:     %s\n", sid)
			return nil
		},
	}
}
