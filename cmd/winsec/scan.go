//go:build windows
// +build windows

package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jet/winsec"
	"github.com/jet/winsec/log"
	"github.com/jet/winsec/metrics"
)

func newScanCommand(logger log.Logger) *cobra.Command {
	var withSacl bool
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Walk a directory tree and summarize its security descriptors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &metrics.Metrics{Namespace: "winsec"}
			m.Init()
			if metricsAddr == "" {
				metricsAddr = MetricsAddress()
			}
			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle(DefaultMetricsEndpoint, m.Handler())
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				go func() {
					logger.Logf("metrics on http://%s%s", metricsAddr, DefaultMetricsEndpoint)
					logger.Error(srv.ListenAndServe(), "metrics server stopped")
				}()
			}
			return runScan(cmd, args[0], withSacl, m, logger)
		},
	}
	cmd.Flags().BoolVar(&withSacl, "sacl", false, "enable SeSecurityPrivilege and read SACLs")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve prometheus metrics on while scanning")
	return cmd
}

func runScan(cmd *cobra.Command, root string, withSacl bool, m *metrics.Metrics, logger log.Logger) error {
	var token *winsec.ElevatedToken
	if withSacl {
		var err error
		token, err = winsec.NewPrivilegeToken().TryElevate()
		m.OnElevation(err)
		if err != nil {
			return errors.Wrap(err, "unable to enable SeSecurityPrivilege")
		}
		defer token.Close()
	}

	var scanned, failed, sacls int
	owners := make(map[string]int)
	start := time.Now()
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			failed++
			m.OnScanObject(err)
			logger.Error(err, "unable to visit "+path)
			return nil
		}
		var sd *winsec.SecurityDescriptor
		if withSacl {
			sd, err = winsec.SecurityDescriptorFromPathElevated(token, path)
		} else {
			sd, err = winsec.SecurityDescriptorFromPath(path)
		}
		m.OnDescriptorRead(err, withSacl)
		m.OnScanObject(err)
		if err != nil {
			failed++
			logger.Error(err, "unable to read descriptor of "+path)
			return nil
		}
		scanned++
		if owner := sd.OwnerSID(); owner != nil {
			owners[ownerKey(owner, m)]++
		}
		if present, _ := sd.SaclPresent(); present {
			sacls++
		}
		return nil
	})
	m.OnScanDone(time.Since(start))
	if walkErr != nil {
		return walkErr
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Scanned %d objects in %s (%d unreadable)\n", scanned, time.Since(start).Round(time.Millisecond), failed)
	if withSacl {
		fmt.Fprintf(w, "Objects with a SACL: %d\n", sacls)
	}
	fmt.Fprintln(w, "Owners:")
	names := make([]string, 0, len(owners))
	for name := range owners {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return owners[names[i]] > owners[names[j]] })
	for _, name := range names {
		fmt.Fprintf(w, "  %6d  %s\n", owners[name], name)
	}
	return nil
}

func ownerKey(sid *winsec.SID, m *metrics.Metrics) string {
	domain, name, err := sid.LookupAccount()
	m.OnLookup(err)
	if err != nil {
		return sid.String()
	}
	return fmt.Sprintf("%s\\%s (%s)", domain, name, sid)
}
