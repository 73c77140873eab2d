//go:build windows
// +build windows

package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jet/winsec"
)

var objectTypes = map[string]winsec.ObjectType{
	"file":     winsec.ObjectTypeFile,
	"service":  winsec.ObjectTypeService,
	"printer":  winsec.ObjectTypePrinter,
	"registry": winsec.ObjectTypeRegistryKey,
	"share":    winsec.ObjectTypeNetworkShare,
	"kernel":   winsec.ObjectTypeKernelObject,
}

func newShowCommand() *cobra.Command {
	var withSacl bool
	var typeName string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the security descriptor of a named object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectType, ok := objectTypes[typeName]
			if !ok {
				return errors.Errorf("unknown object type %q", typeName)
			}
			sd, err := readDescriptor(args[0], objectType, withSacl)
			if err != nil {
				return err
			}
			return printDescriptor(cmd.OutOrStdout(), sd)
		},
	}
	cmd.Flags().BoolVar(&withSacl, "sacl", false, "enable SeSecurityPrivilege and include the SACL")
	cmd.Flags().StringVar(&typeName, "type", "file", "object type: file, registry, service, share, printer or kernel")
	return cmd
}

func readDescriptor(name string, objectType winsec.ObjectType, withSacl bool) (*winsec.SecurityDescriptor, error) {
	if !withSacl {
		return winsec.SecurityDescriptorFromObject(name, objectType)
	}
	token, err := winsec.NewPrivilegeToken().TryElevate()
	if err != nil {
		return nil, errors.Wrap(err, "unable to enable SeSecurityPrivilege")
	}
	defer token.Close()
	return winsec.SecurityDescriptorFromObjectElevated(token, name, objectType)
}

func printDescriptor(w io.Writer, sd *winsec.SecurityDescriptor) error {
	fmt.Fprintf(w, "Owner: %s\n", accountString(sd.OwnerSID()))
	fmt.Fprintf(w, "Group: %s\n", accountString(sd.GroupSID()))
	if err := printACL(w, "DACL", sd.DACL()); err != nil {
		return err
	}
	return printACL(w, "SACL", sd.SACL())
}

func printACL(w io.Writer, name string, acl *winsec.ACL) error {
	if acl == nil {
		fmt.Fprintf(w, "%s: <absent>\n", name)
		return nil
	}
	fmt.Fprintf(w, "%s (%d entries):\n", name, acl.AceCount())
	for it := acl.Aces(); ; {
		ace, ok := it.Next()
		if !ok {
			return nil
		}
		sid, err := ace.SID()
		if err != nil {
			return errors.Wrapf(err, "reading %s", name)
		}
		fmt.Fprintf(w, "  %-22s %s %s\n", ace.Type(), ace.Mask(), accountString(sid))
	}
}

// accountString renders a SID with its account name when one resolves.
func accountString(sid *winsec.SID) string {
	if sid == nil {
		return "<none>"
	}
	domain, name, err := sid.LookupAccount()
	if err != nil {
		return sid.String()
	}
	if domain != "" {
		return fmt.Sprintf("%s (%s\\%s)", sid, domain, name)
	}
	return fmt.Sprintf("%s (%s)", sid, name)
}
