//go:build windows
// +build windows

package winsec

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// FromWellKnownSid materializes one of the OS-defined well-known SIDs,
// e.g. windows.WinWorldSid for Everyone. Domain-relative kinds fail on a
// machine with no domain context; use FromWellKnownSidDomain for those.
func FromWellKnownSid(kind windows.WELL_KNOWN_SID_TYPE) (*SID, error) {
	return FromWellKnownSidDomain(kind, nil)
}

// FromWellKnownSidDomain materializes a well-known SID scoped to a domain,
// e.g. windows.WinAccountAdministratorSid relative to a domain or machine
// SID. A nil domain behaves like FromWellKnownSid.
func FromWellKnownSidDomain(kind windows.WELL_KNOWN_SID_TYPE, domain *SID) (*SID, error) {
	var domainSID *windows.SID
	if domain != nil {
		if !domain.IsValid() {
			return nil, errors.Wrap(ErrMalformedSID, "FromWellKnownSidDomain")
		}
		domainSID = (*windows.SID)(unsafe.Pointer(&domain.data[0]))
	}
	sid, err := windows.CreateWellKnownDomainSid(kind, domainSID)
	if err != nil {
		return nil, mapWinError("CreateWellKnownSid", err)
	}
	n := windows.GetLengthSid(sid)
	b := unsafe.Slice((*byte)(unsafe.Pointer(sid)), n)
	return &SID{data: append([]byte(nil), b...)}, nil
}

// LookupAccount resolves the SID to its account name and domain through the
// local machine's account database.
func (s *SID) LookupAccount() (domain string, name string, err error) {
	if !s.IsValid() {
		return "", "", errors.Wrap(ErrMalformedSID, "LookupAccount")
	}
	sid := (*windows.SID)(unsafe.Pointer(&s.data[0]))
	name, domain, _, err = sid.LookupAccount("")
	if err != nil {
		return "", "", mapWinError("LookupAccountSidW", err)
	}
	return domain, name, nil
}

// LookupAccountSID looks up the SID of an account by name ("DOMAIN\\Name",
// "BUILTIN\\Administrators", or a bare local account name). The system name
// is optional.
func LookupAccountSID(system string, name string) (*SID, error) {
	sid, _, _, err := windows.LookupSID(system, name)
	if err != nil {
		return nil, mapWinError("LookupAccountNameW", err)
	}
	n := windows.GetLengthSid(sid)
	b := unsafe.Slice((*byte)(unsafe.Pointer(sid)), n)
	return &SID{data: append([]byte(nil), b...)}, nil
}
