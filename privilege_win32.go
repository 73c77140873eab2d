//go:build windows
// +build windows

package winsec

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

var (
	procLookupPrivilegeValueW = advapi32DLL.NewProc("LookupPrivilegeValueW")
	procAdjustTokenPrivileges = advapi32DLL.NewProc("AdjustTokenPrivileges")
	procGetTokenInformation   = advapi32DLL.NewProc("GetTokenInformation")
)

// securityPrivilegeName is SE_SECURITY_NAME, the privilege that guards
// SACL reads and writes. It is normally disabled even for administrators
// and must be enabled on the process token before a SACL can be read.
const securityPrivilegeName = "SeSecurityPrivilege"

const (
	_SE_PRIVILEGE_ENABLED uint32 = 0x2

	// TOKEN_INFORMATION_CLASS
	_TokenElevation uint32 = 20
)

// typedef struct _LUID {
//   DWORD LowPart;
//   LONG  HighPart;
// } LUID, *PLUID;
type _LUID struct {
	LowPart  uint32
	HighPart int32
}

// typedef struct _LUID_AND_ATTRIBUTES {
//   LUID  Luid;
//   DWORD Attributes;
// } LUID_AND_ATTRIBUTES, *PLUID_AND_ATTRIBUTES;
type _LUID_AND_ATTRIBUTES struct {
	Luid       _LUID
	Attributes uint32
}

type _TOKEN_PRIVILEGES struct {
	PrivilegeCount uint32
	Privileges     [1]_LUID_AND_ATTRIBUTES
}

// PrivilegeToken models an attempt to enable the security privilege
// required to read SACLs. It carries no OS state until TryElevate.
type PrivilegeToken struct{}

// NewPrivilegeToken returns a token in its initial, non-elevated state.
func NewPrivilegeToken() *PrivilegeToken {
	return &PrivilegeToken{}
}

// TryElevate enables SeSecurityPrivilege on the current process token.
// Fails with ErrInsufficientRights when the privilege is not held (the
// caller is not an administrator); other OS denials surface as *OsError.
// The returned ElevatedToken is the only value accepted by the elevated
// descriptor acquisition calls.
func (t *PrivilegeToken) TryElevate() (*ElevatedToken, error) {
	if err := adjustSecurityPrivilege(true); err != nil {
		return nil, err
	}
	return &ElevatedToken{}, nil
}

// ElevatedToken proves that SeSecurityPrivilege has been enabled. The
// privilege stays enabled on the process token until Close, which reverts
// it best-effort. Concurrent elevation from multiple goroutines races at
// the OS level; serializing it is the caller's responsibility.
type ElevatedToken struct {
	closed bool
}

// Close reverts the privilege. A failed revert is reported through the
// package logger and the returned error, never escalated further.
func (t *ElevatedToken) Close() error {
	if t == nil || t.closed {
		return nil
	}
	t.closed = true
	err := adjustSecurityPrivilege(false)
	LogError(err, "winsec: unable to revert "+securityPrivilegeName)
	return err
}

func (t *ElevatedToken) valid() error {
	if t == nil || t.closed {
		return errors.Wrap(ErrInsufficientRights, "elevated token required")
	}
	return nil
}

// IsAdmin reports whether the current process runs with an elevated
// (administrator) token. It is independent of any PrivilegeToken.
func IsAdmin() (bool, error) {
	hProc, err := syscall.GetCurrentProcess()
	if err != nil {
		return false, mapWinError("GetCurrentProcess", err)
	}
	var hToken syscall.Token
	if err := syscall.OpenProcessToken(hProc, syscall.TOKEN_QUERY, &hToken); err != nil {
		return false, mapWinError("OpenProcessToken", err)
	}
	defer CloseLogErr(hToken, "winsec: unable to close process token")
	var elevation, outLen uint32
	ret, _, errno := procGetTokenInformation.Call(
		uintptr(hToken),
		uintptr(_TokenElevation),
		uintptr(unsafe.Pointer(&elevation)),
		unsafe.Sizeof(elevation),
		uintptr(unsafe.Pointer(&outLen)),
	)
	if err := testReturnCodeNonZero(ret, errno); err != nil {
		return false, mapWinError("GetTokenInformation", err)
	}
	return elevation != 0, nil
}

func adjustSecurityPrivilege(enable bool) error {
	hProc, err := syscall.GetCurrentProcess()
	if err != nil {
		return mapWinError("GetCurrentProcess", err)
	}
	var hToken syscall.Token
	if err := syscall.OpenProcessToken(hProc, syscall.TOKEN_ADJUST_PRIVILEGES|syscall.TOKEN_QUERY, &hToken); err != nil {
		return mapWinError("OpenProcessToken", err)
	}
	defer CloseLogErr(hToken, "winsec: unable to close process token")

	var luid _LUID
	lpName := Text(securityPrivilegeName).WChars()
	ret, _, errno := procLookupPrivilegeValueW.Call(
		NULL,
		uintptr(unsafe.Pointer(lpName)),
		uintptr(unsafe.Pointer(&luid)),
	)
	if err := testReturnCodeNonZero(ret, errno); err != nil {
		return mapWinError("LookupPrivilegeValueW", err)
	}

	var attrs uint32
	if enable {
		attrs = _SE_PRIVILEGE_ENABLED
	}
	tp := _TOKEN_PRIVILEGES{
		PrivilegeCount: 1,
		Privileges: [1]_LUID_AND_ATTRIBUTES{
			{Luid: luid, Attributes: attrs},
		},
	}
	ret, _, errno = procAdjustTokenPrivileges.Call(
		uintptr(hToken),
		0,
		uintptr(unsafe.Pointer(&tp)),
		0,
		NULL,
		NULL,
	)
	if err := testReturnCodeNonZero(ret, errno); err != nil {
		return mapWinError("AdjustTokenPrivileges", err)
	}
	// AdjustTokenPrivileges succeeds even when it assigned nothing; the
	// partial failure is only visible in the thread error state
	if e, ok := errno.(syscall.Errno); ok && e == _ERROR_NOT_ALL_ASSIGNED {
		return errors.Wrapf(ErrInsufficientRights, "%s is not held by the process token", securityPrivilegeName)
	}
	return nil
}
