//go:build windows
// +build windows

package winsec

import (
	"io"
	"syscall"

	"github.com/pkg/errors"
)

var advapi32DLL = syscall.NewLazyDLL("advapi32.dll")

const NULL uintptr = 0

// Error codes not exported by package syscall.
const (
	_ERROR_SERVICE_DOES_NOT_EXIST syscall.Errno = 1060
	_ERROR_NOT_ALL_ASSIGNED       syscall.Errno = 1300
	_ERROR_PRIVILEGE_NOT_HELD     syscall.Errno = 1314
	_ERROR_NONE_MAPPED            syscall.Errno = 1332
)

// testReturnCodeNonZero is a syscall helper function for testing the return code
// for functions that return a handle + error where a zero value is failure
func testReturnCodeNonZero(r1 uintptr, err error) error {
	if r1 == 0 {
		return errnoToError(err)
	}
	return nil
}

func errnoToError(err error) error {
	if errno, ok := err.(syscall.Errno); ok {
		if errno != 0 {
			return errno
		}
		return syscall.EINVAL
	}
	return err
}

// mapWinError folds an OS status into the package error taxonomy, keeping
// the raw code for anything without a dedicated sentinel.
func mapWinError(op string, err error) error {
	errno, ok := err.(syscall.Errno)
	if !ok {
		return errors.Wrap(err, op)
	}
	switch errno {
	case syscall.ERROR_FILE_NOT_FOUND, syscall.ERROR_PATH_NOT_FOUND, _ERROR_SERVICE_DOES_NOT_EXIST:
		return errors.Wrapf(ErrNotFound, "%s: %v", op, err)
	case syscall.ERROR_ACCESS_DENIED:
		return errors.Wrap(ErrAccessDenied, op)
	case _ERROR_NOT_ALL_ASSIGNED, _ERROR_PRIVILEGE_NOT_HELD:
		return errors.Wrap(ErrInsufficientRights, op)
	case _ERROR_NONE_MAPPED:
		return errors.Wrap(ErrAccountNotFound, op)
	case syscall.Errno(errorInvalidSID):
		return errors.Wrap(ErrMalformedSID, op)
	}
	return &OsError{Op: op, Code: uint32(errno)}
}

func CloseLogErr(c io.Closer, errMsg string) {
	LogError(c.Close(), errMsg)
}

func CloseHandleLogErr(h syscall.Handle, errMsg string) {
	LogError(syscall.CloseHandle(h), errMsg)
}
