package winsec

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes callers are expected to branch on.
// OS-level failures that do not map onto one of these are returned as *OsError.
var (
	// ErrMalformedSID indicates a SID string or buffer that does not follow
	// the S-R-I-S... grammar or the binary SID layout.
	ErrMalformedSID = errors.New("winsec: malformed SID")

	// ErrInvalidSID indicates a SID embedded in an ACE failed to parse.
	ErrInvalidSID = errors.New("winsec: invalid SID in ACE")

	// ErrAccountNotFound indicates a SID has no matching account on this machine.
	ErrAccountNotFound = errors.New("winsec: account not found")

	// ErrAccessDenied indicates the caller lacks the rights for the operation.
	ErrAccessDenied = errors.New("winsec: access denied")

	// ErrInsufficientRights indicates a privilege elevation attempt was
	// rejected because the privilege is not held by the caller's token.
	// This is distinct from ErrAccessDenied, which covers object access.
	ErrInsufficientRights = errors.New("winsec: insufficient rights to elevate")

	// ErrBufferExhausted indicates an ACL append would exceed the maximum
	// ACL size. The ACL is left unchanged.
	ErrBufferExhausted = errors.New("winsec: ACL buffer exhausted")

	// ErrNotFound indicates the named object does not exist.
	ErrNotFound = errors.New("winsec: object not found")
)

// OS status codes reported for structurally broken buffers. These match
// the codes the OS itself uses for the same conditions.
const (
	errorInvalidACL           = 1336 // ERROR_INVALID_ACL
	errorInvalidSID           = 1337 // ERROR_INVALID_SID
	errorInvalidSecurityDescr = 1338 // ERROR_INVALID_SECURITY_DESCR
)

// OsError wraps an OS status code that has no dedicated sentinel.
type OsError struct {
	Op   string
	Code uint32
}

func (e *OsError) Error() string {
	return fmt.Sprintf("winsec: %s failed with code %#x", e.Op, e.Code)
}
