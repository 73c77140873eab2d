package winsec

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// AceType identifies the kind of access control entry.
type AceType uint8

const (
	AceTypeAccessAllowed         AceType = 0x00
	AceTypeAccessDenied          AceType = 0x01
	AceTypeSystemAudit           AceType = 0x02
	AceTypeAccessAllowedCallback AceType = 0x09
	AceTypeAccessDeniedCallback  AceType = 0x0A
	AceTypeSystemAuditCallback   AceType = 0x0D
)

func (t AceType) String() string {
	switch t {
	case AceTypeAccessAllowed:
		return "ACCESS_ALLOWED"
	case AceTypeAccessDenied:
		return "ACCESS_DENIED"
	case AceTypeSystemAudit:
		return "SYSTEM_AUDIT"
	case AceTypeAccessAllowedCallback:
		return "ACCESS_ALLOWED_CALLBACK"
	case AceTypeAccessDeniedCallback:
		return "ACCESS_DENIED_CALLBACK"
	case AceTypeSystemAuditCallback:
		return "SYSTEM_AUDIT_CALLBACK"
	}
	return "UNKNOWN"
}

// AceFlags carries the inheritance and audit bits of an ACE header.
type AceFlags uint8

const (
	ObjectInheritAce      AceFlags = 0x01
	ContainerInheritAce   AceFlags = 0x02
	NoPropagateInheritAce AceFlags = 0x04
	InheritOnlyAce        AceFlags = 0x08
	InheritedAce          AceFlags = 0x10
	SuccessfulAccessAce   AceFlags = 0x40
	FailedAccessAce       AceFlags = 0x80
)

const (
	aclRevision   = 2
	aclHeaderSize = 8

	// aceFixedSize is the ACE header plus the access mask, before the SID.
	aceFixedSize = 8

	// maxACLSize is the OS cap on total ACL bytes. The size field of the
	// ACL header is 16 bits wide and ACEs are 4-byte aligned.
	maxACLSize = 0xFFFC

	// initialACLCapacity leaves room for a handful of ACEs with maximum
	// size SIDs before the backing buffer has to grow.
	initialACLCapacity = aclHeaderSize + 8*(aceFixedSize+maxSIDSize)
)

// ACL is an ordered list of access control entries backed by a single
// contiguous buffer in the OS wire layout (an 8-byte header followed by
// packed ACEs). Appending may grow the buffer; existing entries are never
// reordered. A fully constructed ACL is safe for concurrent reads, but
// mutation must be confined to a single goroutine.
type ACL struct {
	buf []byte

	// borrowed marks ACLs that alias a SecurityDescriptor's buffer.
	// The first mutation copies the bytes so the descriptor stays intact.
	borrowed bool
}

// NewACL allocates an empty, valid ACL with a fixed starting capacity.
func NewACL() *ACL {
	buf := make([]byte, aclHeaderSize, initialACLCapacity)
	buf[0] = aclRevision
	binary.LittleEndian.PutUint16(buf[2:4], aclHeaderSize)
	return &ACL{buf: buf}
}

// ParseACL copies and validates an ACL in wire layout.
func ParseACL(b []byte) (*ACL, error) {
	a, err := aclView(b)
	if err != nil {
		return nil, err
	}
	return &ACL{buf: append([]byte(nil), a.buf...)}, nil
}

// aclView wraps ACL bytes inside a parent buffer without copying.
func aclView(b []byte) (*ACL, error) {
	if len(b) < aclHeaderSize {
		return nil, &OsError{Op: "ParseACL", Code: errorInvalidACL}
	}
	size := int(binary.LittleEndian.Uint16(b[2:4]))
	if size < aclHeaderSize || size > len(b) {
		return nil, &OsError{Op: "ParseACL", Code: errorInvalidACL}
	}
	return &ACL{buf: b[:size], borrowed: true}, nil
}

// AceCount returns the number of ACEs in the list.
func (a *ACL) AceCount() int {
	return int(binary.LittleEndian.Uint16(a.buf[4:6]))
}

// ByteSize returns the total size of the ACL in bytes.
func (a *ACL) ByteSize() int {
	return int(binary.LittleEndian.Uint16(a.buf[2:4]))
}

// Revision returns the ACL revision level.
func (a *ACL) Revision() uint8 { return a.buf[0] }

// Bytes returns a copy of the ACL in wire layout.
func (a *ACL) Bytes() []byte {
	return append([]byte(nil), a.buf...)
}

// Allow appends an access-allowed ACE granting mask to sid.
func (a *ACL) Allow(mask AccessMask, sid *SID) error {
	return a.addAce(AceTypeAccessAllowed, 0, mask, sid)
}

// Deny appends an access-denied ACE.
//
// Appending never reorders existing entries: the OS evaluates ACEs in
// storage order, so callers wanting deny-before-allow semantics must
// append denies first.
func (a *ACL) Deny(mask AccessMask, sid *SID) error {
	return a.addAce(AceTypeAccessDenied, 0, mask, sid)
}

// Audit appends a system-audit ACE logging both successful and failed
// access attempts for mask by sid. Audit ACEs belong in a SACL.
func (a *ACL) Audit(mask AccessMask, sid *SID) error {
	return a.addAce(AceTypeSystemAudit, SuccessfulAccessAce|FailedAccessAce, mask, sid)
}

// AddAce appends an ACE of an explicit type with explicit header flags.
func (a *ACL) AddAce(aceType AceType, flags AceFlags, mask AccessMask, sid *SID) error {
	return a.addAce(aceType, flags, mask, sid)
}

// addAce is atomic: on any error the ACL's count and size are unchanged.
func (a *ACL) addAce(aceType AceType, flags AceFlags, mask AccessMask, sid *SID) error {
	if sid == nil || !sid.IsValid() {
		return errors.Wrap(ErrInvalidSID, "addAce")
	}
	sidLen := sid.Len()
	aceSize := (aceFixedSize + sidLen + 3) &^ 3
	newSize := a.ByteSize() + aceSize
	if newSize > maxACLSize {
		return errors.Wrapf(ErrBufferExhausted, "%d bytes would exceed the %d byte ACL cap", newSize, maxACLSize)
	}
	if a.borrowed {
		a.buf = append([]byte(nil), a.buf...)
		a.borrowed = false
	}
	ace := make([]byte, aceSize)
	ace[0] = byte(aceType)
	ace[1] = byte(flags)
	binary.LittleEndian.PutUint16(ace[2:4], uint16(aceSize))
	binary.LittleEndian.PutUint32(ace[4:8], mask.Uint32())
	copy(ace[aceFixedSize:], sid.data[:sidLen])
	a.buf = append(a.buf, ace...)
	binary.LittleEndian.PutUint16(a.buf[2:4], uint16(newSize))
	binary.LittleEndian.PutUint16(a.buf[4:6], uint16(a.AceCount()+1))
	return nil
}

// RemoveAce deletes the entry at the given zero-based index, preserving the
// order of the remaining entries. Fails without changing the ACL when the
// index is out of range.
func (a *ACL) RemoveAce(index int) error {
	if index < 0 || index >= a.AceCount() {
		return errors.Errorf("RemoveAce: index %d out of range, ACL has %d entries", index, a.AceCount())
	}
	off := aclHeaderSize
	for i := 0; i <= index; i++ {
		if off+aceFixedSize > len(a.buf) {
			return &OsError{Op: "RemoveAce", Code: errorInvalidACL}
		}
		size := int(binary.LittleEndian.Uint16(a.buf[off+2 : off+4]))
		if size < aceFixedSize || off+size > len(a.buf) {
			return &OsError{Op: "RemoveAce", Code: errorInvalidACL}
		}
		if i == index {
			if a.borrowed {
				a.buf = append([]byte(nil), a.buf...)
				a.borrowed = false
			}
			newSize := a.ByteSize() - size
			a.buf = append(a.buf[:off], a.buf[off+size:]...)
			binary.LittleEndian.PutUint16(a.buf[2:4], uint16(newSize))
			binary.LittleEndian.PutUint16(a.buf[4:6], uint16(a.AceCount()-1))
			return nil
		}
		off += size
	}
	return nil
}

// Ace is a read-only view of one entry inside its parent ACL's buffer.
// It never outlives the parent; extract the SID with Copy to keep it.
type Ace struct {
	acl *ACL
	off int
}

// Type returns the ACE type byte.
func (e Ace) Type() AceType { return AceType(e.acl.buf[e.off]) }

// Flags returns the inheritance and audit flag bits.
func (e Ace) Flags() AceFlags { return AceFlags(e.acl.buf[e.off+1]) }

// Size returns the total ACE size in bytes, including the embedded SID.
func (e Ace) Size() int {
	return int(binary.LittleEndian.Uint16(e.acl.buf[e.off+2 : e.off+4]))
}

// Mask returns the access mask of the entry.
func (e Ace) Mask() AccessMask {
	return AccessMask(binary.LittleEndian.Uint32(e.acl.buf[e.off+4 : e.off+8]))
}

// SID parses the embedded SID lazily and returns a view into the ACL
// buffer. A corrupt SID fails here with ErrInvalidSID rather than failing
// iteration of the list itself.
func (e Ace) SID() (*SID, error) {
	b := e.acl.buf[e.off+aceFixedSize:]
	if max := e.Size() - aceFixedSize; max >= 0 && max < len(b) {
		b = b[:max]
	}
	s := sidView(b)
	if err := s.validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidSID, err.Error())
	}
	return sidView(b[:s.Len()]), nil
}

// AceIterator walks the ACEs of an ACL in storage order. Obtain a fresh
// iterator from ACL.Aces to restart. The iterator is invalidated by any
// mutation of the ACL.
type AceIterator struct {
	acl *ACL
	idx int
	off int
}

// Aces returns an iterator over the entries in storage order.
func (a *ACL) Aces() *AceIterator {
	return &AceIterator{acl: a, off: aclHeaderSize}
}

// Next yields the next entry view, or false when the list is exhausted or
// an entry header is structurally broken.
func (it *AceIterator) Next() (Ace, bool) {
	if it.idx >= it.acl.AceCount() {
		return Ace{}, false
	}
	if it.off+aceFixedSize > len(it.acl.buf) {
		return Ace{}, false
	}
	size := int(binary.LittleEndian.Uint16(it.acl.buf[it.off+2 : it.off+4]))
	if size < aceFixedSize || it.off+size > len(it.acl.buf) {
		return Ace{}, false
	}
	ace := Ace{acl: it.acl, off: it.off}
	it.off += size
	it.idx++
	return ace, true
}
