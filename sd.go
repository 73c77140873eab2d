package winsec

import (
	"encoding/binary"
)

// Security descriptor control flags.
// https://docs.microsoft.com/en-us/windows/desktop/SecAuthZ/security-descriptor-control
const (
	SEOwnerDefaulted uint16 = 0x0001
	SEGroupDefaulted uint16 = 0x0002
	SEDaclPresent    uint16 = 0x0004
	SEDaclDefaulted  uint16 = 0x0008
	SESaclPresent    uint16 = 0x0010
	SESaclDefaulted  uint16 = 0x0020
	SESelfRelative   uint16 = 0x8000
)

const sdHeaderSize = 20

// SecurityDescriptor holds the full permission state of one object: owner
// and group SIDs, an optional DACL, and an optional SACL. It owns a single
// self-relative buffer for its lifetime; every sub-object accessor returns
// a view into that buffer.
//
// Descriptors are acquired from named objects on Windows (see
// SecurityDescriptorFromPath) or parsed from self-relative bytes, and are
// immutable, so fully constructed values are safe for concurrent reads.
type SecurityDescriptor struct {
	buf []byte
}

// ParseSecurityDescriptor copies and validates a security descriptor in
// self-relative layout: a 20-byte header of control flags and component
// offsets, followed by the components themselves.
func ParseSecurityDescriptor(b []byte) (*SecurityDescriptor, error) {
	if len(b) < sdHeaderSize {
		return nil, &OsError{Op: "ParseSecurityDescriptor", Code: errorInvalidSecurityDescr}
	}
	sd := &SecurityDescriptor{buf: append([]byte(nil), b...)}
	// reject descriptors whose offsets point outside the buffer
	for _, off := range []uint32{sd.ownerOffset(), sd.groupOffset(), sd.saclOffset(), sd.daclOffset()} {
		if off != 0 && int(off) >= len(sd.buf) {
			return nil, &OsError{Op: "ParseSecurityDescriptor", Code: errorInvalidSecurityDescr}
		}
	}
	return sd, nil
}

// Revision returns the descriptor revision level.
func (sd *SecurityDescriptor) Revision() uint8 { return sd.buf[0] }

// Control returns the raw control flag word.
func (sd *SecurityDescriptor) Control() uint16 {
	return binary.LittleEndian.Uint16(sd.buf[2:4])
}

func (sd *SecurityDescriptor) ownerOffset() uint32 { return binary.LittleEndian.Uint32(sd.buf[4:8]) }
func (sd *SecurityDescriptor) groupOffset() uint32 { return binary.LittleEndian.Uint32(sd.buf[8:12]) }
func (sd *SecurityDescriptor) saclOffset() uint32  { return binary.LittleEndian.Uint32(sd.buf[12:16]) }
func (sd *SecurityDescriptor) daclOffset() uint32  { return binary.LittleEndian.Uint32(sd.buf[16:20]) }

// OwnerSID returns a view of the owner SID, or nil when no owner is set.
func (sd *SecurityDescriptor) OwnerSID() *SID {
	return sd.sidAt(sd.ownerOffset())
}

// GroupSID returns a view of the primary group SID, or nil when no group is set.
func (sd *SecurityDescriptor) GroupSID() *SID {
	return sd.sidAt(sd.groupOffset())
}

func (sd *SecurityDescriptor) sidAt(off uint32) *SID {
	if off == 0 || int(off) >= len(sd.buf) {
		return nil
	}
	s := sidView(sd.buf[off:])
	if err := s.validate(); err != nil {
		return nil
	}
	return sidView(sd.buf[off : int(off)+s.Len()])
}

// DACL returns a borrowed view of the discretionary ACL, or nil when the
// descriptor carries none. Per OS semantics an absent DACL means no
// discretionary restriction at all, not an empty one.
func (sd *SecurityDescriptor) DACL() *ACL {
	if sd.Control()&SEDaclPresent == 0 {
		return nil
	}
	return sd.aclAt(sd.daclOffset())
}

// SACL returns a borrowed view of the system (audit) ACL, or nil when it is
// absent. The SACL is only populated by the elevated acquisition paths.
func (sd *SecurityDescriptor) SACL() *ACL {
	if sd.Control()&SESaclPresent == 0 {
		return nil
	}
	return sd.aclAt(sd.saclOffset())
}

func (sd *SecurityDescriptor) aclAt(off uint32) *ACL {
	if off == 0 || int(off) >= len(sd.buf) {
		return nil
	}
	acl, err := aclView(sd.buf[off:])
	if err != nil {
		return nil
	}
	return acl
}

// DaclPresent reads the DACL presence flag from the control word rather
// than trusting the cached component views, so a corrupted buffer surfaces
// as an error instead of a silently absent ACL.
func (sd *SecurityDescriptor) DaclPresent() (bool, error) {
	if len(sd.buf) < sdHeaderSize {
		return false, &OsError{Op: "DaclPresent", Code: errorInvalidSecurityDescr}
	}
	return sd.Control()&SEDaclPresent != 0, nil
}

// SaclPresent reads the SACL presence flag from the control word.
func (sd *SecurityDescriptor) SaclPresent() (bool, error) {
	if len(sd.buf) < sdHeaderSize {
		return false, &OsError{Op: "SaclPresent", Code: errorInvalidSecurityDescr}
	}
	return sd.Control()&SESaclPresent != 0, nil
}

// OwnerDefaulted reports whether the owner was set by a defaulting mechanism.
func (sd *SecurityDescriptor) OwnerDefaulted() bool {
	return sd.Control()&SEOwnerDefaulted != 0
}

// GroupDefaulted reports whether the group was set by a defaulting mechanism.
func (sd *SecurityDescriptor) GroupDefaulted() bool {
	return sd.Control()&SEGroupDefaulted != 0
}

// DaclDefaulted reports whether the DACL was supplied by a default.
func (sd *SecurityDescriptor) DaclDefaulted() bool {
	return sd.Control()&SEDaclDefaulted != 0
}

// SaclDefaulted reports whether the SACL was supplied by a default.
func (sd *SecurityDescriptor) SaclDefaulted() bool {
	return sd.Control()&SESaclDefaulted != 0
}

// Bytes returns a copy of the descriptor in self-relative layout.
func (sd *SecurityDescriptor) Bytes() []byte {
	return append([]byte(nil), sd.buf...)
}
