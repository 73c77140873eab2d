package winsec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// https://support.microsoft.com/en-us/help/243330/well-known-security-identifiers-in-windows-operating-systems

const (
	// SIDEveryone is the World group, containing all users.
	SIDEveryone = StringSID("S-1-1-0")

	// SIDLocalSystem is the NT AUTHORITY\SYSTEM service account.
	SIDLocalSystem = StringSID("S-1-5-18")

	// SIDLocalService is the NT AUTHORITY\LOCAL SERVICE account.
	SIDLocalService = StringSID("S-1-5-19")

	// SIDNetworkService is the NT AUTHORITY\NETWORK SERVICE account.
	SIDNetworkService = StringSID("S-1-5-20")

	// SIDAuthenticatedUsers is a group that includes all users whose identities were authenticated when they logged on.
	SIDAuthenticatedUsers = StringSID("S-1-5-11")

	// SIDAdministrators is a built-in group. After the initial installation of the operating system, the only member of the group is the Administrator account.
	SIDAdministrators = StringSID("S-1-5-32-544")

	// SIDUsers is a built-in group. After the initial installation of the operating system, the only member is the Authenticated Users group.
	SIDUsers = StringSID("S-1-5-32-545")

	// SIDGuests is a built-in group. By default, the only member is the Guest account.
	SIDGuests = StringSID("S-1-5-32-546")

	// SIDBackupOperators is a built-in group. Backup Operators can back up and restore all files on a computer, regardless of the permissions that protect those files.
	SIDBackupOperators = StringSID("S-1-5-32-551")

	// SIDAllServices is a group that includes all service processes that are configured on the system. Membership is controlled by the operating system.
	SIDAllServices = StringSID("S-1-5-80-0")
)

const (
	// sidRevision is the only SID revision level defined by the OS.
	sidRevision = 1

	// maxSubAuthorities is the maximum number of sub-authorities in a SID.
	maxSubAuthorities = 15

	// sidHeaderSize is revision + count + 6-byte identifier authority.
	sidHeaderSize = 8

	// maxSIDSize is SECURITY_MAX_SID_SIZE: a full header plus 15 sub-authorities.
	maxSIDSize = sidHeaderSize + maxSubAuthorities*4
)

// StringSID is a string representation of a SID
type StringSID string

// SID converts this string SID into a SID
func (s StringSID) SID() (*SID, error) {
	return ParseSID(string(s))
}

// SID is a Windows security identifier in its binary form: a one-byte
// revision, a sub-authority count, a 48-bit identifier authority, and up to
// 15 32-bit sub-authorities. A SID is immutable once constructed.
//
// Values returned by Ace.SID, SecurityDescriptor.OwnerSID and similar
// accessors are views into their parent's buffer; use Copy to keep one
// beyond the parent's lifetime.
type SID struct {
	data []byte
}

// NewSID builds a SID from an identifier authority and sub-authorities.
// The authority must fit in 48 bits and at most 15 sub-authorities are allowed.
func NewSID(authority uint64, subAuthorities ...uint32) (*SID, error) {
	if authority >= 1<<48 {
		return nil, errors.Wrapf(ErrMalformedSID, "identifier authority %d exceeds 48 bits", authority)
	}
	if len(subAuthorities) > maxSubAuthorities {
		return nil, errors.Wrapf(ErrMalformedSID, "%d sub-authorities exceeds maximum of %d", len(subAuthorities), maxSubAuthorities)
	}
	data := make([]byte, sidHeaderSize+4*len(subAuthorities))
	data[0] = sidRevision
	data[1] = byte(len(subAuthorities))
	putAuthority(data[2:8], authority)
	for i, sub := range subAuthorities {
		binary.LittleEndian.PutUint32(data[sidHeaderSize+4*i:], sub)
	}
	return &SID{data: data}, nil
}

// ParseSID parses the canonical S-R-I-S... string form of a SID.
// The identifier authority may be given in 0x-prefixed hexadecimal, as
// the OS prints it for authorities that do not fit in 32 bits.
func ParseSID(s string) (*SID, error) {
	fields := strings.Split(s, "-")
	if len(fields) < 3 || !strings.EqualFold(fields[0], "S") {
		return nil, errors.Wrapf(ErrMalformedSID, "%q", s)
	}
	revision, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil || revision != sidRevision {
		return nil, errors.Wrapf(ErrMalformedSID, "%q: bad revision", s)
	}
	var authority uint64
	if strings.HasPrefix(fields[2], "0x") || strings.HasPrefix(fields[2], "0X") {
		authority, err = strconv.ParseUint(fields[2][2:], 16, 48)
	} else {
		authority, err = strconv.ParseUint(fields[2], 10, 48)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSID, "%q: bad identifier authority", s)
	}
	subs := make([]uint32, 0, len(fields)-3)
	for _, f := range fields[3:] {
		sub, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedSID, "%q: bad sub-authority %q", s, f)
		}
		subs = append(subs, uint32(sub))
	}
	return NewSID(authority, subs...)
}

// SIDFromBytes copies and validates a binary SID.
func SIDFromBytes(b []byte) (*SID, error) {
	s := &SID{data: b}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &SID{data: append([]byte(nil), b[:s.Len()]...)}, nil
}

// sidView wraps a slice of a parent buffer without copying. The caller is
// responsible for having validated the bytes.
func sidView(b []byte) *SID {
	return &SID{data: b}
}

func (s *SID) validate() error {
	if len(s.data) < sidHeaderSize {
		return errors.Wrapf(ErrMalformedSID, "truncated SID: %d bytes", len(s.data))
	}
	if s.data[0] != sidRevision {
		return errors.Wrapf(ErrMalformedSID, "unsupported SID revision %d", s.data[0])
	}
	count := int(s.data[1])
	if count > maxSubAuthorities {
		return errors.Wrapf(ErrMalformedSID, "%d sub-authorities exceeds maximum of %d", count, maxSubAuthorities)
	}
	if len(s.data) < sidHeaderSize+4*count {
		return errors.Wrapf(ErrMalformedSID, "SID buffer shorter than its sub-authority count")
	}
	return nil
}

// IsValid reports whether the SID buffer is well-formed.
func (s *SID) IsValid() bool {
	return s != nil && s.validate() == nil
}

// Revision returns the SID revision level.
func (s *SID) Revision() uint8 { return s.data[0] }

// SubAuthorityCount returns the number of sub-authorities.
func (s *SID) SubAuthorityCount() int { return int(s.data[1]) }

// Authority returns the 48-bit identifier authority.
func (s *SID) Authority() uint64 {
	var a uint64
	for _, b := range s.data[2:8] {
		a = a<<8 | uint64(b)
	}
	return a
}

// SubAuthority returns the i-th sub-authority.
func (s *SID) SubAuthority(i int) uint32 {
	return binary.LittleEndian.Uint32(s.data[sidHeaderSize+4*i:])
}

// Len returns the size of the SID in bytes.
func (s *SID) Len() int {
	return sidHeaderSize + 4*int(s.data[1])
}

// Equal reports byte-wise identity of revision, authority and sub-authorities.
func (s *SID) Equal(o *SID) bool {
	if s == nil || o == nil {
		return s == o
	}
	if !s.IsValid() || !o.IsValid() {
		return false
	}
	return bytes.Equal(s.data[:s.Len()], o.data[:o.Len()])
}

// Copy returns an independently owned copy of the SID. Use this to keep a
// SID extracted from an ACL or a security descriptor beyond the parent's
// lifetime.
func (s *SID) Copy() *SID {
	return &SID{data: append([]byte(nil), s.data[:s.Len()]...)}
}

// Bytes returns a copy of the binary SID.
func (s *SID) Bytes() []byte {
	return append([]byte(nil), s.data[:s.Len()]...)
}

// StringErr formats the SID in its canonical S-R-I-S... form.
// Returns an error if the underlying buffer is malformed.
func (s *SID) StringErr() (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	authority := s.Authority()
	if authority < 1<<32 {
		fmt.Fprintf(&sb, "S-%d-%d", s.Revision(), authority)
	} else {
		// the OS prints authorities above 32 bits as 12 hex digits
		fmt.Fprintf(&sb, "S-%d-0x%012X", s.Revision(), authority)
	}
	for i := 0; i < s.SubAuthorityCount(); i++ {
		fmt.Fprintf(&sb, "-%d", s.SubAuthority(i))
	}
	return sb.String(), nil
}

// String formats the SID in its canonical form.
// If there is an error formatting the SID, then it will return an empty string.
func (s *SID) String() string {
	str, err := s.StringErr()
	if err != nil {
		return ""
	}
	return str
}

func putAuthority(b []byte, authority uint64) {
	for i := 5; i >= 0; i-- {
		b[i] = byte(authority)
		authority >>= 8
	}
}
