package winsec

import "fmt"

// AccessMask is the 32-bit access rights mask carried by an ACE.
//
// The generic and standard rights below apply to every object type. The
// file, registry and service blocks reinterpret the object-specific low
// 16 bits; matching a mask to the object type the ACL applies to is the
// caller's responsibility.
//
// https://docs.microsoft.com/en-us/windows/desktop/SecAuthZ/access-mask-format
type AccessMask uint32

const (
	// Generic Access Rights
	// https://docs.microsoft.com/en-us/windows/desktop/SecAuthZ/generic-access-rights

	GenericRead    AccessMask = 0x80000000
	GenericWrite   AccessMask = 0x40000000
	GenericExecute AccessMask = 0x20000000
	GenericAll     AccessMask = 0x10000000

	AccessSystemSecurity AccessMask = 0x01000000
	MaximumAllowed       AccessMask = 0x02000000

	// Standard Access Rights
	// https://docs.microsoft.com/en-us/windows/desktop/SecAuthZ/standard-access-rights

	Delete                 AccessMask = 0x00010000
	ReadControl            AccessMask = 0x00020000
	WriteDAC               AccessMask = 0x00040000
	WriteOwner             AccessMask = 0x00080000
	Synchronize            AccessMask = 0x00100000
	StandardRightsRequired            = Delete | ReadControl | WriteDAC | WriteOwner
	StandardRightsAll                 = Delete | ReadControl | WriteDAC | WriteOwner | Synchronize

	SpecificRightsAll AccessMask = 0x0000ffff
)

// File object access rights
const (
	FileGenericRead    AccessMask = 0x00120089
	FileGenericWrite   AccessMask = 0x00120116
	FileGenericExecute AccessMask = 0x001200A0
	FileAllAccess      AccessMask = 0x001F01FF
)

// Registry key access rights
const (
	KeyQueryValue       AccessMask = 0x0001
	KeySetValue         AccessMask = 0x0002
	KeyCreateSubKey     AccessMask = 0x0004
	KeyEnumerateSubKeys AccessMask = 0x0008
	KeyNotify           AccessMask = 0x0010
	KeyRead             AccessMask = 0x00020019
	KeyWrite            AccessMask = 0x00020006
	KeyAllAccess        AccessMask = 0x000F003F
)

// Printer access rights
const (
	PrinterAccessAdminister    AccessMask = 0x0004
	PrinterAccessUse           AccessMask = 0x0008
	PrinterAccessManageLimited AccessMask = 0x0040
	PrinterAllAccess           AccessMask = 0x000F000C
	PrinterRead                AccessMask = 0x00020008
	PrinterWrite               AccessMask = 0x00020008
)

// Service access rights
const (
	ServiceQueryConfig        AccessMask = 0x0001
	ServiceChangeConfig       AccessMask = 0x0002
	ServiceQueryStatus        AccessMask = 0x0004
	ServiceEnumerateDependent AccessMask = 0x0008
	ServiceStart              AccessMask = 0x0010
	ServiceStop               AccessMask = 0x0020
	ServicePauseContinue      AccessMask = 0x0040
	ServiceInterrogate        AccessMask = 0x0080
	ServiceUserDefinedControl AccessMask = 0x0100
	ServiceAllAccess          AccessMask = 0x000F01FF
)

// ReadAccess is the generic read preset.
func ReadAccess() AccessMask { return GenericRead | ReadControl }

// WriteAccess is the generic write preset.
func WriteAccess() AccessMask { return GenericWrite | WriteDAC }

// ExecuteAccess is the generic execute preset.
func ExecuteAccess() AccessMask { return GenericExecute }

// FullAccess is the generic all-access preset.
func FullAccess() AccessMask { return GenericAll }

// MaskFromUint32 reinterprets a raw 32-bit value as an AccessMask.
func MaskFromUint32(v uint32) AccessMask { return AccessMask(v) }

// Uint32 returns the raw 32-bit value of the mask.
func (m AccessMask) Uint32() uint32 { return uint32(m) }

// Has reports whether every bit in rights is set in the mask.
func (m AccessMask) Has(rights AccessMask) bool { return m&rights == rights }

func (m AccessMask) String() string {
	return fmt.Sprintf("0x%08X", uint32(m))
}
