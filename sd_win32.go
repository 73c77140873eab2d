//go:build windows
// +build windows

package winsec

import (
	"syscall"
	"unsafe"
)

// ObjectType discriminates the kind of named object a security descriptor
// is read from.
// https://docs.microsoft.com/en-us/windows/win32/api/accctrl/ne-accctrl-se_object_type
type ObjectType int32

const (
	ObjectTypeFile         ObjectType = 1 // SE_FILE_OBJECT
	ObjectTypeService      ObjectType = 2 // SE_SERVICE
	ObjectTypePrinter      ObjectType = 3 // SE_PRINTER
	ObjectTypeRegistryKey  ObjectType = 4 // SE_REGISTRY_KEY
	ObjectTypeNetworkShare ObjectType = 5 // SE_LMSHARE
	ObjectTypeKernelObject ObjectType = 6 // SE_KERNEL_OBJECT
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeFile:
		return "file"
	case ObjectTypeService:
		return "service"
	case ObjectTypePrinter:
		return "printer"
	case ObjectTypeRegistryKey:
		return "registry"
	case ObjectTypeNetworkShare:
		return "share"
	case ObjectTypeKernelObject:
		return "kernel"
	}
	return "unknown"
}

var (
	procGetNamedSecurityInfoW       = advapi32DLL.NewProc("GetNamedSecurityInfoW")
	procGetSecurityDescriptorLength = advapi32DLL.NewProc("GetSecurityDescriptorLength")
)

// https://docs.microsoft.com/en-us/windows/desktop/SecAuthZ/security-information
const (
	_OWNER_SECURITY_INFORMATION uint32 = 0x1
	_GROUP_SECURITY_INFORMATION uint32 = 0x2
	_DACL_SECURITY_INFORMATION  uint32 = 0x4
	_SACL_SECURITY_INFORMATION  uint32 = 0x8

	baseSecurityInformation = _OWNER_SECURITY_INFORMATION | _GROUP_SECURITY_INFORMATION | _DACL_SECURITY_INFORMATION
	fullSecurityInformation = baseSecurityInformation | _SACL_SECURITY_INFORMATION
)

// SecurityDescriptorFromPath reads the security descriptor of a file or
// directory: owner, group and DACL. The SACL is always omitted on this
// path; reading it requires elevation, see SecurityDescriptorFromPathElevated.
func SecurityDescriptorFromPath(path string) (*SecurityDescriptor, error) {
	return getNamedSecurityDescriptor(path, ObjectTypeFile, baseSecurityInformation)
}

// SecurityDescriptorFromObject reads the security descriptor of a named
// non-filesystem object: a service, printer, registry key, network share
// or kernel object, selected by objectType.
func SecurityDescriptorFromObject(name string, objectType ObjectType) (*SecurityDescriptor, error) {
	return getNamedSecurityDescriptor(name, objectType, baseSecurityInformation)
}

// SecurityDescriptorFromPathElevated additionally reads the SACL. It is
// only callable with an elevated token: obtaining one through
// PrivilegeToken.TryElevate is the sole way to reach this path. Fails with
// ErrAccessDenied if the OS still refuses the SACL read.
func SecurityDescriptorFromPathElevated(token *ElevatedToken, path string) (*SecurityDescriptor, error) {
	if err := token.valid(); err != nil {
		return nil, err
	}
	return getNamedSecurityDescriptor(path, ObjectTypeFile, fullSecurityInformation)
}

// SecurityDescriptorFromObjectElevated is the elevated counterpart of
// SecurityDescriptorFromObject.
func SecurityDescriptorFromObjectElevated(token *ElevatedToken, name string, objectType ObjectType) (*SecurityDescriptor, error) {
	if err := token.valid(); err != nil {
		return nil, err
	}
	return getNamedSecurityDescriptor(name, objectType, fullSecurityInformation)
}

// DWORD WINAPI GetNamedSecurityInfoW(
//   LPCWSTR              pObjectName,
//   SE_OBJECT_TYPE       ObjectType,
//   SECURITY_INFORMATION SecurityInfo,
//   PSID                 *ppsidOwner,
//   PSID                 *ppsidGroup,
//   PACL                 *ppDacl,
//   PACL                 *ppSacl,
//   PSECURITY_DESCRIPTOR *ppSecurityDescriptor
// );
// https://docs.microsoft.com/en-us/windows/win32/api/aclapi/nf-aclapi-getnamedsecurityinfow
func getNamedSecurityDescriptor(name string, objectType ObjectType, secInfo uint32) (*SecurityDescriptor, error) {
	var pOwner, pGroup, pDacl, pSacl, pSD uintptr
	ret, _, _ := procGetNamedSecurityInfoW.Call(
		uintptr(unsafe.Pointer(Text(name).WChars())),
		uintptr(objectType),
		uintptr(secInfo),
		uintptr(unsafe.Pointer(&pOwner)),
		uintptr(unsafe.Pointer(&pGroup)),
		uintptr(unsafe.Pointer(&pDacl)),
		uintptr(unsafe.Pointer(&pSacl)),
		uintptr(unsafe.Pointer(&pSD)),
	)
	if ret != 0 {
		return nil, mapWinError("GetNamedSecurityInfoW", syscall.Errno(ret))
	}
	defer func() {
		_, err := syscall.LocalFree(syscall.Handle(pSD))
		LogError(err, "winsec: LocalFree of security descriptor failed")
	}()
	// the returned descriptor is self-relative; copy it into Go memory so
	// its lifetime is ours
	n, _, _ := procGetSecurityDescriptorLength.Call(pSD)
	if n < sdHeaderSize {
		return nil, &OsError{Op: "GetSecurityDescriptorLength", Code: errorInvalidSecurityDescr}
	}
	return ParseSecurityDescriptor(unsafe.Slice((*byte)(unsafe.Pointer(pSD)), n))
}
