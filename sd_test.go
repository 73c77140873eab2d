package winsec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSelfRelative assembles a self-relative descriptor the way
// MakeSelfRelativeSD lays one out: header first, then components at the
// recorded offsets. Nil components are left absent.
func buildSelfRelative(t *testing.T, owner, group *SID, dacl, sacl *ACL) []byte {
	t.Helper()
	buf := make([]byte, sdHeaderSize)
	buf[0] = 1 // SECURITY_DESCRIPTOR_REVISION
	control := SESelfRelative

	appendComponent := func(headerOff int, b []byte) {
		binary.LittleEndian.PutUint32(buf[headerOff:], uint32(len(buf)))
		buf = append(buf, b...)
	}
	if owner != nil {
		appendComponent(4, owner.Bytes())
	}
	if group != nil {
		appendComponent(8, group.Bytes())
	}
	if sacl != nil {
		control |= SESaclPresent
		appendComponent(12, sacl.Bytes())
	}
	if dacl != nil {
		control |= SEDaclPresent
		appendComponent(16, dacl.Bytes())
	}
	binary.LittleEndian.PutUint16(buf[2:4], control)
	return buf
}

func TestParseSecurityDescriptor(t *testing.T) {
	owner, err := SIDAdministrators.SID()
	require.NoError(t, err)
	group, err := SIDUsers.SID()
	require.NoError(t, err)
	everyone, err := SIDEveryone.SID()
	require.NoError(t, err)

	dacl := NewACL()
	require.NoError(t, dacl.Allow(FullAccess(), owner))
	require.NoError(t, dacl.Allow(ReadAccess(), everyone))
	sacl := NewACL()
	require.NoError(t, sacl.Audit(FullAccess(), everyone))

	sd, err := ParseSecurityDescriptor(buildSelfRelative(t, owner, group, dacl, sacl))
	require.NoError(t, err)

	assert.Equal(t, uint8(1), sd.Revision())
	require.NotNil(t, sd.OwnerSID())
	assert.True(t, owner.Equal(sd.OwnerSID()))
	require.NotNil(t, sd.GroupSID())
	assert.True(t, group.Equal(sd.GroupSID()))

	present, err := sd.DaclPresent()
	require.NoError(t, err)
	assert.True(t, present)
	present, err = sd.SaclPresent()
	require.NoError(t, err)
	assert.True(t, present)

	gotDacl := sd.DACL()
	require.NotNil(t, gotDacl)
	assert.Equal(t, 2, gotDacl.AceCount())

	gotSacl := sd.SACL()
	require.NotNil(t, gotSacl)
	assert.Equal(t, 1, gotSacl.AceCount())
	ace, ok := gotSacl.Aces().Next()
	require.True(t, ok)
	assert.Equal(t, AceTypeSystemAudit, ace.Type())

	assert.False(t, sd.OwnerDefaulted())
	assert.False(t, sd.DaclDefaulted())
}

func TestSecurityDescriptorAbsentComponents(t *testing.T) {
	sd, err := ParseSecurityDescriptor(buildSelfRelative(t, nil, nil, nil, nil))
	require.NoError(t, err)

	assert.Nil(t, sd.OwnerSID())
	assert.Nil(t, sd.GroupSID())
	assert.Nil(t, sd.DACL())
	assert.Nil(t, sd.SACL())

	present, err := sd.DaclPresent()
	require.NoError(t, err)
	assert.False(t, present)
	present, err = sd.SaclPresent()
	require.NoError(t, err)
	assert.False(t, present)
}

func TestSecurityDescriptorNilDaclIsNotEmptyDacl(t *testing.T) {
	owner, err := SIDLocalSystem.SID()
	require.NoError(t, err)

	// a present but empty DACL denies everyone; an absent one denies no one
	sd, err := ParseSecurityDescriptor(buildSelfRelative(t, owner, nil, NewACL(), nil))
	require.NoError(t, err)

	dacl := sd.DACL()
	require.NotNil(t, dacl)
	assert.Equal(t, 0, dacl.AceCount())
}

func TestParseSecurityDescriptorRejectsCorruptBuffers(t *testing.T) {
	_, err := ParseSecurityDescriptor(nil)
	require.Error(t, err)
	var osErr *OsError
	require.ErrorAs(t, err, &osErr)
	assert.Equal(t, uint32(errorInvalidSecurityDescr), osErr.Code)

	_, err = ParseSecurityDescriptor(make([]byte, sdHeaderSize-1))
	require.Error(t, err)

	// owner offset beyond the end of the buffer
	owner, err := SIDEveryone.SID()
	require.NoError(t, err)
	b := buildSelfRelative(t, owner, nil, nil, nil)
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)+100))
	_, err = ParseSecurityDescriptor(b)
	require.Error(t, err)
}

func TestBorrowedDaclDetachesOnMutation(t *testing.T) {
	owner, err := SIDAdministrators.SID()
	require.NoError(t, err)
	everyone, err := SIDEveryone.SID()
	require.NoError(t, err)

	dacl := NewACL()
	require.NoError(t, dacl.Allow(FullAccess(), owner))

	raw := buildSelfRelative(t, owner, nil, dacl, nil)
	sd, err := ParseSecurityDescriptor(raw)
	require.NoError(t, err)

	view := sd.DACL()
	require.NotNil(t, view)
	require.NoError(t, view.Allow(ReadAccess(), everyone))
	assert.Equal(t, 2, view.AceCount())

	// the descriptor's own buffer must be untouched by the append
	assert.Equal(t, raw, sd.Bytes())
	assert.Equal(t, 1, sd.DACL().AceCount())

	// removal detaches the same way
	removeView := sd.DACL()
	require.NoError(t, removeView.RemoveAce(0))
	assert.Equal(t, 0, removeView.AceCount())
	assert.Equal(t, raw, sd.Bytes())
	assert.Equal(t, 1, sd.DACL().AceCount())
}

func TestSecurityDescriptorBytesRoundTrip(t *testing.T) {
	owner, err := SIDAdministrators.SID()
	require.NoError(t, err)
	raw := buildSelfRelative(t, owner, nil, NewACL(), nil)

	sd, err := ParseSecurityDescriptor(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, sd.Bytes())

	again, err := ParseSecurityDescriptor(sd.Bytes())
	require.NoError(t, err)
	assert.True(t, sd.OwnerSID().Equal(again.OwnerSID()))
}
