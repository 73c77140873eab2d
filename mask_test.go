package winsec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessMaskPresets(t *testing.T) {
	assert.Equal(t, uint32(0x10000000), FullAccess().Uint32())
	assert.True(t, ReadAccess().Has(GenericRead))
	assert.True(t, ReadAccess().Has(ReadControl))
	assert.False(t, ReadAccess().Has(GenericWrite))
	assert.True(t, WriteAccess().Has(WriteDAC))
	assert.Equal(t, GenericExecute, ExecuteAccess())
}

func TestAccessMaskRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 0x00120089, 0xFFFFFFFF, 0x10000000} {
		assert.Equal(t, v, MaskFromUint32(v).Uint32())
	}
}

func TestAccessMaskHas(t *testing.T) {
	m := FileGenericRead
	assert.True(t, m.Has(ReadControl))
	assert.True(t, m.Has(Synchronize))
	assert.False(t, m.Has(Delete))
	assert.True(t, m.Has(0)) // the empty mask is always contained
}

func TestPrinterAccessRights(t *testing.T) {
	// PRINTER_ALL_ACCESS = STANDARD_RIGHTS_REQUIRED | ADMINISTER | USE
	assert.Equal(t, StandardRightsRequired|PrinterAccessAdminister|PrinterAccessUse, PrinterAllAccess)
	// PRINTER_READ and PRINTER_WRITE are both READ_CONTROL | USE
	assert.Equal(t, ReadControl|PrinterAccessUse, PrinterRead)
	assert.Equal(t, PrinterRead, PrinterWrite)
	assert.True(t, PrinterAllAccess.Has(PrinterAccessAdminister))
	assert.False(t, PrinterRead.Has(PrinterAccessAdminister))
}

func TestAccessMaskString(t *testing.T) {
	assert.Equal(t, "0x00120089", FileGenericRead.String())
	assert.Equal(t, "0x10000000", GenericAll.String())
}
