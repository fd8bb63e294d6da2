package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeVehicleInfoFirstValueWins(t *testing.T) {
	merged := MergeVehicleInfo(
		VehicleInfo{VIN: "LSVNP60C8PN049942"},
		VehicleInfo{VIN: "WVWZZZ3CZKE012345", OwnerName: "李明"},
		VehicleInfo{OwnerName: "王芳", InvoiceAmount: "100000.00"},
	)

	assert.Equal(t, "LSVNP60C8PN049942", merged.VIN)
	assert.Equal(t, "李明", merged.OwnerName)
	assert.Equal(t, "100000.00", merged.InvoiceAmount)
}

func TestMergeVehicleInfoEmpty(t *testing.T) {
	assert.True(t, MergeVehicleInfo().IsEmpty())
	assert.True(t, MergeVehicleInfo(VehicleInfo{}, VehicleInfo{}).IsEmpty())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, VehicleInfo{}.IsEmpty())
	assert.False(t, VehicleInfo{VIN: "LSVNP60C8PN049942"}.IsEmpty())
}
