package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	assert.True(t, Can(RoleSuperAdmin, CapBypassOwnership))
	assert.True(t, Can(RoleAdmin, CapBypassOwnership))
	assert.False(t, Can(RoleStaff, CapBypassOwnership))
	assert.False(t, Can(RoleUser, CapBypassOwnership))

	assert.True(t, Can(RoleStaff, CapIssueTokens))
	assert.False(t, Can(RoleUser, CapIssueTokens))
	assert.False(t, Can(RoleUser, CapManageDevices))

	// Role tidak dikenal = tanpa izin sama sekali
	assert.False(t, Can("TUKANG_LEDENG", CapViewReports))
}

func TestCanAccessDevice(t *testing.T) {
	dev := &Device{UserID: 7}

	assert.True(t, CanAccessDevice(1, RoleAdmin, dev))
	assert.True(t, CanAccessDevice(7, RoleStaff, dev))
	assert.False(t, CanAccessDevice(8, RoleStaff, dev))
	assert.False(t, CanAccessDevice(8, RoleUser, dev))
}
