package model

// Role user. String role TIDAK dibandingkan langsung di handler;
// semua pengecekan lewat Can() supaya aturannya satu pintu.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleStaff      = "STAFF"
	RoleUser       = "USER"
)

// Capability adalah himpunan izin tertutup hasil resolusi role.
type Capability string

const (
	CapManageUsers     Capability = "manage_users"     // CRUD user lain
	CapManageDevices   Capability = "manage_devices"   // Buat/ubah/hapus device
	CapIssueTokens     Capability = "issue_tokens"     // Terbitkan token pulsa
	CapViewReports     Capability = "view_reports"     // Lihat saldo/pemakaian
	CapBypassOwnership Capability = "bypass_ownership" // Akses resource milik user lain
)

var roleCapabilities = map[string][]Capability{
	// Kedua tier admin melewati batasan kepemilikan; STAFF dan USER
	// hanya boleh menyentuh device miliknya sendiri.
	RoleSuperAdmin: {CapManageUsers, CapManageDevices, CapIssueTokens, CapViewReports, CapBypassOwnership},
	RoleAdmin:      {CapManageUsers, CapManageDevices, CapIssueTokens, CapViewReports, CapBypassOwnership},
	RoleStaff:      {CapManageDevices, CapIssueTokens, CapViewReports},
	RoleUser:       {CapViewReports},
}

// Can memeriksa apakah sebuah role memiliki capability tertentu.
func Can(role string, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// CanAccessDevice adalah predikat kepemilikan untuk resource device
// (token, saldo, log pemakaian ikut aturan ini secara transitif).
func CanAccessDevice(userID uint, role string, device *Device) bool {
	if Can(role, CapBypassOwnership) {
		return true
	}
	return device.UserID == userID
}
