package model

import "github.com/shopspring/decimal"

// Nominal disimpan sebagai int64 minor unit (2 desimal). Floating point
// tidak pernah dipakai di ledger; decimal hanya hidup di boundary API.

// ToMinor mengubah nominal desimal dari API menjadi minor unit.
// Presisi lebih dari 2 desimal ditolak, tidak dibulatkan diam-diam.
func ToMinor(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, ErrInvalidAmount
	}
	return shifted.IntPart(), nil
}

// FromMinor mengubah minor unit kembali menjadi desimal untuk respons.
func FromMinor(m int64) decimal.Decimal {
	return decimal.New(m, -2)
}
