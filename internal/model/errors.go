package model

import "errors"

// Sentinel error untuk alur settlement. Handler dan gateway memetakan
// error ini ke payload transport, tidak pernah membuat varian sendiri.
var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceInactive      = errors.New("device inactive")
	ErrTokenNotFound       = errors.New("token not found")
	ErrTokenAlreadyUsed    = errors.New("token already used")
	ErrTokenDeviceMismatch = errors.New("token does not belong to this device")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
