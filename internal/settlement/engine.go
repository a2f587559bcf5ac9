package settlement

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"gorm.io/gorm"
)

// Batas retry untuk konflik lock/deadlock di storage. Kegagalan bisnis
// (saldo kurang, token sudah terpakai) tidak pernah di-retry.
const maxTxAttempts = 3

// Notifier menerima event settlement untuk notifikasi best-effort
// (email, dsb). Tidak boleh memblokir alur settlement.
type Notifier interface {
	LowBalance(device model.Device, balance int64)
}

// Engine adalah inti settlement: redeem token dan debit pemakaian
// terhadap ledger saldo, diserialisasi per device.
type Engine struct {
	db      *gorm.DB
	devices *repository.DeviceRepository
	tokens  *repository.TokenRepository
	locks   *KeyMutex

	notifier     Notifier
	lowThreshold int64
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		db:      db,
		devices: repository.NewDeviceRepository(db),
		tokens:  repository.NewTokenRepository(db),
		locks:   NewKeyMutex(),
	}
}

// SetNotifier memasang notifier saldo rendah. threshold dalam minor unit.
func (e *Engine) SetNotifier(n Notifier, threshold int64) {
	e.notifier = n
	e.lowThreshold = threshold
}

type AuthResult struct {
	DeviceID uint
	Status   string // "active" atau "inactive"
}

type BalanceResult struct {
	Balance   int64
	LastToken string
}

type RedeemResult struct {
	Amount     int64
	NewBalance int64
}

type UsageResult struct {
	CanUse           bool
	RemainingBalance int64
}

// Authenticate memvalidasi device key. Device nonaktif tetap dijawab
// (dengan status "inactive") supaya firmware tahu dirinya dimatikan.
func (e *Engine) Authenticate(deviceKey string) (AuthResult, error) {
	device, err := e.devices.FindByKey(deviceKey)
	if err != nil {
		return AuthResult{}, err
	}
	status := "active"
	if !device.IsActive {
		status = "inactive"
	}
	return AuthResult{DeviceID: device.ID, Status: status}, nil
}

// CheckBalance membaca saldo berjalan. Device tanpa baris saldo dibaca
// sebagai 0 tanpa membuat baris apa pun.
func (e *Engine) CheckBalance(deviceKey string) (BalanceResult, error) {
	device, err := e.devices.FindActiveByKey(deviceKey)
	if err != nil {
		return BalanceResult{}, err
	}
	balance, err := repository.NewBalanceRepository(e.db).Get(device.ID)
	if err != nil {
		return BalanceResult{}, err
	}
	return BalanceResult{Balance: balance.Balance, LastToken: balance.LastToken}, nil
}

// RedeemToken menukar token unused menjadi kredit saldo. Flip status
// token dan kredit saldo terjadi dalam SATU transaksi: tidak mungkin
// ada token used yang nilainya belum masuk saldo, atau sebaliknya.
func (e *Engine) RedeemToken(deviceKey, tokenSecret string) (RedeemResult, error) {
	token, err := e.tokens.FindBySecret(tokenSecret)
	if err != nil {
		return RedeemResult{}, err
	}
	if token.Status == model.TokenStatusUsed {
		return RedeemResult{}, model.ErrTokenAlreadyUsed
	}
	if token.Device.DeviceKey != deviceKey {
		return RedeemResult{}, model.ErrTokenDeviceMismatch
	}
	if !token.Device.IsActive {
		return RedeemResult{}, model.ErrDeviceInactive
	}

	e.locks.Lock(token.DeviceID)
	defer e.locks.Unlock(token.DeviceID)

	var newBalance int64
	err = e.withRetry(func(tx *gorm.DB) error {
		// Flip bersyarat; pemenang balapan ditentukan di sini.
		if err := repository.NewTokenRepository(tx).MarkUsed(token.ID, time.Now()); err != nil {
			return err
		}
		balance, err := repository.NewBalanceRepository(tx).Credit(token.DeviceID, token.Amount, token.Token)
		if err != nil {
			return err
		}
		newBalance = balance.Balance
		return nil
	})
	if err != nil {
		return RedeemResult{}, err
	}

	return RedeemResult{Amount: token.Amount, NewBalance: newBalance}, nil
}

// LogUsage mendebit saldo untuk satu event pemakaian dan menulis baris
// UsageLog dalam transaksi yang sama. Saldo kurang BUKAN error: hasilnya
// CanUse=false dengan saldo berjalan, tanpa baris log dan tanpa mutasi.
func (e *Engine) LogUsage(deviceKey string, amount int64) (UsageResult, error) {
	device, err := e.devices.FindActiveByKey(deviceKey)
	if err != nil {
		return UsageResult{}, err
	}
	if amount <= 0 {
		return UsageResult{}, model.ErrInvalidAmount
	}

	e.locks.Lock(device.ID)
	defer e.locks.Unlock(device.ID)

	var result UsageResult
	err = e.withRetry(func(tx *gorm.DB) error {
		balance, err := repository.NewBalanceRepository(tx).Debit(device.ID, amount)
		if errors.Is(err, model.ErrInsufficientBalance) {
			result = UsageResult{CanUse: false, RemainingBalance: balance.Balance}
			return nil
		}
		if err != nil {
			return err
		}
		usage := model.UsageLog{DeviceID: device.ID, Amount: amount}
		if err := repository.NewUsageLogRepository(tx).Create(&usage); err != nil {
			return err
		}
		result = UsageResult{CanUse: true, RemainingBalance: balance.Balance}
		return nil
	})
	if err != nil {
		return UsageResult{}, err
	}

	if result.CanUse && e.notifier != nil && result.RemainingBalance < e.lowThreshold {
		go e.notifier.LowBalance(device, result.RemainingBalance)
	}

	return result, nil
}

// Heartbeat mencatat tanda hidup dari device.
func (e *Engine) Heartbeat(deviceKey string) error {
	device, err := e.devices.FindActiveByKey(deviceKey)
	if err != nil {
		return err
	}
	return e.devices.TouchLastSeen(device.ID, time.Now())
}

// withRetry menjalankan fn dalam transaksi, diulang terbatas hanya untuk
// konflik transien di storage.
func (e *Engine) withRetry(fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = e.db.Transaction(fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		log.Printf("settlement: konflik transaksi (percobaan %d/%d): %v", attempt, maxTxAttempts, err)
	}
	return err
}

func isRetryable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Deadlock found") || // MySQL 1213
		strings.Contains(msg, "Lock wait timeout") || // MySQL 1205
		strings.Contains(msg, "database is locked") || // sqlite (test)
		strings.Contains(msg, "database table is locked")
}
