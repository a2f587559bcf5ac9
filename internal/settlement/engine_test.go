package settlement_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/settlement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// sqlite cuma punya satu writer; satu koneksi supaya test
	// konkurensi tidak jatuh ke busy error.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func createDevice(t *testing.T, db *gorm.DB, key string, active bool) model.Device {
	t.Helper()
	device := model.Device{DeviceKey: key, Name: "Dispenser " + key, IsActive: active, UserID: 1}
	require.NoError(t, db.Create(&device).Error)
	return device
}

func TestRedeemTokenHappyPath(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, model.TokenStatusUnused, token.Status)

	res, err := engine.RedeemToken("DEV-001", token.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), res.Amount)
	assert.Equal(t, int64(5000), res.NewBalance)

	// Token harus sudah used dan punya timestamp
	stored, err := repository.NewTokenRepository(db).GetByID(token.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TokenStatusUsed, stored.Status)
	assert.NotNil(t, stored.UsedAt)

	// lastToken marker ikut terisi
	bal, err := engine.CheckBalance("DEV-001")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), bal.Balance)
	assert.Equal(t, token.Token, bal.LastToken)
}

func TestRedeemTokenTwiceOnlyOnce(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 5000)
	require.NoError(t, err)

	_, err = engine.RedeemToken("DEV-001", token.Token)
	require.NoError(t, err)

	_, err = engine.RedeemToken("DEV-001", token.Token)
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)

	bal, err := engine.CheckBalance("DEV-001")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), bal.Balance, "redeem kedua tidak boleh menambah saldo")
}

func TestRedeemTokenConcurrentExactlyOneWinner(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 2500)
	require.NoError(t, err)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.RedeemToken("DEV-001", token.Token)
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else {
			assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)
		}
	}
	assert.Equal(t, 1, success, "token hanya boleh menang sekali")

	bal, err := engine.CheckBalance("DEV-001")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), bal.Balance)
}

func TestRedeemTokenWrongDevice(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)
	createDevice(t, db, "DEV-002", true)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 5000)
	require.NoError(t, err)

	_, err = engine.RedeemToken("DEV-002", token.Token)
	assert.ErrorIs(t, err, model.ErrTokenDeviceMismatch)

	// Tidak ada saldo yang berubah, token tetap unused
	stored, err := repository.NewTokenRepository(db).GetByID(token.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TokenStatusUnused, stored.Status)

	bal, err := engine.CheckBalance("DEV-002")
	require.NoError(t, err)
	assert.Zero(t, bal.Balance)
}

func TestRedeemTokenInactiveDevice(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", false)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 5000)
	require.NoError(t, err)

	_, err = engine.RedeemToken("DEV-001", token.Token)
	assert.ErrorIs(t, err, model.ErrDeviceInactive)

	stored, err := repository.NewTokenRepository(db).GetByID(token.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TokenStatusUnused, stored.Status)
}

func TestRedeemTokenNotFound(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	createDevice(t, db, "DEV-001", true)

	_, err := engine.RedeemToken("DEV-001", "TOKEN-NGAWUR")
	assert.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestLogUsageDebitsAndLogs(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 5000)
	require.NoError(t, err)
	_, err = engine.RedeemToken("DEV-001", token.Token)
	require.NoError(t, err)

	res, err := engine.LogUsage("DEV-001", 2000)
	require.NoError(t, err)
	assert.True(t, res.CanUse)
	assert.Equal(t, int64(3000), res.RemainingBalance)

	count, err := repository.NewUsageLogRepository(db).CountByDevice(device.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLogUsageInsufficientBalance(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 3000)
	require.NoError(t, err)
	_, err = engine.RedeemToken("DEV-001", token.Token)
	require.NoError(t, err)

	// Saldo kurang = hasil bisnis, bukan error
	res, err := engine.LogUsage("DEV-001", 100000)
	require.NoError(t, err)
	assert.False(t, res.CanUse)
	assert.Equal(t, int64(3000), res.RemainingBalance)

	// Saldo utuh, tidak ada baris log
	bal, err := engine.CheckBalance("DEV-001")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), bal.Balance)

	count, err := repository.NewUsageLogRepository(db).CountByDevice(device.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLogUsageInvalidAmount(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	createDevice(t, db, "DEV-001", true)

	_, err := engine.LogUsage("DEV-001", 0)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = engine.LogUsage("DEV-001", -500)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestLogUsageUnknownAndInactiveDevice(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	createDevice(t, db, "DEV-OFF", false)

	_, err := engine.LogUsage("DEV-XXX", 100)
	assert.ErrorIs(t, err, model.ErrDeviceNotFound)

	_, err = engine.LogUsage("DEV-OFF", 100)
	assert.ErrorIs(t, err, model.ErrDeviceInactive)
}

func TestCheckBalanceLazyZero(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)

	bal, err := engine.CheckBalance("DEV-001")
	require.NoError(t, err)
	assert.Zero(t, bal.Balance)
	assert.Empty(t, bal.LastToken)

	// Membaca saldo tidak boleh menciptakan baris apa pun
	var tokenCount, usageCount int64
	require.NoError(t, db.Model(&model.Token{}).Where("device_id = ?", device.ID).Count(&tokenCount).Error)
	require.NoError(t, db.Model(&model.UsageLog{}).Where("device_id = ?", device.ID).Count(&usageCount).Error)
	assert.Zero(t, tokenCount)
	assert.Zero(t, usageCount)
}

// Properti §interleaving: saldo akhir = saldo awal + Σ kredit − Σ debit
// yang diterima, untuk campuran redeem dan usage yang jalan bersamaan.
func TestConcurrentSettlementSumProperty(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)

	tokenRepo := repository.NewTokenRepository(db)

	const nTokens = 8
	const nUsages = 8
	const tokenAmount = int64(1000)
	const usageAmount = int64(700)

	secrets := make([]string, nTokens)
	for i := 0; i < nTokens; i++ {
		token, err := tokenRepo.Issue(device.ID, tokenAmount)
		require.NoError(t, err)
		secrets[i] = token.Token
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := int64(0)

	for i := 0; i < nTokens; i++ {
		wg.Add(1)
		go func(secret string) {
			defer wg.Done()
			_, err := engine.RedeemToken("DEV-001", secret)
			assert.NoError(t, err)
		}(secrets[i])
	}
	for i := 0; i < nUsages; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := engine.LogUsage("DEV-001", usageAmount)
			if assert.NoError(t, err) && res.CanUse {
				mu.Lock()
				accepted += usageAmount
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	bal, err := engine.CheckBalance("DEV-001")
	require.NoError(t, err)
	assert.Equal(t, nTokens*tokenAmount-accepted, bal.Balance,
		"saldo akhir harus = Σ kredit − Σ debit yang diterima")
	assert.GreaterOrEqual(t, bal.Balance, int64(0))

	// Jumlah baris log = jumlah debit yang diterima
	count, err := repository.NewUsageLogRepository(db).CountByDevice(device.ID)
	require.NoError(t, err)
	assert.Equal(t, accepted/usageAmount, count)
}

func TestAuthenticate(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	active := createDevice(t, db, "DEV-ON", true)
	createDevice(t, db, "DEV-OFF", false)

	res, err := engine.Authenticate("DEV-ON")
	require.NoError(t, err)
	assert.Equal(t, active.ID, res.DeviceID)
	assert.Equal(t, "active", res.Status)

	res, err = engine.Authenticate("DEV-OFF")
	require.NoError(t, err)
	assert.Equal(t, "inactive", res.Status)

	_, err = engine.Authenticate("DEV-XXX")
	assert.ErrorIs(t, err, model.ErrDeviceNotFound)
}

func TestHeartbeatUpdatesLastSeen(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "DEV-001", true)
	require.Nil(t, device.LastSeenAt)

	require.NoError(t, engine.Heartbeat("DEV-001"))

	stored, err := repository.NewDeviceRepository(db).GetByID(device.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastSeenAt)
}

func TestIssueTokenInvalidAmount(t *testing.T) {
	db := setupDB(t)
	device := createDevice(t, db, "DEV-001", true)
	tokenRepo := repository.NewTokenRepository(db)

	_, err := tokenRepo.Issue(device.ID, 0)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
	_, err = tokenRepo.Issue(device.ID, -5)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	var count int64
	require.NoError(t, db.Model(&model.Token{}).Count(&count).Error)
	assert.Zero(t, count, "validasi gagal tidak boleh meninggalkan baris token")
}

// Skenario lengkap dari dokumen desain: redeem, redeem ulang, pakai,
// pakai melebihi saldo.
func TestEndToEndScenario(t *testing.T) {
	db := setupDB(t)
	engine := settlement.NewEngine(db)
	device := createDevice(t, db, "D1", true)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 50_00)
	require.NoError(t, err)

	res, err := engine.RedeemToken("D1", token.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(50_00), res.NewBalance)

	_, err = engine.RedeemToken("D1", token.Token)
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)

	usage, err := engine.LogUsage("D1", 20_00)
	require.NoError(t, err)
	assert.True(t, usage.CanUse)
	assert.Equal(t, int64(30_00), usage.RemainingBalance)

	usage, err = engine.LogUsage("D1", 1000_00)
	require.NoError(t, err)
	assert.False(t, usage.CanUse)
	assert.Equal(t, int64(30_00), usage.RemainingBalance)

	count, err := repository.NewUsageLogRepository(db).CountByDevice(device.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
