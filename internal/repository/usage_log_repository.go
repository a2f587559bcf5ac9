package repository

import (
	"github.com/koropati/water-pulsa-be/internal/model"

	"gorm.io/gorm"
)

type UsageLogRepository struct {
	db *gorm.DB
}

func NewUsageLogRepository(db *gorm.DB) *UsageLogRepository {
	return &UsageLogRepository{db: db}
}

// Create menulis satu baris pemakaian. Baris ini append-only,
// tidak ada method update/delete di repository ini.
func (r *UsageLogRepository) Create(log *model.UsageLog) error {
	return r.db.Create(log).Error
}

func (r *UsageLogRepository) GetByDevice(deviceID uint) ([]model.UsageLog, error) {
	var logs []model.UsageLog
	err := r.db.Where("device_id = ?", deviceID).Order("id desc").Find(&logs).Error
	return logs, err
}

// UsageSummary hasil agregasi pemakaian satu device.
type UsageSummary struct {
	Count int64 `json:"count"`
	Total int64 `json:"total"`
}

func (r *UsageLogRepository) SummaryByDevice(deviceID uint) (UsageSummary, error) {
	var summary UsageSummary
	err := r.db.Model(&model.UsageLog{}).
		Where("device_id = ?", deviceID).
		Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Scan(&summary).Error
	return summary, err
}

func (r *UsageLogRepository) CountByDevice(deviceID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.UsageLog{}).Where("device_id = ?", deviceID).Count(&count).Error
	return count, err
}
