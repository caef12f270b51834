package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campushub-api/internal/models"
)

// RecordRepository is the relational key/value backend of the record store.
type RecordRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository instantiates a GORM-backed key/value repository.
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var record models.Record
	result := r.db.WithContext(ctx).Where("record_key = ?", key).Limit(1).Find(&record)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}

	return []byte(record.Value), true, nil
}

func (r *recordRepository) Put(ctx context.Context, key string, value []byte) error {
	record := models.Record{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"record_value", "updated_at"}),
	}).Create(&record).Error
}

func (r *recordRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("record_key = ?", key).Delete(&models.Record{}).Error
}
