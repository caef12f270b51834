package models

import (
	"time"

	"gorm.io/datatypes"
)

// Record is one key/value row of the relational persistence backend.
type Record struct {
	Key       string         `gorm:"column:record_key;primaryKey;size:128"`
	Value     datatypes.JSON `gorm:"column:record_value;not null"`
	UpdatedAt time.Time
}

// TableName pins the backing table name.
func (Record) TableName() string {
	return "campus_records"
}
