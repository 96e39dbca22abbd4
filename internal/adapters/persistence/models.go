package persistence

import (
	"time"
)

// SaleRecordModel represents the sale_records table.
// One row per purchase that reached a terminal outcome.
type SaleRecordModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
	Grade     string    `gorm:"column:grade;not null;index"`
	Amount    float64   `gorm:"column:amount;not null"`
	Price     float64   `gorm:"column:price;not null"`     // admission price
	MaxPrice  float64   `gorm:"column:max_price;not null"` // buyer's ceiling
	Revenue   float64   `gorm:"column:revenue;not null;default:0"`
	Outcome   string    `gorm:"column:outcome;not null;index"`
	PumpID    string    `gorm:"column:pump_id"` // empty unless sold
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SaleRecordModel) TableName() string {
	return "sale_records"
}
