package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// GormSaleJournal implements SaleJournal using GORM
type GormSaleJournal struct {
	db *gorm.DB
}

// NewGormSaleJournal creates a new GORM sale journal
func NewGormSaleJournal(db *gorm.DB) *GormSaleJournal {
	return &GormSaleJournal{db: db}
}

// Append persists one sale record
func (j *GormSaleJournal) Append(ctx context.Context, record *station.SaleRecord) error {
	model := recordToModel(record)

	result := j.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to append sale record: %w", result.Error)
	}

	return nil
}

// FindByOutcome retrieves the most recent records with outcome, newest first
func (j *GormSaleJournal) FindByOutcome(ctx context.Context, outcome station.Outcome, limit int) ([]*station.SaleRecord, error) {
	query := j.db.WithContext(ctx).
		Where("outcome = ?", outcome.String()).
		Order("timestamp DESC").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []SaleRecordModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find sale records: %w", err)
	}

	records := make([]*station.SaleRecord, 0, len(models))
	for i := range models {
		record, err := modelToRecord(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// CountByOutcome counts records with outcome
func (j *GormSaleJournal) CountByOutcome(ctx context.Context, outcome station.Outcome) (int, error) {
	var count int64
	err := j.db.WithContext(ctx).
		Model(&SaleRecordModel{}).
		Where("outcome = ?", outcome.String()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sale records: %w", err)
	}

	return int(count), nil
}

// SumRevenue sums the revenue of all sold records
func (j *GormSaleJournal) SumRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := j.db.WithContext(ctx).
		Model(&SaleRecordModel{}).
		Where("outcome = ?", station.OutcomeSold.String()).
		Select("COALESCE(SUM(revenue), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return total, nil
}

func recordToModel(record *station.SaleRecord) *SaleRecordModel {
	return &SaleRecordModel{
		ID:        record.ID(),
		Timestamp: record.Timestamp(),
		Grade:     record.Grade().String(),
		Amount:    record.Amount(),
		Price:     record.Price(),
		MaxPrice:  record.MaxPrice(),
		Revenue:   record.Revenue(),
		Outcome:   record.Outcome().String(),
		PumpID:    record.PumpID(),
	}
}

func modelToRecord(model *SaleRecordModel) (*station.SaleRecord, error) {
	grade, err := station.ParseFuelGrade(model.Grade)
	if err != nil {
		return nil, fmt.Errorf("invalid grade in database: %w", err)
	}

	outcome, err := station.ParseOutcome(model.Outcome)
	if err != nil {
		return nil, fmt.Errorf("invalid outcome in database: %w", err)
	}

	return station.ReconstructSaleRecord(
		model.ID,
		model.Timestamp,
		grade,
		model.Amount,
		model.Price,
		model.MaxPrice,
		model.Revenue,
		outcome,
		model.PumpID,
	), nil
}

// Verify interface implementation
var _ station.SaleJournal = (*GormSaleJournal)(nil)
