package persistence

import (
	"context"
	"time"

	"github.com/innledger/backend/internal/domain/revenue"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pmInsertBatchSize bounds the rows sent in one INSERT statement
const pmInsertBatchSize = 500

// GormPmsRevenueRepository implements revenue.PmsRepository using GORM
type GormPmsRevenueRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormPmsRevenueRepository creates a new GormPmsRevenueRepository
func NewGormPmsRevenueRepository(db *gorm.DB) *GormPmsRevenueRepository {
	return &GormPmsRevenueRepository{db: db, now: time.Now}
}

// Upsert writes records keyed by (branch_id, month), overwriting amounts that
// were synced before. Later duplicates in the batch win.
func (r *GormPmsRevenueRepository) Upsert(ctx context.Context, records []revenue.PmsRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	now := r.now().UTC()
	index := make(map[string]int, len(records))
	rows := make([]models.PmsRevenueModel, 0, len(records))
	for _, rec := range records {
		key := rec.BranchID + "|" + rec.Month.String()
		row := models.PmsRevenueModelFromDomain(rec, now)
		if i, ok := index[key]; ok {
			row.ID = rows[i].ID
			rows[i] = row
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}

	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "branch_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"branch_name", "branch_code", "amount", "last_date", "synced_at", "updated_at"}),
	}).Create(&rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return int64(len(rows)), nil
}

// FindByMonthRange returns rows for months in [start, end]
func (r *GormPmsRevenueRepository) FindByMonthRange(ctx context.Context, start, end shared.YearMonth) ([]revenue.PmsRecord, error) {
	var rows []models.PmsRevenueModel
	if err := conn(ctx, r.db).
		Where("month >= ? AND month <= ?", start.String(), end.String()).
		Order("month ASC, branch_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]revenue.PmsRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// GormPmRevenueRepository implements revenue.PmRepository using GORM
type GormPmRevenueRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormPmRevenueRepository creates a new GormPmRevenueRepository
func NewGormPmRevenueRepository(db *gorm.DB) *GormPmRevenueRepository {
	return &GormPmRevenueRepository{db: db, now: time.Now}
}

// InsertNew inserts records whose record_id is not stored yet and returns how
// many rows were actually written.
func (r *GormPmRevenueRepository) InsertNew(ctx context.Context, records []revenue.PmRecord) (int64, error) {
	now := r.now().UTC()
	seen := make(map[string]struct{}, len(records))
	rows := make([]models.PmRevenueModel, 0, len(records))
	for _, rec := range records {
		if rec.RecordID == "" {
			continue
		}
		if _, dup := seen[rec.RecordID]; dup {
			continue
		}
		seen[rec.RecordID] = struct{}{}
		rows = append(rows, models.PmRevenueModelFromDomain(rec, now))
	}

	var inserted int64
	db := conn(ctx, r.db)
	for start := 0; start < len(rows); start += pmInsertBatchSize {
		end := min(start+pmInsertBatchSize, len(rows))
		batch := rows[start:end]
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			DoNothing: true,
		}).Create(&batch)
		if result.Error != nil {
			return inserted, result.Error
		}
		inserted += result.RowsAffected
	}
	return inserted, nil
}

// FindByDateRange returns transactions dated within [start, end]
func (r *GormPmRevenueRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]revenue.PmRecord, error) {
	var rows []models.PmRevenueModel
	if err := conn(ctx, r.db).
		Where("txn_date >= ? AND txn_date <= ?", dateOnly(start), dateOnly(end)).
		Order("txn_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]revenue.PmRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}
