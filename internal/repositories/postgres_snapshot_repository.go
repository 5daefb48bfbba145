package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SnapshotRecord is one element of a collection stored as a row.
type SnapshotRecord struct {
	Collection string `gorm:"primaryKey;size:32"`
	Position   int    `gorm:"primaryKey;autoIncrement:false"`
	RecordID   string `gorm:"size:64;index"`
	Payload    string `gorm:"type:text;not null"`
}

// TableName pins the table name regardless of naming strategy.
func (SnapshotRecord) TableName() string {
	return "snapshot_records"
}

// PostgresSnapshotRepository implements SnapshotRepository on top of GORM.
// Each collection is the ordered set of rows sharing a Collection value.
type PostgresSnapshotRepository struct {
	db *gorm.DB
}

// NewPostgresSnapshotRepository creates the repository and ensures its table exists.
func NewPostgresSnapshotRepository(db *gorm.DB) (*PostgresSnapshotRepository, error) {
	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	return &PostgresSnapshotRepository{db: db}, nil
}

// LoadCollection reads the rows of a collection in position order.
func (r *PostgresSnapshotRepository) LoadCollection(ctx context.Context, name string, dst any) error {
	var rows []SnapshotRecord
	if err := r.db.WithContext(ctx).
		Where("collection = ?", name).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if len(rows) == 0 {
		return ErrCollectionNotFound
	}

	payloads := make([]string, len(rows))
	for i, row := range rows {
		payloads[i] = row.Payload
	}
	return joinRecords(payloads, dst)
}

// SaveCollection replaces every row of a collection in one transaction.
func (r *PostgresSnapshotRepository) SaveCollection(ctx context.Context, name string, src any) error {
	records, err := splitRecords(src)
	if err != nil {
		return err
	}

	rows := make([]SnapshotRecord, len(records))
	for i, rec := range records {
		rows[i] = SnapshotRecord{
			Collection: name,
			Position:   i,
			RecordID:   rec.ID,
			Payload:    rec.Payload,
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", name).Delete(&SnapshotRecord{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
		return nil
	})
}

var _ SnapshotRepository = (*PostgresSnapshotRepository)(nil)
