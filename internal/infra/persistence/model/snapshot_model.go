package model

import (
	"time"

	"gorm.io/datatypes"
)

// SnapshotModel is the GORM-specific struct for the 'plan_snapshots' table.
// One row per planning session, keyed by the caller-chosen plan key; the
// whole session travels as a single JSONB document.
type SnapshotModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	Key       string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_plan_snapshots_on_key"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SnapshotModel) TableName() string {
	return "plan_snapshots"
}
