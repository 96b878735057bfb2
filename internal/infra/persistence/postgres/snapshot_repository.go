// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	domainerrors "planmap/internal/domain/errors"
	"planmap/internal/domain/repository"
	"planmap/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotRepository implements the domain.SnapshotRepository interface.
type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository is the constructor for snapshotRepository.
func NewSnapshotRepository(db *gorm.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Save upserts the snapshot document stored under key.
func (repo *snapshotRepository) Save(ctx context.Context, key string, document []byte) error {
	snapshot := &model.SnapshotModel{
		Key:      key,
		Document: datatypes.JSON(document),
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(snapshot).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to save snapshot")
	}

	return nil
}

// Find returns the snapshot document stored under key.
func (repo *snapshotRepository) Find(ctx context.Context, key string) ([]byte, error) {
	var snapshot model.SnapshotModel
	err := repo.db.WithContext(ctx).
		Where("key = ?", key).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSnapshotNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find snapshot")
	}

	return []byte(snapshot.Document), nil
}

// Delete removes the snapshot stored under key. Deleting an absent key is
// not an error.
func (repo *snapshotRepository) Delete(ctx context.Context, key string) error {
	err := repo.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.SnapshotModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete snapshot")
	}

	return nil
}

// ListKeys returns every stored snapshot key.
func (repo *snapshotRepository) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := repo.db.WithContext(ctx).
		Model(&model.SnapshotModel{}).
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list snapshot keys")
	}

	return keys, nil
}
