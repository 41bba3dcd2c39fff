package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
)

// versionedUpdate writes values only while the stored row is older than the
// entity. Entities bump their version on every mutation, so a concurrent
// writer that persisted first leaves the stored version at or above ours.
func versionedUpdate(tx *gorm.DB, model any, id string, version int, values map[string]any) (int64, error) {
	values["version"] = version
	result := tx.Model(model).
		Where("id = ? AND version < ?", id, version).
		Updates(values)
	return result.RowsAffected, result.Error
}

func conflictError(entity, id string) error {
	return apperrors.NewConflictError(fmt.Sprintf("%s was modified concurrently", entity), id)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
