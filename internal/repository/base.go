// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"plume/internal/models"

	"gorm.io/gorm"
)

// translateError maps storage errors onto the application taxonomy: a
// record-not-found becomes NOT_FOUND for the given resource/key, constraint
// violations become CONFLICT, anything else is internal.
func translateError(err error, resource string, key any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, key)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewIntegrityError(err)
	default:
		return models.NewInternalError(err)
	}
}
