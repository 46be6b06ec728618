package repository

import (
	"errors"

	"foodorder/pkg/apperr"

	"gorm.io/gorm"
)

// notFound turns gorm's missing-row error into apperr.ErrNotFound and leaves
// everything else alone.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
