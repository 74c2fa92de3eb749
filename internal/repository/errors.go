package repository

import (
	"tiro/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// translate maps gorm's sentinel errors onto the domain taxonomy so
// services never depend on gorm.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return errors.WithStack(err)
}
