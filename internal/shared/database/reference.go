package database

import (
	"context"

	"gorm.io/gorm"
)

// InUseFunc reports whether other records still reference id. Memory
// stores use it where postgres has foreign keys.
type InUseFunc func(ctx context.Context, id string) (bool, error)

// CheckNotReferenced returns gorm.ErrForeignKeyViolated when any check
// finds a reference.
func CheckNotReferenced(ctx context.Context, id string, checks []InUseFunc) error {
	for _, inUse := range checks {
		used, err := inUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return gorm.ErrForeignKeyViolated
		}
	}
	return nil
}
