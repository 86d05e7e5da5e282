package designation

import (
	"errors"

	designationerrors "go-attendance/internal/designation/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return designationerrors.ErrDesignationNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return designationerrors.ErrDesignationAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return designationerrors.ErrDesignationInUse
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return designationerrors.ErrInvalidLevel
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return designationerrors.ErrDesignationAlreadyExists
		case "23503":
			return designationerrors.ErrDesignationInUse
		case "23514":
			return designationerrors.ErrInvalidLevel
		}
	}

	return err
}
