package department

import (
	"errors"

	departmenterrors "go-attendance/internal/department/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return departmenterrors.ErrDepartmentNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return departmenterrors.ErrDepartmentAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return departmenterrors.ErrDepartmentInUse
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return departmenterrors.ErrDepartmentAlreadyExists
		case "23503":
			return departmenterrors.ErrDepartmentInUse
		}
	}

	return err
}
