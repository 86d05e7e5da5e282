package designation

import (
	"context"
	"database/sql"

	"go-attendance/internal/shared/database"

	"gorm.io/gorm"
)

//go:generate mockgen -source=designation_repo.go -destination=mock/designation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, desig *Designation) error
	FindAll(ctx context.Context) ([]Designation, error)
	FindByID(ctx context.Context, id string) (*Designation, error)
	Update(ctx context.Context, desig *Designation) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, desig *Designation) error {
	return database.Conn(ctx, r.db, r.tx).Create(desig).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Designation, error) {
	var desigs []Designation
	err := database.Conn(ctx, r.db, r.tx).
		Order("level ASC, name ASC").
		Find(&desigs).Error
	return desigs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Designation, error) {
	var desig Designation
	err := database.Conn(ctx, r.db, r.tx).
		First(&desig, "id = ?", id).Error
	return &desig, err
}

func (r *repository) Update(ctx context.Context, desig *Designation) error {
	return database.Conn(ctx, r.db, r.tx).Save(desig).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := database.Conn(ctx, r.db, r.tx).Delete(&Designation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
