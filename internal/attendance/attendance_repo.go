package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-attendance/internal/shared/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	Query(ctx context.Context, filter Filter) ([]Attendance, error)
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

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := database.Conn(ctx, r.db, r.tx).
		Where("employee_id = ? AND date = ?", employeeID, date.Format(dateLayout)).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return database.Conn(ctx, r.db, r.tx).
		Omit(clause.Associations).
		Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return database.Conn(ctx, r.db, r.tx).
		Omit(clause.Associations).
		Save(a).Error
}

func (r *repository) Query(ctx context.Context, filter Filter) ([]Attendance, error) {
	query := database.Conn(ctx, r.db, r.tx)

	if filter.WithEmployee {
		query = query.
			Preload("Employee").
			Preload("Employee.Department").
			Preload("Employee.Designation")
	}
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", filter.Date.Format(dateLayout))
	}
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.Format(dateLayout))
	}
	if filter.To != nil {
		query = query.Where("date <= ?", filter.To.Format(dateLayout))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	order := "date ASC"
	if filter.NewestFirst {
		order = "date DESC"
	}

	var records []Attendance
	err := query.Order(order).Order("created_at ASC").Find(&records).Error
	return records, err
}
