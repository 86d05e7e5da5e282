package app

import (
	"context"
	"database/sql"
	"fmt"

	"go-attendance/internal/attendance"
	"go-attendance/internal/config"
	"go-attendance/internal/department"
	"go-attendance/internal/designation"
	"go-attendance/internal/employee"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/shared/connection"
	"go-attendance/internal/shared/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// Stores is the storage layer selected by STORAGE_DRIVER. Outbox is nil
// for the memory driver.
type Stores struct {
	Tx           database.Transactor
	Departments  department.Repository
	Designations designation.Repository
	Employees    employee.Repository
	Attendance   attendance.Repository
	Outbox       kafka.OutboxRepository

	sqlDB *sql.DB
}

func (s *Stores) Close() error {
	if s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func OpenStores(cfg config.Config) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		zap.L().Warn("using volatile in-memory storage")
		return NewMemoryStores(), nil
	case config.StorageDriverPostgres:
		return openPostgresStores(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// NewMemoryStores builds volatile stores. Deletes of referenced rows are
// refused the way postgres foreign keys refuse them.
func NewMemoryStores() *Stores {
	var (
		employees employee.Repository
		records   attendance.Repository
	)

	departments := department.NewMemoryRepository(func(ctx context.Context, id string) (bool, error) {
		found, err := employees.FindAll(ctx, employee.Filter{DepartmentID: id})
		return len(found) > 0, err
	})
	designations := designation.NewMemoryRepository(func(ctx context.Context, id string) (bool, error) {
		found, err := employees.FindAll(ctx, employee.Filter{DesignationID: id})
		return len(found) > 0, err
	})
	employees = employee.NewMemoryRepository(departments, designations, func(ctx context.Context, id string) (bool, error) {
		found, err := records.Query(ctx, attendance.Filter{EmployeeID: id})
		return len(found) > 0, err
	})
	records = attendance.NewMemoryRepository(employees)

	return &Stores{
		Tx:           database.NewNoopTransactor(),
		Departments:  departments,
		Designations: designations,
		Employees:    employees,
		Attendance:   records,
	}
}

func openPostgresStores(cfg config.Config) (*Stores, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, connectRetries)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := Migrate(gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Stores{
		Tx:           database.NewSQLTransactor(sqlDB),
		Departments:  department.NewRepository(gormDB),
		Designations: designation.NewRepository(gormDB),
		Employees:    employee.NewRepository(gormDB),
		Attendance:   attendance.NewRepository(gormDB),
		Outbox:       kafka.NewOutboxRepository(sqlDB),
		sqlDB:        sqlDB,
	}, nil
}

// Migrate creates or updates the schema. Order follows foreign keys.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&department.Department{},
		&designation.Designation{},
		&employee.Employee{},
		&attendance.Attendance{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := gormDB.Exec(kafka.OutboxTableDDL).Error; err != nil {
		return fmt.Errorf("create outbox table: %w", err)
	}
	return nil
}

// Reset deletes every row. Memory stores start empty, so only postgres
// has work to do.
func (s *Stores) Reset(ctx context.Context) error {
	if s.sqlDB == nil {
		return nil
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`TRUNCATE TABLE attendances, employees, designations, departments, outbox_events CASCADE`)
	return err
}
