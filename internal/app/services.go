package app

import (
	"go-attendance/internal/attendance"
	"go-attendance/internal/config"
	"go-attendance/internal/department"
	"go-attendance/internal/designation"
	"go-attendance/internal/employee"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Services struct {
	Departments  department.Service
	Designations designation.Service
	Employees    employee.Service
	Attendance   attendance.Service
}

// NewServices wires every service over the given stores. rdb may be nil.
func NewServices(cfg config.Config, stores *Stores, rdb *redis.Client, logger *zap.Logger) (*Services, error) {
	eval, err := attendance.NewEvaluator(cfg.ExpectedCheckIn, cfg.Location)
	if err != nil {
		return nil, err
	}

	return &Services{
		Departments:  department.NewService(stores.Tx, stores.Departments, rdb, logger),
		Designations: designation.NewService(stores.Tx, stores.Designations, rdb, logger),
		Employees: employee.NewServiceWithOutbox(
			stores.Tx, stores.Employees, stores.Departments, stores.Designations, stores.Outbox, logger,
		),
		Attendance: attendance.NewService(
			stores.Tx, stores.Attendance, stores.Employees, eval,
			attendance.WithOutbox(stores.Outbox),
			attendance.WithCache(rdb),
			attendance.WithLogger(logger),
		),
	}, nil
}
