package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-attendance/internal/department"
	departmenterrors "go-attendance/internal/department/errors"
	"go-attendance/internal/designation"
	designationerrors "go-attendance/internal/designation/errors"
	employeeerrors "go-attendance/internal/employee/errors"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter Filter) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	tx           database.Transactor
	repo         Repository
	departments  department.Repository
	designations designation.Repository
	outbox       kafka.OutboxRepository
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(
	tx database.Transactor,
	repo Repository,
	departments department.Repository,
	designations designation.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(tx, repo, departments, designations, nil, logger...)
}

func NewServiceWithOutbox(
	tx database.Transactor,
	repo Repository,
	departments department.Repository,
	designations designation.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		tx:           tx,
		repo:         repo,
		departments:  departments,
		designations: designations,
		outbox:       outboxRepo,
		now:          time.Now,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("department_id", req.DepartmentID),
		zap.String("designation_id", req.DesignationID),
		zap.String("email", req.Email),
	)

	joiningDate := truncateDate(s.now())
	if req.JoiningDate != "" {
		d, err := time.Parse(dateLayout, req.JoiningDate)
		if err != nil {
			log.Warn("create employee invalid joining_date", zap.String("joining_date", req.JoiningDate))
			return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate
		}
		joiningDate = d
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	empl := &Employee{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Email:         normalizeEmail(req.Email),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		DepartmentID:  uuid.MustParse(req.DepartmentID),
		DesignationID: uuid.MustParse(req.DesignationID),
		JoiningDate:   joiningDate,
		Status:        status,
	}

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureReferences(ctx, tx, empl); err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
			log.Error("create employee persist failed", zap.Error(err))
			return mapRepositoryError(err)
		}

		return s.queueCreatedEvent(ctx, tx, empl, rid)
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	log.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return ToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, filter Filter) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested",
		zap.String("department_id", filter.DepartmentID),
		zap.String("designation_id", filter.DesignationID),
	)

	empls, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = ToResponse(e)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return ToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update employee requested",
		zap.String("employee_id", id),
		zap.String("department_id", req.DepartmentID),
		zap.String("designation_id", req.DesignationID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	var joiningDate *time.Time
	if req.JoiningDate != "" {
		d, err := time.Parse(dateLayout, req.JoiningDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate
		}
		joiningDate = &d
	}

	var updated Employee
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)

		empl, err := qtx.FindByID(ctx, id)
		if err != nil {
			log.Error("update employee fetch existing failed", zap.Error(err))
			return mapRepositoryError(err)
		}

		empl.Name = strings.TrimSpace(req.Name)
		empl.Email = normalizeEmail(req.Email)
		empl.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
		empl.DepartmentID = uuid.MustParse(req.DepartmentID)
		empl.DesignationID = uuid.MustParse(req.DesignationID)
		if joiningDate != nil {
			empl.JoiningDate = *joiningDate
		}
		if req.Status != "" {
			empl.Status = req.Status
		}

		if err := s.ensureReferences(ctx, tx, empl); err != nil {
			return err
		}

		if err := qtx.Update(ctx, empl); err != nil {
			log.Error("update employee persist failed", zap.Error(err))
			return mapRepositoryError(err)
		}
		updated = *empl
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	log.Info("update employee success", zap.String("employee_id", id))
	return ToResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("delete employee requested", zap.String("employee_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		log.Error("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapDeleteError(err)
	}

	log.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

// ensureReferences loads the department and designation the employee
// points to and attaches them so responses carry resolved references.
func (s *service) ensureReferences(ctx context.Context, tx *sql.Tx, empl *Employee) error {
	dept, err := s.departments.WithTx(tx).FindByID(ctx, empl.DepartmentID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return departmenterrors.ErrDepartmentNotFound
		}
		return err
	}

	desig, err := s.designations.WithTx(tx).FindByID(ctx, empl.DesignationID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return designationerrors.ErrDesignationNotFound
		}
		return err
	}

	empl.Department = dept
	empl.Designation = desig
	return nil
}

func (s *service) queueCreatedEvent(ctx context.Context, tx *sql.Tx, empl *Employee, rid string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.EmployeeCreatedEvent{
		EventType:     "employee_created",
		RequestID:     rid,
		EmployeeID:    empl.ID.String(),
		DepartmentID:  empl.DepartmentID.String(),
		DesignationID: empl.DesignationID.String(),
		OccurredAt:    s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   empl.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("create employee outbox persist failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToResponse is shared with packages that embed employees in their own
// responses.
func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            e.ID.String(),
		Name:          e.Name,
		Email:         e.Email,
		PhoneNumber:   e.PhoneNumber,
		DepartmentID:  e.DepartmentID.String(),
		DesignationID: e.DesignationID.String(),
		JoiningDate:   e.JoiningDate.Format(dateLayout),
		Status:        e.Status,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
	if e.Department != nil {
		resp.Department = &EmployeeDepartmentResponse{
			ID:   e.Department.ID.String(),
			Name: e.Department.Name,
		}
	}
	if e.Designation != nil {
		resp.Designation = &EmployeeDesignationResponse{
			ID:    e.Designation.ID.String(),
			Name:  e.Designation.Name,
			Level: e.Designation.Level,
		}
	}
	return resp
}
