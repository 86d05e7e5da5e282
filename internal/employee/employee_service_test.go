package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-attendance/internal/department"
	departmenterrors "go-attendance/internal/department/errors"
	departmentMock "go-attendance/internal/department/mock"
	"go-attendance/internal/designation"
	designationerrors "go-attendance/internal/designation/errors"
	designationMock "go-attendance/internal/designation/mock"
	"go-attendance/internal/employee"
	employeeerrors "go-attendance/internal/employee/errors"
	employeeMock "go-attendance/internal/employee/mock"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	kafkaMock "go-attendance/internal/messaging/kafka/mock"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      employee.Service
	repo         *employeeMock.MockRepository
	departments  *departmentMock.MockRepository
	designations *designationMock.MockRepository
	outbox       *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	t.Cleanup(func() { db.Close() })

	repo := employeeMock.NewMockRepository(ctrl)
	departments := departmentMock.NewMockRepository(ctrl)
	designations := designationMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithOutbox(database.NewSQLTransactor(db), repo, departments, designations, outboxRepo)

	return &serviceDeps{
		db:           db,
		sqlMock:      sqlMock,
		service:      svc,
		repo:         repo,
		departments:  departments,
		designations: designations,
		outbox:       outboxRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func (d *serviceDeps) expectReferences(deptID, desigID string) {
	d.departments.EXPECT().WithTx(gomock.Any()).Return(d.departments)
	d.departments.EXPECT().FindByID(gomock.Any(), deptID).
		Return(&department.Department{ID: uuid.MustParse(deptID), Name: "Engineering"}, nil)
	d.designations.EXPECT().WithTx(gomock.Any()).Return(d.designations)
	d.designations.EXPECT().FindByID(gomock.Any(), desigID).
		Return(&designation.Designation{ID: uuid.MustParse(desigID), Name: "Team Lead", Level: 3}, nil)
}

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		Name:          "John Doe",
		Email:         " John.Doe@Company.com ",
		PhoneNumber:   "1234567890",
		DepartmentID:  uuid.NewString(),
		DesignationID: uuid.NewString(),
		JoiningDate:   "2023-01-15",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success resolves references and queues event", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, true)
		deps.expectReferences(req.DepartmentID, req.DesignationID)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "john.doe@company.com", e.Email)
				assert.Equal(t, employee.StatusActive, e.Status)
				assert.Equal(t, "2023-01-15", e.JoiningDate.Format("2006-01-02"))
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeCreatedTopic, ev.Topic)
				assert.Equal(t, kafka.OutboxStatusPending, ev.Status)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Department.Name)
		assert.Equal(t, 3, resp.Designation.Level)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox carries request id", func(t *testing.T) {
		deps := setupServiceTest(t)
		rid := "REQ-123-ABC"
		ctx := contextutil.WithRequestID(context.Background(), rid)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, true)
		deps.expectReferences(req.DepartmentID, req.DesignationID)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), MatchOutboxWithRID(rid)).Return(nil)

		_, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
	})

	t.Run("unknown department", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, false)
		deps.departments.EXPECT().WithTx(gomock.Any()).Return(deps.departments)
		deps.departments.EXPECT().FindByID(gomock.Any(), req.DepartmentID).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown designation", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, false)
		deps.departments.EXPECT().WithTx(gomock.Any()).Return(deps.departments)
		deps.departments.EXPECT().FindByID(gomock.Any(), req.DepartmentID).
			Return(&department.Department{ID: uuid.MustParse(req.DepartmentID)}, nil)
		deps.designations.EXPECT().WithTx(gomock.Any()).Return(deps.designations)
		deps.designations.EXPECT().FindByID(gomock.Any(), req.DesignationID).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, designationerrors.ErrDesignationNotFound)
	})

	t.Run("duplicate email -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, false)
		deps.expectReferences(req.DepartmentID, req.DesignationID)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, false)
		deps.expectReferences(req.DepartmentID, req.DesignationID)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		_, err := deps.service.Create(ctx, req)

		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid joining date", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()
		req.JoiningDate = "15/01/2023"

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidJoiningDate)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("attendance still references employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, id).Return(&pgconn.PgError{Code: "23503"})

		err := deps.service.Delete(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeHasAttendance)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, id).Return(gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)

		assert.ErrorIs(t, deps.service.Delete(ctx, "abc"), employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_MemoryStore(t *testing.T) {
	ctx := context.Background()
	tx := database.NewNoopTransactor()

	deptRepo := department.NewMemoryRepository()
	desigRepo := designation.NewMemoryRepository()
	depts := department.NewService(tx, deptRepo, nil)
	desigs := designation.NewService(tx, desigRepo, nil)
	svc := employee.NewService(tx, employee.NewMemoryRepository(deptRepo, desigRepo), deptRepo, desigRepo)

	eng, err := depts.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
	assert.NoError(t, err)
	sales, err := depts.Create(ctx, department.CreateDepartmentRequest{Name: "Sales"})
	assert.NoError(t, err)
	dev, err := desigs.Create(ctx, designation.CreateDesignationRequest{Name: "Junior Developer"})
	assert.NoError(t, err)

	john, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		Name: "John Doe", Email: "john.doe@company.com", PhoneNumber: "1234567890",
		DepartmentID: eng.ID, DesignationID: dev.ID,
	})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{
		Name: "Tom Brown", Email: "tom.brown@company.com", PhoneNumber: "1234567894",
		DepartmentID: sales.ID, DesignationID: dev.ID,
	})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{
		Name: "Johnny", Email: "JOHN.DOE@company.com", PhoneNumber: "1",
		DepartmentID: eng.ID, DesignationID: dev.ID,
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)

	got, err := svc.GetByID(ctx, john.ID)
	assert.NoError(t, err)
	if assert.NotNil(t, got.Department) {
		assert.Equal(t, "Engineering", got.Department.Name)
	}
	if assert.NotNil(t, got.Designation) {
		assert.Equal(t, "Junior Developer", got.Designation.Name)
	}

	inSales, err := svc.GetAll(ctx, employee.Filter{DepartmentID: sales.ID})
	assert.NoError(t, err)
	if assert.Len(t, inSales, 1) {
		assert.Equal(t, "Tom Brown", inSales[0].Name)
	}

	byQuery, err := svc.GetAll(ctx, employee.Filter{Query: "JOHN"})
	assert.NoError(t, err)
	assert.Len(t, byQuery, 1)

	updated, err := svc.Update(ctx, john.ID, employee.UpdateEmployeeRequest{
		Name: "John Doe", Email: "john.doe@company.com", PhoneNumber: "1234567890",
		DepartmentID: sales.ID, DesignationID: dev.ID, Status: employee.StatusInactive,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Sales", updated.Department.Name)
	assert.Equal(t, employee.StatusInactive, updated.Status)
	assert.Equal(t, got.JoiningDate, updated.JoiningDate)

	assert.NoError(t, svc.Delete(ctx, john.ID))
	_, err = svc.GetByID(ctx, john.ID)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

type outboxRequestIDMatcher struct {
	expectedRID string
}

func (m outboxRequestIDMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	if !ok {
		return false
	}
	if event.RequestID != m.expectedRID {
		return false
	}

	var payload events.EmployeeCreatedEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return false
	}
	return payload.RequestID == m.expectedRID
}

func (m outboxRequestIDMatcher) String() string {
	return "matches outbox event with request_id " + m.expectedRID
}

func MatchOutboxWithRID(rid string) gomock.Matcher {
	return outboxRequestIDMatcher{expectedRID: rid}
}
