package attendance_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-attendance/internal/attendance"
	attendanceerrors "go-attendance/internal/attendance/errors"
	attendanceMock "go-attendance/internal/attendance/mock"
	"go-attendance/internal/employee"
	employeeMock "go-attendance/internal/employee/mock"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	kafkaMock "go-attendance/internal/messaging/kafka/mock"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"
	"go-attendance/internal/shared/optional"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

const dashboardKey = attendance.DashboardKeyPrefix + "2024-03-04"

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	service   attendance.Service
	repo      *attendanceMock.MockRepository
	employees *employeeMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	t.Cleanup(func() { db.Close() })
	rdb, redisMock := redismock.NewClientMock()

	repo := attendanceMock.NewMockRepository(ctrl)
	employees := employeeMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := attendance.NewService(
		database.NewSQLTransactor(db),
		repo,
		employees,
		newEvaluator(t, time.UTC),
		attendance.WithOutbox(outboxRepo),
		attendance.WithCache(rdb),
		attendance.WithClock(func() time.Time { return fixedNow }),
	)

	return &serviceDeps{
		sqlMock:   sqlMock,
		redisMock: redisMock,
		service:   svc,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
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

func (d *serviceDeps) expectEmployee(id uuid.UUID) {
	d.employees.EXPECT().WithTx(gomock.Any()).Return(d.employees)
	d.employees.EXPECT().FindByID(gomock.Any(), id.String()).
		Return(&employee.Employee{ID: id, Name: "John Doe"}, nil)
}

func TestAttendanceService_Mark_Transactional(t *testing.T) {
	rid := "req-123"
	ctx := contextutil.WithRequestID(context.Background(), rid)
	emplID := uuid.New()

	newReq := func() attendance.MarkAttendanceRequest {
		req := attendance.MarkAttendanceRequest{EmployeeID: emplID.String(), Date: "2024-03-04"}
		req.CheckInTime = optional.Of("09:20")
		req.CheckOutTime = optional.Of("18:30")
		return req
	}

	t.Run("create derives and queues event", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.expectEmployee(emplID)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmployeeAndDate(gomock.Any(), emplID.String(), day(2024, time.March, 4)).
			Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a *attendance.Attendance) error {
				assert.Equal(t, attendance.StatusPresent, a.Status)
				assert.Equal(t, 20, a.LateMinutes)
				assert.Equal(t, "9.17", a.TotalHours.StringFixed(2))
				return nil
			})

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), matchMarkedEvent(rid, true)).Return(nil)
		deps.redisMock.ExpectDel(dashboardKey).SetVal(1)

		resp, err := deps.service.Mark(ctx, newReq())
		assert.NoError(t, err)
		assert.True(t, resp.Created)
		assert.True(t, resp.Attendance.IsLate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("update keeps the record id", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.expectEmployee(emplID)

		existing := &attendance.Attendance{
			ID:         uuid.New(),
			EmployeeID: emplID,
			Date:       day(2024, time.March, 4),
			Status:     attendance.StatusAbsent,
			Remarks:    "called in",
		}
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmployeeAndDate(gomock.Any(), emplID.String(), gomock.Any()).Return(existing, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a *attendance.Attendance) error {
				assert.Equal(t, existing.ID, a.ID)
				assert.Equal(t, "called in", a.Remarks)
				assert.Equal(t, attendance.StatusPresent, a.Status)
				return nil
			})

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), matchMarkedEvent(rid, false)).Return(nil)
		deps.redisMock.ExpectDel(dashboardKey).SetVal(1)

		resp, err := deps.service.Mark(ctx, newReq())
		assert.NoError(t, err)
		assert.False(t, resp.Created)
		assert.Equal(t, existing.ID.String(), resp.Attendance.ID)
	})

	t.Run("concurrent insert surfaces as conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.expectEmployee(emplID)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmployeeAndDate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_employee_date"})

		_, err := deps.service.Mark(ctx, newReq())
		assert.ErrorIs(t, err, attendanceerrors.ErrAttendanceAlreadyMarked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.expectEmployee(emplID)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmployeeAndDate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := deps.service.Mark(ctx, newReq())
		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("validation happens before the transaction", func(t *testing.T) {
		deps := setupServiceTest(t)

		req := newReq()
		req.Status = optional.Of("present")
		_, err := deps.service.Mark(ctx, req)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_GetDashboardStats_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the store", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached := attendance.DashboardStatsResponse{
			Date:           "2024-03-04",
			TodayAbsentees: []attendance.AttendanceResponse{},
			WeeklyStats:    attendance.WeeklyStats(day(2024, time.March, 4), nil),
		}
		data, _ := json.Marshal(cached)
		deps.redisMock.ExpectGet(dashboardKey).SetVal(string(data))

		stats, err := deps.service.GetDashboardStats(ctx)
		assert.NoError(t, err)
		assert.Len(t, stats.WeeklyStats, 7)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss queries and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redisMock.ExpectGet(dashboardKey).RedisNil()

		today := day(2024, time.March, 4)
		deps.repo.EXPECT().Query(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f attendance.Filter) ([]attendance.Attendance, error) {
				assert.Equal(t, attendance.StatusAbsent, f.Status)
				assert.True(t, f.WithEmployee)
				return []attendance.Attendance{{ID: uuid.New(), Date: today, Status: attendance.StatusAbsent}}, nil
			})
		deps.repo.EXPECT().Query(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f attendance.Filter) ([]attendance.Attendance, error) {
				assert.Equal(t, day(2024, time.February, 27), *f.From)
				assert.Equal(t, today, *f.To)
				return []attendance.Attendance{
					{Date: today, Status: attendance.StatusAbsent},
					{Date: day(2024, time.March, 1), Status: attendance.StatusPresent},
				}, nil
			})
		deps.redisMock.Regexp().ExpectSet(dashboardKey, `.+`, 30*time.Second).SetVal("OK")

		stats, err := deps.service.GetDashboardStats(ctx)
		assert.NoError(t, err)
		assert.Len(t, stats.TodayAbsentees, 1)
		assert.Equal(t, attendance.DayCounts{Absent: 1}, stats.WeeklyStats["2024-03-04"])
		assert.Equal(t, attendance.DayCounts{Present: 1}, stats.WeeklyStats["2024-03-01"])
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_GetDashboardStats_IgnoresCallerCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := attendanceMock.NewMockRepository(ctrl)
	svc := attendance.NewService(
		database.NewNoopTransactor(),
		repo,
		employeeMock.NewMockRepository(ctrl),
		newEvaluator(t, time.UTC),
		attendance.WithClock(func() time.Time { return fixedNow }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo.EXPECT().Query(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(qctx context.Context, _ attendance.Filter) ([]attendance.Attendance, error) {
			assert.NoError(t, qctx.Err())
			return nil, nil
		})

	stats, err := svc.GetDashboardStats(ctx)
	assert.NoError(t, err)
	assert.Len(t, stats.WeeklyStats, 7)
}

type markedEventMatcher struct {
	rid     string
	created bool
}

func (m markedEventMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	if !ok || event.RequestID != m.rid || event.Topic != events.AttendanceMarkedTopic {
		return false
	}

	var payload events.AttendanceMarkedEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return false
	}
	return payload.RequestID == m.rid && payload.Created == m.created && payload.Date == "2024-03-04"
}

func (m markedEventMatcher) String() string {
	return "matches attendance.marked outbox event with request_id " + m.rid
}

func matchMarkedEvent(rid string, created bool) gomock.Matcher {
	return markedEventMatcher{rid: rid, created: created}
}

