package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/employee"
	employeeerrors "go-attendance/internal/employee/errors"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"
	"go-attendance/internal/shared/optional"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	DashboardKeyPrefix = "attendance:dashboard:"
	dashboardTTL       = 30 * time.Second

	minReportYear = 2000
	maxReportYear = 2100
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (MarkAttendanceResponse, error)
	GetByDate(ctx context.Context, date string, q DateQuery) ([]AttendanceResponse, error)
	GetEmployeeAttendance(ctx context.Context, employeeID string, q EmployeeAttendanceQuery) ([]AttendanceResponse, error)
	GetMonthlyReport(ctx context.Context, employeeID string, year, month int) (MonthlyReportResponse, error)
	GetDashboardStats(ctx context.Context) (DashboardStatsResponse, error)
}

type Option func(*service)

// WithOutbox queues an attendance.marked event in the same transaction as
// every mark.
func WithOutbox(outbox kafka.OutboxRepository) Option {
	return func(s *service) { s.outbox = outbox }
}

// WithCache enables the dashboard cache. A nil client leaves it disabled.
func WithCache(rdb *redis.Client) Option {
	return func(s *service) { s.rdb = rdb }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("attendance.service")
		}
	}
}

type service struct {
	tx        database.Transactor
	repo      Repository
	employees employee.Repository
	eval      *Evaluator
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	sf        *singleflight.Group
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	tx database.Transactor,
	repo Repository,
	employees employee.Repository,
	eval *Evaluator,
	opts ...Option,
) Service {
	s := &service{
		tx:        tx,
		repo:      repo,
		employees: employees,
		eval:      eval,
		sf:        &singleflight.Group{},
		now:       time.Now,
		logger:    zap.L().Named("attendance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// markInput is a validated MarkAttendanceRequest.
type markInput struct {
	employeeID uuid.UUID
	date       time.Time
	checkIn    optional.Field[time.Time]
	checkOut   optional.Field[time.Time]
	status     optional.Field[string]
	remarks    optional.Field[string]
}

func (s *service) Mark(ctx context.Context, req MarkAttendanceRequest) (MarkAttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("mark attendance requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
	)

	in, err := s.validateMark(req)
	if err != nil {
		log.Warn("mark attendance rejected", zap.Error(err))
		return MarkAttendanceResponse{}, err
	}

	var (
		record  *Attendance
		created bool
	)
	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		empl, err := s.employees.WithTx(tx).FindByID(ctx, in.employeeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrEmployeeNotFound
			}
			return apperror.Internal(err)
		}

		qtx := s.repo.WithTx(tx)
		existing, err := qtx.FindByEmployeeAndDate(ctx, in.employeeID.String(), in.date)
		switch {
		case err == nil:
			record = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			record = &Attendance{
				ID:         uuid.New(),
				EmployeeID: in.employeeID,
				Date:       in.date,
				Status:     StatusAbsent,
			}
		default:
			log.Error("mark attendance lookup failed", zap.Error(err))
			return apperror.Internal(err)
		}

		applyMark(record, in)
		if record.CheckInTime != nil && record.CheckOutTime != nil &&
			record.CheckOutTime.Before(*record.CheckInTime) {
			return attendanceerrors.ErrCheckOutBeforeCheckIn
		}
		s.eval.Derive(record)

		if created {
			err = qtx.Create(ctx, record)
		} else {
			err = qtx.Update(ctx, record)
		}
		if err != nil {
			log.Error("mark attendance persist failed", zap.Bool("created", created), zap.Error(err))
			return mapRepositoryError(err)
		}

		record.Employee = empl
		return s.queueMarkedEvent(ctx, tx, record, created, rid)
	})
	if err != nil {
		return MarkAttendanceResponse{}, err
	}

	s.invalidateDashboard(ctx)
	log.Info("mark attendance success",
		zap.String("request_id", rid),
		zap.String("attendance_id", record.ID.String()),
		zap.String("status", record.Status),
		zap.Bool("created", created),
	)

	return MarkAttendanceResponse{
		Attendance: s.toResponse(*record),
		Created:    created,
	}, nil
}

func (s *service) validateMark(req MarkAttendanceRequest) (markInput, error) {
	var in markInput

	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		return in, apperror.RequiredField("employee_id")
	}
	uid, err := uuid.Parse(employeeID)
	if err != nil {
		return in, attendanceerrors.ErrInvalidEmployeeID
	}
	in.employeeID = uid

	rawDate := strings.TrimSpace(req.Date)
	if rawDate == "" {
		return in, apperror.RequiredField("date")
	}
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return in, attendanceerrors.ErrInvalidDate
	}
	in.date = date

	if req.Status.IsSet() && !IsValidStatus(req.Status.Value) {
		return in, attendanceerrors.ErrInvalidStatus
	}
	in.status = req.Status
	in.remarks = req.Remarks

	if in.checkIn, err = s.parseTimeField(req.CheckInTime, date); err != nil {
		return in, attendanceerrors.ErrInvalidCheckInTime
	}
	if in.checkOut, err = s.parseTimeField(req.CheckOutTime, date); err != nil {
		return in, attendanceerrors.ErrInvalidCheckOutTime
	}
	if in.checkIn.IsSet() && in.checkOut.IsSet() && in.checkOut.Value.Before(in.checkIn.Value) {
		return in, attendanceerrors.ErrCheckOutBeforeCheckIn
	}
	return in, nil
}

var errTimeOffDate = errors.New("time is not on the record date")

// parseTimeField accepts "HH:MM" on the record's date in the evaluator's
// location, or an RFC3339 instant falling on that date in the same
// location. An empty string clears the value.
func (s *service) parseTimeField(f optional.Field[string], date time.Time) (optional.Field[time.Time], error) {
	if !f.Present {
		return optional.Field[time.Time]{}, nil
	}
	raw := strings.TrimSpace(f.Value)
	if f.Null || raw == "" {
		return optional.Null[time.Time](), nil
	}

	if clock, err := time.Parse("15:04", raw); err == nil {
		return optional.Of(time.Date(date.Year(), date.Month(), date.Day(),
			clock.Hour(), clock.Minute(), 0, 0, s.eval.Location())), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return optional.Field[time.Time]{}, err
	}
	if !CivilDate(t, s.eval.Location()).Equal(date) {
		return optional.Field[time.Time]{}, errTimeOffDate
	}
	return optional.Of(t), nil
}

// applyMark merges the request into the record: omitted fields keep their
// value, null clears it.
func applyMark(a *Attendance, in markInput) {
	if in.checkIn.Present {
		a.CheckInTime = nil
		if in.checkIn.IsSet() {
			t := in.checkIn.Value
			a.CheckInTime = &t
		}
	}
	if in.checkOut.Present {
		a.CheckOutTime = nil
		if in.checkOut.IsSet() {
			t := in.checkOut.Value
			a.CheckOutTime = &t
		}
	}
	if in.status.Present {
		a.Status = StatusAbsent
		if in.status.IsSet() {
			a.Status = in.status.Value
		}
	}
	if in.remarks.Present {
		a.Remarks = strings.TrimSpace(in.remarks.Value)
	}
}

func (s *service) GetByDate(ctx context.Context, date string, q DateQuery) ([]AttendanceResponse, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}
	if q.Status != "" && !IsValidStatus(q.Status) {
		return nil, attendanceerrors.ErrInvalidStatus
	}

	records, err := s.repo.Query(ctx, Filter{
		Date:         &d,
		Status:       q.Status,
		WithEmployee: true,
	})
	if err != nil {
		s.logger.Error("get attendance by date failed", zap.String("date", date), zap.Error(err))
		return nil, apperror.Internal(err)
	}
	return s.toListResponse(records), nil
}

func (s *service) GetEmployeeAttendance(ctx context.Context, employeeID string, q EmployeeAttendanceQuery) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}

	filter := Filter{EmployeeID: employeeID, NewestFirst: true}
	if q.StartDate != "" || q.EndDate != "" {
		if q.StartDate == "" || q.EndDate == "" {
			return nil, attendanceerrors.ErrDateRangeIncomplete
		}
		from, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
		to, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
		if from.After(to) {
			return nil, attendanceerrors.ErrDateRangeInverted
		}
		filter.From, filter.To = &from, &to
	}

	if _, err := s.findEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	records, err := s.repo.Query(ctx, filter)
	if err != nil {
		s.logger.Error("get employee attendance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, apperror.Internal(err)
	}
	return s.toListResponse(records), nil
}

func (s *service) GetMonthlyReport(ctx context.Context, employeeID string, year, month int) (MonthlyReportResponse, error) {
	if year < minReportYear || year > maxReportYear {
		return MonthlyReportResponse{}, attendanceerrors.ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return MonthlyReportResponse{}, attendanceerrors.ErrInvalidMonth
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return MonthlyReportResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	empl, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return MonthlyReportResponse{}, err
	}

	first, last := MonthRange(year, time.Month(month))
	records, err := s.repo.Query(ctx, Filter{
		EmployeeID: employeeID,
		From:       &first,
		To:         &last,
	})
	if err != nil {
		s.logger.Error("get monthly report failed",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		return MonthlyReportResponse{}, apperror.Internal(err)
	}

	sum := Summarize(year, time.Month(month), records)
	return MonthlyReportResponse{
		Employee:         employee.ToResponse(*empl),
		Month:            first.Format(monthLayout),
		TotalDays:        sum.TotalDays,
		WorkingDays:      sum.WorkingDays,
		PresentDays:      sum.PresentDays,
		AbsentDays:       sum.AbsentDays,
		HalfDays:         sum.HalfDays,
		LeaveDays:        sum.LeaveDays,
		HolidayDays:      sum.HolidayDays,
		LateDays:         sum.LateDays,
		TotalHoursWorked: sum.TotalHoursWorked,
		TotalLateMinutes: sum.TotalLateMinutes,
		AttendanceRate:   sum.AttendanceRate,
		Details:          s.toListResponse(records),
	}, nil
}

func (s *service) GetDashboardStats(ctx context.Context) (DashboardStatsResponse, error) {
	today := CivilDate(s.now(), s.eval.Location())
	key := DashboardKeyPrefix + today.Format(dateLayout)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp DashboardStatsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Coalesced callers share this query, so one caller's cancellation
	// must not fail the others.
	sfCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		absentees, err := s.repo.Query(sfCtx, Filter{
			Date:         &today,
			Status:       StatusAbsent,
			WithEmployee: true,
		})
		if err != nil {
			return nil, apperror.Internal(err)
		}

		weekStart := today.AddDate(0, 0, -(dashboardDays - 1))
		week, err := s.repo.Query(sfCtx, Filter{From: &weekStart, To: &today})
		if err != nil {
			return nil, apperror.Internal(err)
		}

		resp := DashboardStatsResponse{
			Date:           today.Format(dateLayout),
			TodayAbsentees: s.toListResponse(absentees),
			WeeklyStats:    WeeklyStats(today, week),
		}
		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(sfCtx, key, data, dashboardTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get dashboard stats failed", zap.Error(err))
		return DashboardStatsResponse{}, err
	}

	return v.(DashboardStatsResponse), nil
}

func (s *service) findEmployee(ctx context.Context, employeeID string) (*employee.Employee, error) {
	empl, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, apperror.Internal(err)
	}
	return empl, nil
}

func (s *service) invalidateDashboard(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	key := DashboardKeyPrefix + CivilDate(s.now(), s.eval.Location()).Format(dateLayout)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("invalidate dashboard cache failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) queueMarkedEvent(ctx context.Context, tx *sql.Tx, a *Attendance, created bool, rid string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.AttendanceMarkedEvent{
		EventType:    "attendance.marked",
		RequestID:    rid,
		AttendanceID: a.ID.String(),
		EmployeeID:   a.EmployeeID.String(),
		Date:         a.Date.Format(dateLayout),
		Status:       a.Status,
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		IsLate:       a.IsLate,
		LateMinutes:  a.LateMinutes,
		TotalHours:   a.TotalHours.StringFixed(2),
		Created:      created,
		OccurredAt:   s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance",
		AggregateID:   a.ID.String(),
		EventType:     event.EventType,
		Topic:         events.AttendanceMarkedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("mark attendance outbox persist failed",
			zap.String("attendance_id", a.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) toResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID.String(),
		EmployeeID:   a.EmployeeID.String(),
		Date:         a.Date.Format(dateLayout),
		CheckInTime:  s.formatInstant(a.CheckInTime),
		CheckOutTime: s.formatInstant(a.CheckOutTime),
		Status:       a.Status,
		IsLate:       a.IsLate,
		LateMinutes:  a.LateMinutes,
		TotalHours:   a.TotalHours,
		Remarks:      a.Remarks,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if a.Employee != nil {
		e := employee.ToResponse(*a.Employee)
		resp.Employee = &e
	}
	return resp
}

func (s *service) toListResponse(records []Attendance) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(records))
	for i, a := range records {
		resp[i] = s.toResponse(a)
	}
	return resp
}

func (s *service) formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.In(s.eval.Location()).Format(time.RFC3339)
	return &v
}
