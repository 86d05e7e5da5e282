package seed_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"go-attendance/internal/app"
	"go-attendance/internal/attendance"
	"go-attendance/internal/config"
	"go-attendance/internal/employee"
	"go-attendance/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServices(t *testing.T) *app.Services {
	t.Helper()
	return newServicesIn(t, time.UTC)
}

func newServicesIn(t *testing.T, loc *time.Location) *app.Services {
	t.Helper()
	cfg := config.Config{ExpectedCheckIn: "09:00", Location: loc}
	svcs, err := app.NewServices(cfg, app.NewMemoryStores(), nil, zap.NewNop())
	require.NoError(t, err)
	return svcs
}

func TestRun_WeekdaysOnly(t *testing.T) {
	ctx := context.Background()
	svcs := newServices(t)

	// Monday 2024-03-04 back seven days covers two weekend days.
	res, err := seed.Run(ctx, svcs, seed.Options{
		Days:  7,
		Today: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
		Rand:  rand.New(rand.NewPCG(1, 2)),
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Departments)
	assert.Equal(t, 8, res.Designations)
	assert.Equal(t, 5, res.Employees)
	assert.Equal(t, 25, res.Attendance)

	emps, err := svcs.Employees.GetAll(ctx, employee.Filter{})
	require.NoError(t, err)
	require.Len(t, emps, 5)

	weekend, err := svcs.Attendance.GetByDate(ctx, "2024-03-03", attendance.DateQuery{})
	require.NoError(t, err)
	assert.Empty(t, weekend)

	monday, err := svcs.Attendance.GetByDate(ctx, "2024-03-04", attendance.DateQuery{})
	require.NoError(t, err)
	assert.Len(t, monday, 5)

	for _, rec := range monday {
		switch rec.Status {
		case attendance.StatusAbsent:
			assert.Nil(t, rec.CheckInTime)
		case attendance.StatusPresent, attendance.StatusHalfDay:
			assert.NotNil(t, rec.CheckInTime)
			assert.NotNil(t, rec.CheckOutTime)
			assert.True(t, rec.TotalHours.IsPositive())
		default:
			t.Fatalf("unexpected status %q", rec.Status)
		}
	}
}

func TestRun_UsesConfiguredLocationForToday(t *testing.T) {
	ctx := context.Background()
	wib := time.FixedZone("WIB", 7*3600)
	svcs := newServicesIn(t, wib)

	// 20:00 UTC on Monday is already Tuesday 2024-03-05 in WIB.
	res, err := seed.Run(ctx, svcs, seed.Options{
		Days:     7,
		Today:    time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC),
		Location: wib,
		Rand:     rand.New(rand.NewPCG(3, 4)),
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 25, res.Attendance)

	tuesday, err := svcs.Attendance.GetByDate(ctx, "2024-03-05", attendance.DateQuery{})
	require.NoError(t, err)
	assert.Len(t, tuesday, 5)

	dropped, err := svcs.Attendance.GetByDate(ctx, "2024-02-27", attendance.DateQuery{})
	require.NoError(t, err)
	assert.Empty(t, dropped)
}

func TestRun_ZeroDays(t *testing.T) {
	res, err := seed.Run(context.Background(), newServices(t), seed.Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Employees)
	assert.Zero(t, res.Attendance)
}
