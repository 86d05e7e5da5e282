package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go-attendance/internal/app"
	"go-attendance/internal/attendance"
	"go-attendance/internal/department"
	"go-attendance/internal/designation"
	"go-attendance/internal/employee"
	"go-attendance/internal/shared/optional"

	"go.uber.org/zap"
)

const (
	absentChance   = 0.1
	halfDayChance  = 0.95
	halfDayOutHour = 11
)

type Options struct {
	Days int
	// Today is the last seeded date. Zero means now.
	Today time.Time
	// Location decides which calendar day Today falls on. Nil means
	// time.Local.
	Location *time.Location
	// Rand drives the generated times. Nil means a time-seeded source.
	Rand *rand.Rand
}

type Result struct {
	Departments  int
	Designations int
	Employees    int
	Attendance   int
}

var departments = []department.CreateDepartmentRequest{
	{Name: "Engineering", Description: "Software Development Team"},
	{Name: "Human Resources", Description: "HR and Recruitment"},
	{Name: "Sales", Description: "Sales and Business Development"},
	{Name: "Marketing", Description: "Marketing and Branding"},
	{Name: "Finance", Description: "Finance and Accounting"},
}

var designations = []struct {
	name  string
	level int
}{
	{"Junior Developer", 1},
	{"Senior Developer", 2},
	{"Team Lead", 3},
	{"Manager", 4},
	{"HR Executive", 2},
	{"Sales Executive", 2},
	{"Marketing Executive", 2},
	{"Accountant", 2},
}

// employees reference departments and designations by index.
var employees = []struct {
	name, email, phone string
	department         int
	designation        int
}{
	{"John Doe", "john.doe@company.com", "1234567890", 0, 1},
	{"Jane Smith", "jane.smith@company.com", "1234567891", 0, 0},
	{"Mike Johnson", "mike.johnson@company.com", "1234567892", 1, 4},
	{"Sarah Williams", "sarah.williams@company.com", "1234567893", 2, 5},
	{"Tom Brown", "tom.brown@company.com", "1234567894", 0, 2},
}

// Run creates the demo organisation and opts.Days of weekday attendance
// through the services, so every record is evaluated like a live mark.
func Run(ctx context.Context, svcs *app.Services, opts Options, logger *zap.Logger) (Result, error) {
	var res Result

	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Today
	if now.IsZero() {
		now = time.Now()
	}
	today := attendance.CivilDate(now, loc)

	deptIDs := make([]string, 0, len(departments))
	for _, req := range departments {
		d, err := svcs.Departments.Create(ctx, req)
		if err != nil {
			return res, fmt.Errorf("create department %q: %w", req.Name, err)
		}
		deptIDs = append(deptIDs, d.ID)
	}
	res.Departments = len(deptIDs)

	desigIDs := make([]string, 0, len(designations))
	for _, d := range designations {
		level := d.level
		created, err := svcs.Designations.Create(ctx, designation.CreateDesignationRequest{
			Name:  d.name,
			Level: &level,
		})
		if err != nil {
			return res, fmt.Errorf("create designation %q: %w", d.name, err)
		}
		desigIDs = append(desigIDs, created.ID)
	}
	res.Designations = len(desigIDs)

	empIDs := make([]string, 0, len(employees))
	for _, e := range employees {
		created, err := svcs.Employees.Create(ctx, employee.CreateEmployeeRequest{
			Name:          e.name,
			Email:         e.email,
			PhoneNumber:   e.phone,
			DepartmentID:  deptIDs[e.department],
			DesignationID: desigIDs[e.designation],
		})
		if err != nil {
			return res, fmt.Errorf("create employee %q: %w", e.name, err)
		}
		empIDs = append(empIDs, created.ID)
	}
	res.Employees = len(empIDs)

	for i := 0; i < opts.Days; i++ {
		day := today.AddDate(0, 0, -i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		date := day.Format("2006-01-02")

		for _, id := range empIDs {
			if _, err := svcs.Attendance.Mark(ctx, punch(rng, id, date)); err != nil {
				return res, fmt.Errorf("mark attendance %s %s: %w", id, date, err)
			}
			res.Attendance++
		}
	}

	logger.Info("seed data inserted",
		zap.Int("departments", res.Departments),
		zap.Int("designations", res.Designations),
		zap.Int("employees", res.Employees),
		zap.Int("attendance", res.Attendance),
	)
	return res, nil
}

func punch(rng *rand.Rand, employeeID, date string) attendance.MarkAttendanceRequest {
	req := attendance.MarkAttendanceRequest{EmployeeID: employeeID, Date: date}

	roll := rng.Float64()
	if roll <= absentChance {
		req.Status = optional.Of(attendance.StatusAbsent)
		return req
	}

	outHour := 17 + rng.IntN(3)
	if roll > halfDayChance {
		outHour = halfDayOutHour
	}
	req.CheckInTime = optional.Of(fmt.Sprintf("%02d:%02d", 8+rng.IntN(2), rng.IntN(60)))
	req.CheckOutTime = optional.Of(fmt.Sprintf("%02d:%02d", outHour, rng.IntN(60)))
	return req
}
