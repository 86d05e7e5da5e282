package attendanceerrors

import (
	"go-attendance/internal/shared/apperror"
	"net/http"
)

var (
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrAttendanceAlreadyMarked = apperror.New(
		apperror.CodeConflict,
		"Attendance for this employee and date was marked concurrently",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid status, expected one of Present, Absent, Half Day, Holiday, Leave",
		http.StatusBadRequest,
	)
	ErrInvalidCheckInTime = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid check_in_time, expected HH:MM or RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidCheckOutTime = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid check_out_time, expected HH:MM or RFC3339",
		http.StatusBadRequest,
	)
	ErrCheckOutBeforeCheckIn = apperror.New(
		apperror.CodeInvalidInput,
		"check_out_time cannot be before check_in_time",
		http.StatusBadRequest,
	)
	ErrDateRangeIncomplete = apperror.New(
		apperror.CodeInvalidInput,
		"Both start_date and end_date are required to filter by range",
		http.StatusBadRequest,
	)
	ErrDateRangeInverted = apperror.New(
		apperror.CodeInvalidInput,
		"start_date cannot be after end_date",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Valid year is required (2000-2100)",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Valid month is required (1-12)",
		http.StatusBadRequest,
	)
	ErrUnsupportedExportFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Unsupported export format, expected csv, xlsx or pdf",
		http.StatusBadRequest,
	)
)
