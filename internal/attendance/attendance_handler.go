package attendance

import (
	"net/http"
	"strconv"
	"strings"

	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Mark(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http mark attendance validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.FromBinding(err))
		return
	}

	resp, err := h.service.Mark(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	response.SuccessWithMessage(c, status, "Attendance marked successfully", resp.Attendance)
}

func (h *Handler) GetByDate(c *gin.Context) {
	var q DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.FromBinding(err))
		return
	}

	resp, err := h.service.GetByDate(c.Request.Context(), c.Param("date"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetEmployeeAttendance(c *gin.Context) {
	var q EmployeeAttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.FromBinding(err))
		return
	}

	resp, err := h.service.GetEmployeeAttendance(c.Request.Context(), c.Param("employeeId"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetMonthlyReport answers with JSON, or with a file download when a
// format query parameter is given.
func (h *Handler) GetMonthlyReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.writeServiceError(c, attendanceerrors.ErrInvalidYear)
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		h.writeServiceError(c, attendanceerrors.ErrInvalidMonth)
		return
	}

	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format != "" && format != "json" {
		switch format {
		case FormatCSV, FormatXLSX, FormatPDF:
		default:
			h.writeServiceError(c, attendanceerrors.ErrUnsupportedExportFormat)
			return
		}
	}

	report, err := h.service.GetMonthlyReport(c.Request.Context(), c.Param("employeeId"), year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if format == "" || format == "json" {
		response.Success(c, http.StatusOK, report, nil)
		return
	}

	export, err := RenderReport(format, report)
	if err != nil {
		h.logger.Error("render attendance report failed", zap.String("format", format), zap.Error(err))
		h.writeServiceError(c, err)
		return
	}
	response.Attachment(c, export.ContentType, export.Filename, export.Body)
}

func (h *Handler) GetDashboardStats(c *gin.Context) {
	resp, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
