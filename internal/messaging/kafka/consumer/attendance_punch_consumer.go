package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go-attendance/internal/attendance"
	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/events"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAttendancePunches marks attendance for every device punch until
// ctx is cancelled. A punch that lost a first-insert race is retried once.
// Punches the service rejects as invalid are committed and dropped; other
// failures leave the message uncommitted.
func ConsumeAttendancePunches(
	ctx context.Context,
	reader MessageReader,
	svc attendance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_punch")
	log.Info("attendance punch consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance punch consumer stopped")
				return
			}
			log.Error("fetch attendance punch message failed", zap.Error(err))
			continue
		}

		if handlePunch(ctx, msg, svc, log) {
			if err := reader.CommitMessages(ctx, msg); err != nil {
				log.Error("commit attendance punch message failed", zap.Error(err))
			}
		}
	}
}

// handlePunch reports whether the message is done with and can be
// committed.
func handlePunch(ctx context.Context, msg kafkago.Message, svc attendance.Service, log *zap.Logger) bool {
	rid := header(msg, "request_id")
	if rid == "" {
		rid = uuid.NewString()
	}
	log = log.With(
		zap.String("request_id", rid),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)
	ctx = contextutil.WithLogger(contextutil.WithRequestID(ctx, rid), log)

	var punch events.AttendancePunchEvent
	if err := json.Unmarshal(msg.Value, &punch); err != nil {
		log.Error("decode attendance punch failed", zap.Error(err))
		return true
	}

	req := attendance.MarkAttendanceRequest{
		EmployeeID:   punch.EmployeeID,
		Date:         punch.Date,
		CheckInTime:  punch.CheckInTime,
		CheckOutTime: punch.CheckOutTime,
		Status:       punch.Status,
		Remarks:      punch.Remarks,
	}

	resp, err := svc.Mark(ctx, req)
	if errors.Is(err, attendanceerrors.ErrAttendanceAlreadyMarked) {
		log.Warn("attendance punch raced a concurrent mark, retrying", zap.String("employee_id", punch.EmployeeID))
		resp, err = svc.Mark(ctx, req)
	}
	if err != nil {
		if isClientError(err) {
			log.Warn("attendance punch rejected",
				zap.String("employee_id", punch.EmployeeID),
				zap.String("date", punch.Date),
				zap.Error(err),
			)
			return true
		}
		log.Error("mark attendance from punch failed",
			zap.String("employee_id", punch.EmployeeID),
			zap.String("date", punch.Date),
			zap.Error(err),
		)
		return false
	}

	log.Info("attendance marked from punch",
		zap.String("attendance_id", resp.Attendance.ID),
		zap.String("status", resp.Attendance.Status),
		zap.Bool("created", resp.Created),
	)
	return true
}

func isClientError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) &&
		appErr.HTTPStatus >= http.StatusBadRequest &&
		appErr.HTTPStatus < http.StatusInternalServerError
}
