package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-attendance/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func validEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
		RequestID:     "req-1",
		AggregateType: "attendance",
		AggregateID:   "6ec0bd7f-11c0-43da-975e-2a8ad9ebae0b",
		EventType:     "attendance.marked",
		Topic:         "hr.attendance.marked.v1",
		Payload:       []byte(`{}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestValidateOutboxEvent(t *testing.T) {
	assert.NoError(t, kafka.ValidateOutboxEvent(validEvent()))

	noTopic := validEvent()
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	noPayload := validEvent()
	noPayload.Payload = nil
	assert.Error(t, kafka.ValidateOutboxEvent(noPayload))

	noAggregate := validEvent()
	noAggregate.AggregateID = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noAggregate))

	alreadySent := validEvent()
	alreadySent.Status = kafka.OutboxStatusSent
	assert.Error(t, kafka.ValidateOutboxEvent(alreadySent))
}

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()
	repo := kafka.NewOutboxRepository(db)

	t.Run("inserts inside the given transaction", func(t *testing.T) {
		e := validEvent()
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
			WithArgs(e.ID, e.RequestID, e.AggregateType, e.AggregateID, e.EventType, e.Topic, e.Payload, e.Status).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)
		assert.NoError(t, repo.WithTx(tx).Create(ctx, e))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid events before touching the db", func(t *testing.T) {
		e := validEvent()
		e.ID = ""
		assert.Error(t, repo.Create(ctx, e))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ClaimPending(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	older := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "retry_count", "created_at",
	}).
		AddRow("evt-2", "", "attendance", "agg-2", "attendance.marked",
			"hr.attendance.marked.v1", []byte(`{}`), 0, newer).
		AddRow("evt-1", "req-1", "attendance", "agg-1", "attendance.marked",
			"hr.attendance.marked.v1", []byte(`{}`), 2, older)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(kafka.OutboxStatusProcessing, kafka.OutboxStatusPending, kafka.OutboxStatusFailed,
			int(kafka.ClaimTimeout.Seconds()), 10).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ClaimPending(context.Background(), 10)
	assert.NoError(t, err)
	if assert.Len(t, events, 2) {
		assert.Equal(t, "evt-1", events[0].ID)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, 2, events[0].RetryCount)
		assert.Equal(t, kafka.OutboxStatusProcessing, events[0].Status)
		assert.Equal(t, "evt-2", events[1].ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()
	repo := kafka.NewOutboxRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("evt-1", kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("evt-2", kafka.OutboxStatusFailed, "broker unavailable",
			kafka.MaxPublishAttempts, kafka.OutboxStatusDead, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(ctx, "evt-1"))
	assert.NoError(t, repo.MarkFailed(ctx, "evt-2", "broker unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
