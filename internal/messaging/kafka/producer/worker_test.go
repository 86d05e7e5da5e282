package producer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	kafkaMock "go-attendance/internal/messaging/kafka/mock"
	"go-attendance/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWriter struct {
	mu     sync.Mutex
	failOn map[string]bool
	sent   []kafkago.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range msgs {
		if w.failOn[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		w.sent = append(w.sent, m)
	}
	return nil
}

func outboxEvent(id, aggregateID, rid string) kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            id,
		RequestID:     rid,
		AggregateType: "attendance",
		AggregateID:   aggregateID,
		EventType:     "attendance.marked",
		Topic:         events.AttendanceMarkedTopic,
		Payload:       []byte(`{"event_type":"attendance.marked"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks each event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failOn: map[string]bool{"agg-2": true}}

		repo.EXPECT().ClaimPending(gomock.Any(), 50).Return([]kafka.OutboxEvent{
			outboxEvent("evt-1", "agg-1", "req-1"),
			outboxEvent("evt-2", "agg-2", ""),
		}, nil)
		repo.EXPECT().MarkSent(gomock.Any(), "evt-1").Return(nil)
		repo.EXPECT().MarkFailed(gomock.Any(), "evt-2", "broker unavailable").Return(nil)

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())
		assert.NoError(t, err)
		assert.Equal(t, 1, sent)

		if assert.Len(t, writer.sent, 1) {
			msg := writer.sent[0]
			assert.Equal(t, events.AttendanceMarkedTopic, msg.Topic)
			assert.Equal(t, "agg-1", string(msg.Key))
			assert.Contains(t, msg.Headers, kafkago.Header{Key: "request_id", Value: []byte("req-1")})
			assert.Contains(t, msg.Headers, kafkago.Header{Key: "event_type", Value: []byte("attendance.marked")})
		}
	})

	t.Run("claim failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		repo.EXPECT().ClaimPending(gomock.Any(), 50).Return(nil, errors.New("db down"))

		_, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestProcessOutboxEvents_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ClaimPending(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		producer.ProcessOutboxEvents(ctx, repo, &fakeWriter{}, zap.NewNop(), 5*time.Millisecond)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
