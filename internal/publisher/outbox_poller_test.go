package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	r "github.com/iamcal77/e-shop-backened/internal/repository"
)

// mockOutboxStore hands out each queued event once and records which ids
// were marked published.
type mockOutboxStore struct {
	Events       []*r.OutboxEvent
	FetchErr     error
	PublishedIDs []uuid.UUID
}

func (m *mockOutboxStore) GetUnpublishedEvents(_ context.Context, _ int) ([]*r.OutboxEvent, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if len(m.Events) > 0 {
		ev := []*r.OutboxEvent{m.Events[0]}
		m.Events = m.Events[1:]
		return ev, nil
	}
	return nil, nil
}

func (m *mockOutboxStore) MarkEventPublished(_ context.Context, id uuid.UUID) error {
	m.PublishedIDs = append(m.PublishedIDs, id)
	return nil
}

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestOutboxPoller_PublishesEventsToKafka(t *testing.T) {
	brokerAddr, cleanup := setupKafka(t)
	defer cleanup()

	createTopic(t, brokerAddr, "order-events")
	time.Sleep(5 * time.Second)

	eventID := uuid.New()
	mockRepo := &mockOutboxStore{
		Events: []*r.OutboxEvent{
			{
				ID:          eventID,
				AggregateID: "42",
				EventType:   "order.created",
				Payload:     json.RawMessage(`{"order_id":42,"total":299.70}`),
				CreatedAt:   time.Now(),
			},
		},
	}

	writer := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokerAddr),
		Topic:        "order-events",
		Balancer:     &kafkaGo.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	poller := &OutboxPoller{
		tick:   time.Second,
		repo:   mockRepo,
		writer: writer,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	go poller.Run(ctx)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    "order-events",
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, "42", string(msg.Key))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, float64(42), payload["order_id"])

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "order.created", string(msg.Headers[0].Value))

	require.Len(t, mockRepo.PublishedIDs, 1)
	assert.Equal(t, eventID, mockRepo.PublishedIDs[0])
}

func TestOutboxPoller_FetchErrorDoesNotPanic(t *testing.T) {
	mockRepo := &mockOutboxStore{FetchErr: assert.AnError}
	poller := &OutboxPoller{
		tick: 10 * time.Millisecond,
		repo: mockRepo,
	}

	poller.processUnpublishedEvents(context.Background())
	assert.Empty(t, mockRepo.PublishedIDs)
}
