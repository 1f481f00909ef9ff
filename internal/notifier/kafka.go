package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/iamcal77/e-shop-backened/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

// KafkaNotifier publishes low-stock alerts to a monitoring topic. It is
// strictly fire-and-forget: publish errors are logged and swallowed, and
// a circuit breaker stops it hammering a dead broker.
type KafkaNotifier struct {
	writer  *kafka.Writer
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "low-stock-alerts",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "low-stock-notifier",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &KafkaNotifier{
		writer:  w,
		breaker: cb,
		timeout: 5 * time.Second,
	}
}

func (n *KafkaNotifier) NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		log.Printf("failed to marshal low-stock alert: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	_, err = n.breaker.Execute(func() (any, error) {
		msg := kafka.Message{
			Key:   []byte(fmt.Sprintf("%d:%d", alert.ProductVariantID, alert.WarehouseID)),
			Value: payload,
		}
		return nil, n.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		log.Printf("failed to publish low-stock alert for variant %d: %v", alert.ProductVariantID, err)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier writes alerts to the process log. Used when no broker is
// configured and in tests.
type LogNotifier struct{}

func (LogNotifier) NotifyLowStock(_ context.Context, alert domain.LowStockAlert) {
	log.Printf("low stock: variant %d at warehouse %d down to %d (reorder level %d)",
		alert.ProductVariantID, alert.WarehouseID, alert.Quantity, alert.ReorderLevel)
}
