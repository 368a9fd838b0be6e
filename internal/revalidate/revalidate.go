package revalidate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"github.com/storelane/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/storelane/order-svc/internal/service/models/outbox"
)

// Publisher sends a message to a broker. *rabbitmq.Client satisfies it.
type Publisher interface {
	Publish(exchange, routingKey, contentType string, body []byte) error
}

// Event tells any presentation layer that the cached rendering of a path is
// stale and should be recomputed on next access. The path is passed through
// from the caller uninterpreted.
type Event struct {
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Revalidator publishes path-invalidation events. When the broker is
// unavailable the event is parked in the outbox table and the outbox worker
// retries it, so a mutation never fails because of a stale cache signal.
type Revalidator struct {
	publisher  Publisher
	outboxRepo ioutboxrepo.IOutboxRepository
	queueName  string
	maxRetries int
}

func NewRevalidator(publisher Publisher, outboxRepo ioutboxrepo.IOutboxRepository) *Revalidator {
	queueName := viper.GetString("rabbitmq.revalidate.queue")
	if queueName == "" {
		queueName = "storefront.revalidate"
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	return &Revalidator{
		publisher:  publisher,
		outboxRepo: outboxRepo,
		queueName:  queueName,
		maxRetries: maxRetries,
	}
}

// Revalidate signals that the given path is stale.
func (r *Revalidator) Revalidate(ctx context.Context, path string) error {
	body, err := json.Marshal(Event{
		Path:       path,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal revalidate event: %w", err)
	}

	if err := r.publisher.Publish("", r.queueName, "application/json", body); err != nil {
		slog.Warn("Failed to publish revalidate event, parking in outbox",
			"path", path,
			"error", err,
		)

		now := time.Now()
		outboxErr := r.outboxRepo.Insert(ctx, outbox.OutboxMessage{
			QueueName:   r.queueName,
			RoutingKey:  r.queueName,
			Payload:     body,
			ContentType: "application/json",
			MaxRetries:  r.maxRetries,
			LastError:   err.Error(),
			CreatedAt:   now,
			UpdatedAt:   now,
			NextRetryAt: now,
		})
		if outboxErr != nil {
			return fmt.Errorf("failed to park revalidate event in outbox: %w", outboxErr)
		}
	}

	return nil
}
