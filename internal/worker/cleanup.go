package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"lodging-service/internal/events"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	queueGroup     = "image-cleanup"
	handlerTimeout = 30 * time.Second
)

// ObjectRemover deletes stored objects by key prefix.
type ObjectRemover interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Subscriber is the subset of *nats.Conn the worker needs.
type Subscriber interface {
	QueueSubscribe(subject, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Cleaner removes the stored images of deleted spots and reviews.
type Cleaner struct {
	remover ObjectRemover
}

func NewCleaner(remover ObjectRemover) *Cleaner {
	return &Cleaner{remover: remover}
}

func SpotPrefix(spotID uuid.UUID) string {
	return fmt.Sprintf("spots/%s/", spotID)
}

func ReviewPrefix(reviewID uuid.UUID) string {
	return fmt.Sprintf("reviews/%s/", reviewID)
}

func (w *Cleaner) HandleSpotDeleted(ctx context.Context, data []byte) error {
	var event events.SpotDeletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decoding %s: %w", events.SubjectSpotDeleted, err)
	}

	prefixes := []string{SpotPrefix(event.SpotID)}
	for _, reviewID := range event.ReviewIDs {
		prefixes = append(prefixes, ReviewPrefix(reviewID))
	}

	return w.removeAll(ctx, prefixes)
}

func (w *Cleaner) HandleReviewDeleted(ctx context.Context, data []byte) error {
	var event events.ReviewDeletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decoding %s: %w", events.SubjectReviewDeleted, err)
	}

	return w.removeAll(ctx, []string{ReviewPrefix(event.ReviewID)})
}

// removeAll attempts every prefix and returns the first failure.
func (w *Cleaner) removeAll(ctx context.Context, prefixes []string) error {
	var firstErr error
	for _, prefix := range prefixes {
		n, err := w.remover.DeletePrefix(ctx, prefix)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to remove stored images", slog.String("prefix", prefix), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n > 0 {
			slog.InfoContext(ctx, "Removed stored images", slog.String("prefix", prefix), slog.Int("count", n))
		}
	}
	return firstErr
}

func (w *Cleaner) handler(subject string, handle func(context.Context, []byte) error) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		slog.Debug("Event received", slog.String("subject", subject))
		if err := handle(ctx, msg.Data); err != nil {
			slog.Error("Event handling failed", slog.String("subject", subject), slog.String("error", err.Error()))
		}
	}
}

// Start subscribes the cleaner in a queue group so several workers share the load.
func (w *Cleaner) Start(sub Subscriber) ([]*nats.Subscription, error) {
	handlers := map[string]func(context.Context, []byte) error{
		events.SubjectSpotDeleted:   w.HandleSpotDeleted,
		events.SubjectReviewDeleted: w.HandleReviewDeleted,
	}

	subs := make([]*nats.Subscription, 0, len(handlers))
	for subject, handle := range handlers {
		s, err := sub.QueueSubscribe(subject, queueGroup, w.handler(subject, handle))
		if err != nil {
			return subs, fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		subs = append(subs, s)
	}

	return subs, nil
}
