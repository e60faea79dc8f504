package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"lodging-service/internal/model"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	SubjectSpotCreated   = "spot.created"
	SubjectSpotDeleted   = "spot.deleted"
	SubjectReviewCreated = "review.created"
	SubjectReviewDeleted = "review.deleted"
)

type EventPublisher interface {
	PublishSpotCreated(spot *model.Spot) error
	PublishSpotDeleted(spotID, ownerID uuid.UUID, reviewIDs []uuid.UUID) error
	PublishReviewCreated(review *model.Review) error
	PublishReviewDeleted(review *model.Review) error
}

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type NatsPublisher struct {
	conn Conn
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(natsURL, nats.Name("lodging-service"))

	if err != nil {
		return nil, nil, err
	}

	return NewPublisher(nc), nc, nil
}

func NewPublisher(conn Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

type SpotCreatedEvent struct {
	EventType string    `json:"event_type"`
	SpotID    uuid.UUID `json:"spot_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SpotDeletedEvent lists the reviews removed along with the spot.
type SpotDeletedEvent struct {
	EventType string      `json:"event_type"`
	SpotID    uuid.UUID   `json:"spot_id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	ReviewIDs []uuid.UUID `json:"review_ids"`
	DeletedAt time.Time   `json:"deleted_at"`
}

type ReviewCreatedEvent struct {
	EventType string    `json:"event_type"`
	ReviewID  uuid.UUID `json:"review_id"`
	SpotID    uuid.UUID `json:"spot_id"`
	UserID    uuid.UUID `json:"user_id"`
	Stars     int       `json:"stars"`
}

type ReviewDeletedEvent struct {
	EventType string    `json:"event_type"`
	ReviewID  uuid.UUID `json:"review_id"`
	SpotID    uuid.UUID `json:"spot_id"`
	UserID    uuid.UUID `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (p *NatsPublisher) PublishSpotCreated(spot *model.Spot) error {
	return p.publish(SubjectSpotCreated, SpotCreatedEvent{
		EventType: SubjectSpotCreated,
		SpotID:    spot.ID,
		OwnerID:   spot.OwnerID,
		Name:      spot.Name,
		CreatedAt: spot.CreatedAt,
	})
}

func (p *NatsPublisher) PublishSpotDeleted(spotID, ownerID uuid.UUID, reviewIDs []uuid.UUID) error {
	if reviewIDs == nil {
		reviewIDs = []uuid.UUID{}
	}
	return p.publish(SubjectSpotDeleted, SpotDeletedEvent{
		EventType: SubjectSpotDeleted,
		SpotID:    spotID,
		OwnerID:   ownerID,
		ReviewIDs: reviewIDs,
		DeletedAt: time.Now(),
	})
}

func (p *NatsPublisher) PublishReviewCreated(review *model.Review) error {
	return p.publish(SubjectReviewCreated, ReviewCreatedEvent{
		EventType: SubjectReviewCreated,
		ReviewID:  review.ID,
		SpotID:    review.SpotID,
		UserID:    review.UserID,
		Stars:     review.Stars,
	})
}

func (p *NatsPublisher) PublishReviewDeleted(review *model.Review) error {
	return p.publish(SubjectReviewDeleted, ReviewDeletedEvent{
		EventType: SubjectReviewDeleted,
		ReviewID:  review.ID,
		SpotID:    review.SpotID,
		UserID:    review.UserID,
		DeletedAt: time.Now(),
	})
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		slog.Error("Error marshalling event JSON", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		slog.Error("Error publishing to NATS", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	slog.Debug("Published event to NATS", slog.String("subject", subject))

	return nil
}

// NopPublisher drops every event. It stands in when NATS is unreachable at startup.
type NopPublisher struct{}

func (NopPublisher) PublishSpotCreated(*model.Spot) error                       { return nil }
func (NopPublisher) PublishSpotDeleted(uuid.UUID, uuid.UUID, []uuid.UUID) error { return nil }
func (NopPublisher) PublishReviewCreated(*model.Review) error                   { return nil }
func (NopPublisher) PublishReviewDeleted(*model.Review) error                   { return nil }
