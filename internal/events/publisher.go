package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MosinFAM/microblog/internal/models"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const SubjectPostCreated = "post.created"

type Publisher interface {
	PublishPostCreated(ctx context.Context, post *models.Post) error
}

// PostCreatedEvent is consumed by search indexers and feed builders.
type PostCreatedEvent struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// NatsConn is the part of *nats.Conn the publisher needs.
type NatsConn interface {
	PublishMsg(msg *nats.Msg) error
}

type NatsPublisher struct {
	nc NatsConn
}

func NewNatsPublisher(nc NatsConn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *models.Post) error {
	data, err := json.Marshal(PostCreatedEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Author:    post.Author,
		Body:      post.Body,
		Language:  post.Language,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: SubjectPostCreated,
		Data:    data,
		Header:  nats.Header{},
	}
	// carry the trace of the HTTP request to consumers
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("publishing event", "subject", msg.Subject, "post_id", post.ID)
	return p.nc.PublishMsg(msg)
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPostCreated(context.Context, *models.Post) error { return nil }
