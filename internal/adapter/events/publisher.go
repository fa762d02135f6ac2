package events

import (
	"context"
	"encoding/json"
	"time"

	apperrors "resume-builder/internal/errors"
	"resume-builder/pkg/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	TypeExported     = "exported"
	TypeDraftSaved   = "draft.saved"
	TypeDraftDeleted = "draft.deleted"
)

// Event is the payload published for every export and draft change.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	DraftID    string    `json:"draftId,omitempty"`
	TemplateID string    `json:"templateId,omitempty"`
	Encoding   string    `json:"encoding,omitempty"`
	Bytes      int       `json:"bytes,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher connects to url. Subjects are "<prefix>.<event type>".
func NewNATSPublisher(url, prefix string, logger *zap.Logger) (Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("resume-builder"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, apperrors.Unavailable("connecting to NATS", err)
	}
	return &natsPublisher{conn: conn, prefix: prefix, logger: logger}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, e Event) error {
	_, span := telemetry.Tracer("resume-builder/events").Start(ctx, "Publish")
	defer span.End()

	data, err := json.Marshal(e)
	if err != nil {
		telemetry.RecordError(span, err)
		return apperrors.Internal("marshaling event", err)
	}

	subject := Subject(p.prefix, e.Type)
	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		telemetry.RecordError(span, err)
		p.logger.Error("failed to publish event", zap.String("subject", subject), zap.Error(err))
		return apperrors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published event", zap.String("subject", subject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// Noop drops every event. It stands in when NATS is not configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close()                               {}
