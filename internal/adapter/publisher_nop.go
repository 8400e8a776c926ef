package adapter

import (
	"context"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/models"
)

// nopPublisher drops events. It is used when no broker URL is configured.
type nopPublisher struct{}

// NewNopPublisher returns an [EventPublisher] that only logs at debug level.
func NewNopPublisher() EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(ctx context.Context, event models.UserEvent) error {
	logger.FromContext(ctx).Debug().
		Str("event_type", string(event.Type)).
		Int64("user_id", event.UserID).
		Msg("no broker configured, event dropped")
	return nil
}

func (nopPublisher) Close() error { return nil }
