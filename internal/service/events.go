package service

import (
	"context"
	"time"

	"github.com/MKhiriev/care-coord/internal/adapter"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/models"
)

func newUserEvent(eventType models.EventType, user models.User, actorID int64, at time.Time) models.UserEvent {
	return models.UserEvent{
		ID:         utils.NewID(),
		Type:       eventType,
		UserID:     user.ID,
		ActorID:    actorID,
		Email:      user.Email,
		Role:       user.Role,
		OccurredAt: at.UTC(),
	}
}

// publishEvent is best effort: the state change is already committed, so a
// broker failure is logged and not returned to the caller.
func publishEvent(ctx context.Context, publisher adapter.EventPublisher, event models.UserEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("event_type", string(event.Type)).
			Int64("user_id", event.UserID).
			Msg("failed to publish user event")
	}
}
