package models

import "time"

// EventType names a user lifecycle event published to the message broker.
type EventType string

const (
	EventWorkerCreated   EventType = "worker.created"
	EventPasswordReset   EventType = "user.password_reset"
	EventPasswordChanged EventType = "user.password_changed"
	EventUserDeactivated EventType = "user.deactivated"
)

// UserEvent describes a change in a user's lifecycle. It never carries
// passwords or hashes; downstream notifiers look the user up themselves.
type UserEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id"`
	ActorID    int64     `json:"actor_id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
