// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter holds outbound integrations of the care-coord service.
//
// The primary abstraction is [EventPublisher], which decouples the service
// layer from the message broker. The package ships an AMQP 0-9-1
// implementation ([NewAMQPPublisher]) for RabbitMQ and a no-op publisher
// ([NewNopPublisher]) used when no broker is configured.
//
// Published events describe user lifecycle changes and never carry passwords
// or password hashes.
package adapter

import (
	"context"

	"github.com/MKhiriev/care-coord/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/event_publisher_mock.go -package=mock

// EventPublisher delivers user lifecycle events to downstream consumers
// (notification and audit services).
type EventPublisher interface {
	// Publish sends event. The routing key is the event type, e.g.
	// "worker.created".
	Publish(ctx context.Context, event models.UserEvent) error

	// Close releases the broker connection. Publish must not be called after
	// Close.
	Close() error
}
