package adapter

import "errors"

var (
	ErrPublisherClosed = errors.New("event publisher closed")
	ErrPublishFailed   = errors.New("failed to publish event")
)
