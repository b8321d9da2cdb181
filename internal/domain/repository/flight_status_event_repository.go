package repository

import (
	"context"
	"time"

	"flighttrack-service/internal/domain/entity"
)

// FlightStatusEventRepository defines the interface for the idempotency
// records backing webhook reconciliation.
type FlightStatusEventRepository interface {
	// Create inserts a new event row. A conflict on the
	// (flight id, event type, event time) unique key returns
	// entity.ErrDuplicateEvent.
	Create(ctx context.Context, event *entity.FlightStatusEvent) error

	// GetByKey fetches the event for an idempotency key. A missing row
	// returns (nil, nil).
	GetByKey(ctx context.Context, flightID uint, eventType string, eventTime time.Time) (*entity.FlightStatusEvent, error)

	MarkProcessed(ctx context.Context, id uint) error

	// Complete refreshes the computed fields of an event left behind by a
	// crashed attempt and marks it processed.
	Complete(ctx context.Context, id uint, oldStatus, newStatus entity.FlightStatus, payload []byte, delayDelta int) error
}
