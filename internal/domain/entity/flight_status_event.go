package entity

import (
	"time"
)

// FlightStatusEvent is the durable idempotency record for one provider
// delivery. The (FlightID, EventType, EventTime) tuple is unique and
// deduplicates redeliveries; Processed flips to true once the owning Flight
// row has been updated.
type FlightStatusEvent struct {
	ID         uint
	FlightID   uint
	EventType  string
	EventTime  time.Time
	Payload    []byte
	OldStatus  FlightStatus
	NewStatus  FlightStatus
	DelayDelta int
	Processed  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
