package repository

import (
	"context"

	"flighttrack-service/internal/domain/entity"
)

// FlightRepository defines the interface for flight row operations
type FlightRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Flight, error)
	GetByAlertID(ctx context.Context, alertID string) (*entity.Flight, error)
	ApplyUpdate(ctx context.Context, id uint, update *entity.FlightUpdate) error
	SetAlert(ctx context.Context, id uint, alertID string, enabled bool) error
	SetAlertEnabled(ctx context.Context, id uint, enabled bool) error

	// WithAlertLock runs fn inside one transaction holding a per-flight
	// advisory lock. The lock serializes callers for the same flight only and
	// auto-releases when the transaction ends, including on rollback or a
	// dropped connection. fn receives a repository bound to the transaction.
	WithAlertLock(ctx context.Context, flightID uint, fn func(ctx context.Context, repo FlightRepository) error) error
}
