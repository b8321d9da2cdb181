package repository

import (
	"context"
	"time"

	"flighttrack-service/internal/domain/entity"
)

// AviationRepository is the aviation-data provider. Failures carry
// *entity.UpstreamError with the provider's HTTP status; a provider 404 on the
// search endpoints surfaces as an empty result, not an error.
type AviationRepository interface {
	// SearchLiveFlights queries the live endpoint by exact flight identifier
	// over a time window. The live endpoint does not support far-future
	// queries; callers cap the window accordingly.
	SearchLiveFlights(ctx context.Context, ident string, start, end time.Time) ([]entity.FlightLeg, error)

	// SearchScheduledFlights queries published schedules by airline designator
	// and numeric flight suffix over a day-granularity date range.
	SearchScheduledFlights(ctx context.Context, airline, number, dateFrom, dateTo string) ([]entity.FlightLeg, error)

	// GetAirport fetches airport metadata. Best effort; callers swallow errors.
	GetAirport(ctx context.Context, code string) (*entity.AirportRef, error)

	// CreateAlert provisions a tracking subscription and returns its id.
	CreateAlert(ctx context.Context, params entity.AlertParams) (string, error)

	// DeleteAlert tears down a subscription.
	DeleteAlert(ctx context.Context, alertID string) error
}
