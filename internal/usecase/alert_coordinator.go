package usecase

import (
	"context"
	"errors"
	"net/http"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/pkg/logger"
)

// AlertCoordinator provisions and tears down per-flight provider alert
// subscriptions with get-or-create semantics: at most one external create
// call per flight, even under concurrent callers.
type AlertCoordinator struct {
	flightRepo repository.FlightRepository
	aviation   repository.AviationRepository
	logger     logger.Logger
}

// NewAlertCoordinator creates a new alert coordinator
func NewAlertCoordinator(
	flightRepo repository.FlightRepository,
	aviation repository.AviationRepository,
	log logger.Logger,
) *AlertCoordinator {
	return &AlertCoordinator{
		flightRepo: flightRepo,
		aviation:   aviation,
		logger:     log,
	}
}

// GetOrCreateFlightAlert returns the flight's active alert id, creating the
// subscription if none exists, and reports whether this call created it. The
// per-flight advisory lock stays held across the external create call so
// concurrent callers cannot both reach the provider; it self-clears if the
// transaction aborts.
func (ac *AlertCoordinator) GetOrCreateFlightAlert(ctx context.Context, flightID uint, params entity.AlertParams) (string, bool, error) {
	var alertID string
	var created bool

	err := ac.flightRepo.WithAlertLock(ctx, flightID, func(ctx context.Context, repo repository.FlightRepository) error {
		flight, err := repo.GetByID(ctx, flightID)
		if err != nil {
			// Never create a paid subscription for a flight row that does
			// not exist.
			return err
		}

		if flight.AlertEnabled && flight.AlertID != "" {
			alertID = flight.AlertID
			return nil
		}

		id, err := ac.aviation.CreateAlert(ctx, params)
		if err != nil {
			return err
		}
		if err := repo.SetAlert(ctx, flightID, id, true); err != nil {
			return err
		}

		ac.logger.Info("Flight alert provisioned",
			"flightId", flightID,
			"alertId", id,
			"flightNumber", params.FlightNumber)
		alertID = id
		created = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return alertID, created, nil
}

// DisableFlightAlert deletes the provider subscription. An already-deleted
// alert (provider 404) counts as success.
func (ac *AlertCoordinator) DisableFlightAlert(ctx context.Context, alertID string) error {
	err := ac.aviation.DeleteAlert(ctx, alertID)
	if err != nil {
		var upstream *entity.UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
			ac.logger.Info("Flight alert already deleted upstream", "alertId", alertID)
			return nil
		}
		return err
	}
	return nil
}

// CleanupFlightAlert disables a flight's alert when one is active: the remote
// subscription is deleted and the enabled flag flipped off. The alert id is
// kept as history. No active alert is a no-op.
func (ac *AlertCoordinator) CleanupFlightAlert(ctx context.Context, flightID uint) error {
	flight, err := ac.flightRepo.GetByID(ctx, flightID)
	if err != nil {
		return err
	}
	if !flight.AlertEnabled || flight.AlertID == "" {
		return nil
	}

	if err := ac.DisableFlightAlert(ctx, flight.AlertID); err != nil {
		return err
	}
	if err := ac.flightRepo.SetAlertEnabled(ctx, flightID, false); err != nil {
		return err
	}

	ac.logger.Info("Flight alert cleaned up", "flightId", flightID, "alertId", flight.AlertID)
	return nil
}
