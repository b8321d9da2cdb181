package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/pkg/logger"
	"flighttrack-service/pkg/utils"
)

// WebhookReconciler ingests provider webhook deliveries into flight state.
// Delivery is at-least-once; the unique index on
// (flight id, event type, event time) is the only synchronization mechanism,
// and the conflict-recovery branch makes redeliveries and crashed half-done
// attempts converge to the same final state.
type WebhookReconciler struct {
	tx          repository.TxManager
	flightRepo  repository.FlightRepository
	bookingRepo repository.BookingRepository
	archive     repository.WebhookArchiveRepository
	logger      logger.Logger
}

// NewWebhookReconciler creates a new webhook reconciler. archive may be nil
// when no delivery archive is configured.
func NewWebhookReconciler(
	tx repository.TxManager,
	flightRepo repository.FlightRepository,
	bookingRepo repository.BookingRepository,
	archive repository.WebhookArchiveRepository,
	log logger.Logger,
) *WebhookReconciler {
	return &WebhookReconciler{
		tx:          tx,
		flightRepo:  flightRepo,
		bookingRepo: bookingRepo,
		archive:     archive,
		logger:      log,
	}
}

// HandleWebhook reconciles one delivery. Errors other than the expected
// duplicate-key race roll the transaction back so the provider can retry the
// delivery safely.
func (r *WebhookReconciler) HandleWebhook(ctx context.Context, payload *entity.WebhookPayload) (*entity.WebhookResult, error) {
	flight, err := r.flightRepo.GetByAlertID(ctx, string(payload.AlertID))
	if err != nil {
		if errors.Is(err, entity.ErrFlightRecordNotFound) {
			return nil, fmt.Errorf("webhook for unknown alert %s: %w", payload.AlertID, err)
		}
		return nil, err
	}

	rawStatus := ""
	if payload.Flight.Status != nil {
		rawStatus = *payload.Flight.Status
	}
	newStatus := utils.MapStatus(payload.EventType, rawStatus, r.logger)

	// One update payload serves both the first-attempt and the
	// conflict-recovery paths, so the outcome is identical either way.
	update := buildFlightUpdate(&payload.Flight, newStatus)
	delayDelta := update.DelayMinutes - flight.DelayMinutes

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling webhook payload: %w", err)
	}

	result := &entity.WebhookResult{
		FlightID:  flight.ID,
		NewStatus: newStatus,
	}

	err = r.tx.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		event := &entity.FlightStatusEvent{
			FlightID:   flight.ID,
			EventType:  payload.EventType,
			EventTime:  payload.EventTime,
			Payload:    rawPayload,
			OldStatus:  flight.Status,
			NewStatus:  newStatus,
			DelayDelta: delayDelta,
		}

		createErr := repos.Events().Create(ctx, event)
		if createErr == nil {
			if err := repos.Flights().ApplyUpdate(ctx, flight.ID, update); err != nil {
				return err
			}
			return repos.Events().MarkProcessed(ctx, event.ID)
		}
		if !errors.Is(createErr, entity.ErrDuplicateEvent) {
			return createErr
		}

		existing, err := repos.Events().GetByKey(ctx, flight.ID, payload.EventType, payload.EventTime)
		if err != nil {
			return err
		}
		if existing == nil {
			// The conflict did not come from our idempotency key; some other
			// invariant was violated.
			return createErr
		}

		if existing.Processed {
			result.Duplicate = true
			if existing.NewStatus != "" {
				result.NewStatus = existing.NewStatus
			} else {
				result.NewStatus = flight.Status
			}
			return nil
		}

		// A prior attempt crashed between inserting the event and updating
		// the flight; complete its work now.
		r.logger.Warn("Completing half-processed flight event",
			"flightId", flight.ID,
			"eventType", payload.EventType,
			"eventTime", payload.EventTime)
		if err := repos.Flights().ApplyUpdate(ctx, flight.ID, update); err != nil {
			return err
		}
		return repos.Events().Complete(ctx, existing.ID, flight.Status, newStatus, rawPayload, delayDelta)
	})
	if err != nil {
		return nil, err
	}

	// Non-authoritative count for the caller's response only; a failure here
	// must not force a redelivery of committed work.
	count, err := r.bookingRepo.CountActiveByFlight(ctx, flight.ID)
	if err != nil {
		r.logger.Warn("Dependent booking count failed", "flightId", flight.ID, "error", err)
	} else {
		result.BookingCount = count
	}

	r.archiveDelivery(ctx, payload, rawPayload, result)
	return result, nil
}

// archiveDelivery appends the raw delivery to the audit archive, best effort
func (r *WebhookReconciler) archiveDelivery(ctx context.Context, payload *entity.WebhookPayload, raw []byte, result *entity.WebhookResult) {
	if r.archive == nil {
		return
	}
	err := r.archive.Save(ctx, &entity.WebhookDelivery{
		AlertID:   string(payload.AlertID),
		EventType: payload.EventType,
		EventTime: payload.EventTime,
		Body:      raw,
		Duplicate: result.Duplicate,
		FlightID:  result.FlightID,
	})
	if err != nil {
		r.logger.Warn("Webhook archive write failed", "alertId", payload.AlertID, "error", err)
	}
}

// buildFlightUpdate builds the single flight-update payload for a delivery,
// preferring actual over estimated over scheduled timestamps.
func buildFlightUpdate(f *entity.WebhookFlight, status entity.FlightStatus) *entity.FlightUpdate {
	update := &entity.FlightUpdate{
		Status:             status,
		EstimatedDeparture: firstTime(f.ActualOff, f.EstimatedOff, f.ScheduledOff),
		EstimatedArrival:   firstTime(f.ActualIn, f.ActualOn, f.EstimatedIn, f.EstimatedOn, f.ScheduledOn),
		ActualDeparture:    f.ActualOff,
		ActualArrival:      firstTime(f.ActualIn, f.ActualOn),
	}
	if f.DelayMinutes != nil {
		update.DelayMinutes = *f.DelayMinutes
	}
	if f.GateOrigin != nil {
		update.OriginGate = *f.GateOrigin
	}
	if f.GateDestination != nil {
		update.DestinationGate = *f.GateDestination
	}
	if f.AircraftType != nil {
		update.AircraftType = *f.AircraftType
	}
	if f.Registration != nil {
		update.Registration = *f.Registration
	}
	return update
}

func firstTime(candidates ...*time.Time) *time.Time {
	for _, t := range candidates {
		if t != nil {
			return t
		}
	}
	return nil
}
