package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/usecase"
	"flighttrack-service/pkg/logger"
	"flighttrack-service/pkg/metrics"
)

// apiHandler wires the usecases onto the HTTP surface. Handlers stay thin:
// decode, call, map the result or error to a response.
type apiHandler struct {
	lookup     *usecase.FlightLookup
	alerts     *usecase.AlertCoordinator
	reconciler *usecase.WebhookReconciler
	metrics    *metrics.Metrics
	logger     logger.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleValidateFlight serves GET /flights/validate?flight_number=...&date=...
func (h *apiHandler) handleValidateFlight(w http.ResponseWriter, r *http.Request) {
	flightNumber := r.URL.Query().Get("flight_number")
	date := r.URL.Query().Get("date")
	if flightNumber == "" || date == "" {
		writeError(w, http.StatusBadRequest, "flight_number and date are required")
		return
	}

	result, err := h.lookup.SearchAirportPickupFlight(r.Context(), flightNumber, date)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidFlightNumber):
			h.metrics.LookupOutcomes.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, entity.ErrFlightNotFound):
			h.metrics.LookupOutcomes.WithLabelValues("not_found").Inc()
			writeError(w, http.StatusNotFound, "flight not found")
		default:
			var upstream *entity.UpstreamError
			if errors.As(err, &upstream) {
				h.metrics.UpstreamErrors.WithLabelValues(strconv.Itoa(upstream.StatusCode)).Inc()
				h.metrics.LookupOutcomes.WithLabelValues("upstream_error").Inc()
				writeError(w, http.StatusBadGateway, "aviation data source unavailable")
				return
			}
			h.logger.Error("Flight validation failed", "flightNumber", flightNumber, "error", err)
			h.metrics.LookupOutcomes.WithLabelValues("error").Inc()
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.metrics.LookupOutcomes.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, result)
}

// handleWebhook serves POST /webhooks/flight
func (h *apiHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var payload entity.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed webhook payload")
		return
	}
	if payload.AlertID == "" || payload.EventType == "" || payload.EventTime.IsZero() {
		writeError(w, http.StatusBadRequest, "alert_id, event_type and event_time are required")
		return
	}

	result, err := h.reconciler.HandleWebhook(r.Context(), &payload)
	if err != nil {
		if errors.Is(err, entity.ErrFlightRecordNotFound) {
			// No flight owns this alert; retrying will not help the provider.
			writeError(w, http.StatusNotFound, "unknown alert id")
			return
		}
		h.logger.Error("Webhook reconciliation failed",
			"alertId", payload.AlertID,
			"eventType", payload.EventType,
			"error", err)
		writeError(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}

	h.metrics.WebhooksProcessed.Inc()
	if result.Duplicate {
		h.metrics.WebhookDuplicates.Inc()
	}
	h.metrics.WebhookTime.Observe(time.Since(started).Seconds())
	writeJSON(w, http.StatusOK, result)
}

type createAlertRequest struct {
	FlightNumber string   `json:"flightNumber"`
	Date         string   `json:"date"`
	Destination  string   `json:"destination"`
	Events       []string `json:"events,omitempty"`
}

type alertResponse struct {
	AlertID string `json:"alertId"`
	Created bool   `json:"created"`
}

// handleCreateAlert serves POST /flights/{id}/alerts
func (h *apiHandler) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	flightID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid flight id")
		return
	}

	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	alertID, created, err := h.alerts.GetOrCreateFlightAlert(r.Context(), uint(flightID), entity.AlertParams{
		FlightNumber: req.FlightNumber,
		Date:         req.Date,
		Destination:  req.Destination,
		Events:       req.Events,
	})
	if err != nil {
		if errors.Is(err, entity.ErrFlightRecordNotFound) {
			writeError(w, http.StatusNotFound, "flight not found")
			return
		}
		var upstream *entity.UpstreamError
		if errors.As(err, &upstream) {
			h.metrics.UpstreamErrors.WithLabelValues(strconv.Itoa(upstream.StatusCode)).Inc()
			writeError(w, http.StatusBadGateway, "aviation data source unavailable")
			return
		}
		h.logger.Error("Alert provisioning failed", "flightId", flightID, "error", err)
		writeError(w, http.StatusInternalServerError, "alert provisioning failed")
		return
	}

	if created {
		h.metrics.AlertsCreated.Inc()
	}
	writeJSON(w, http.StatusOK, alertResponse{AlertID: alertID, Created: created})
}

// handleDeleteAlert serves DELETE /flights/{id}/alerts
func (h *apiHandler) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	flightID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid flight id")
		return
	}

	if err := h.alerts.CleanupFlightAlert(r.Context(), uint(flightID)); err != nil {
		if errors.Is(err, entity.ErrFlightRecordNotFound) {
			writeError(w, http.StatusNotFound, "flight not found")
			return
		}
		h.logger.Error("Alert cleanup failed", "flightId", flightID, "error", err)
		writeError(w, http.StatusInternalServerError, "alert cleanup failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
