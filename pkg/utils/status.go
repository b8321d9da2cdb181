package utils

import (
	"strings"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// MapStatus maps a provider event type and free-text leg status to the
// canonical flight status. The event type keywords win over the leg status;
// anything unrecognized falls back to SCHEDULED with a warning, never an error.
func MapStatus(eventType, rawStatus string, log logger.Logger) entity.FlightStatus {
	et := strings.ToLower(strings.TrimSpace(eventType))

	switch et {
	case "departure", "departed":
		return entity.StatusDeparted
	case "arrival", "arrived":
		return entity.StatusLanded
	}
	if strings.Contains(et, "cancel") {
		return entity.StatusCancelled
	}
	if strings.Contains(et, "divert") {
		return entity.StatusDiverted
	}

	switch normalizeStatusText(rawStatus) {
	case "enroute", "airborne", "active":
		return entity.StatusEnRoute
	case "landed", "arrived":
		return entity.StatusLanded
	}

	log.Warn("Unmapped flight event, defaulting to scheduled",
		"eventType", eventType,
		"status", rawStatus)
	return entity.StatusScheduled
}

// normalizeStatusText lowercases and strips whitespace, underscores and
// hyphens so "En Route", "en_route" and "EN-ROUTE" all compare equal.
func normalizeStatusText(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_', '-':
			return -1
		}
		return r
	}, s)
}
