package entity

import (
	"bytes"
	"encoding/json"
	"time"
)

// AlertID is the provider's subscription identifier. Some provider versions
// serialize it as a JSON number, others as a string; accept both.
type AlertID string

func (a *AlertID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AlertID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = AlertID(n.String())
	return nil
}

// WebhookAirport is the origin/destination block of a webhook delivery.
type WebhookAirport struct {
	Code     string  `json:"code"`
	CodeIATA *string `json:"code_iata,omitempty"`
	Name     *string `json:"name,omitempty"`
	City     *string `json:"city,omitempty"`
}

// WebhookFlight is the leg snapshot carried by a webhook delivery.
type WebhookFlight struct {
	Ident           string         `json:"ident"`
	FaFlightID      string         `json:"fa_flight_id"`
	Registration    *string        `json:"registration,omitempty"`
	AircraftType    *string        `json:"aircraft_type,omitempty"`
	Origin          WebhookAirport `json:"origin"`
	Destination     WebhookAirport `json:"destination"`
	ScheduledOff    *time.Time     `json:"scheduled_off,omitempty"`
	ScheduledOn     *time.Time     `json:"scheduled_on,omitempty"`
	EstimatedOff    *time.Time     `json:"estimated_off,omitempty"`
	EstimatedOn     *time.Time     `json:"estimated_on,omitempty"`
	EstimatedIn     *time.Time     `json:"estimated_in,omitempty"`
	ActualOff       *time.Time     `json:"actual_off,omitempty"`
	ActualOn        *time.Time     `json:"actual_on,omitempty"`
	ActualIn        *time.Time     `json:"actual_in,omitempty"`
	Status          *string        `json:"status,omitempty"`
	DelayMinutes    *int           `json:"delay_minutes,omitempty"`
	GateOrigin      *string        `json:"gate_origin,omitempty"`
	GateDestination *string        `json:"gate_destination,omitempty"`
}

// WebhookPayload is one provider delivery. Delivery is at-least-once; the
// (alert flight, event type, event time) key deduplicates replays.
type WebhookPayload struct {
	AlertID   AlertID       `json:"alert_id"`
	EventType string        `json:"event_type"`
	EventTime time.Time     `json:"event_time"`
	Flight    WebhookFlight `json:"flight"`
}

// WebhookResult is returned to the webhook endpoint after reconciliation.
type WebhookResult struct {
	Duplicate    bool         `json:"duplicate"`
	FlightID     uint         `json:"flightId"`
	NewStatus    FlightStatus `json:"newStatus"`
	BookingCount int64        `json:"bookingCount"`
}

// WebhookDelivery is the raw archive record of one inbound delivery.
type WebhookDelivery struct {
	ID         string    `bson:"_id,omitempty"`
	AlertID    string    `bson:"alertId"`
	EventType  string    `bson:"eventType"`
	EventTime  time.Time `bson:"eventTime"`
	Body       []byte    `bson:"body"`
	Duplicate  bool      `bson:"duplicate"`
	FlightID   uint      `bson:"flightId"`
	ReceivedAt time.Time `bson:"receivedAt"`
}
