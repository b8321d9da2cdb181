package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func newReconcilerFixture(flight *entity.Flight) (*WebhookReconciler, *fakeFlightRepo, *fakeEventRepo, *fakeArchive) {
	flights := newFakeFlightRepo(flight)
	events := newFakeEventRepo()
	archive := &fakeArchive{}
	r := NewWebhookReconciler(
		&fakeTx{flights: flights, events: events},
		flights,
		&fakeBookingRepo{count: 3},
		archive,
		logger.NewNop(),
	)
	return r, flights, events, archive
}

func departurePayload(eventTime time.Time) *entity.WebhookPayload {
	off := eventTime.Add(-5 * time.Minute)
	return &entity.WebhookPayload{
		AlertID:   "alert-7",
		EventType: "departure",
		EventTime: eventTime,
		Flight: entity.WebhookFlight{
			Ident:        "BAW74",
			FaFlightID:   "BAW74-123",
			ActualOff:    &off,
			Status:       strptr("enroute"),
			DelayMinutes: intptr(20),
			GateOrigin:   strptr("B32"),
		},
	}
}

func TestHandleWebhookFirstDelivery(t *testing.T) {
	eventTime := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	r, flights, events, archive := newReconcilerFixture(&entity.Flight{
		ID: 7, FlightNumber: "BA74", AlertID: "alert-7",
		Status: entity.StatusScheduled, DelayMinutes: 5,
	})

	result, err := r.HandleWebhook(context.Background(), departurePayload(eventTime))
	require.NoError(t, err)

	assert.False(t, result.Duplicate)
	assert.Equal(t, uint(7), result.FlightID)
	assert.Equal(t, entity.StatusDeparted, result.NewStatus)
	assert.Equal(t, int64(3), result.BookingCount)

	flight := flights.get(7)
	assert.Equal(t, entity.StatusDeparted, flight.Status)
	assert.Equal(t, 20, flight.DelayMinutes)
	assert.Equal(t, "B32", flight.OriginGate)
	require.NotNil(t, flight.ActualDeparture)

	event := events.get(7, "departure", eventTime)
	require.NotNil(t, event)
	assert.True(t, event.Processed)
	assert.Equal(t, entity.StatusScheduled, event.OldStatus)
	assert.Equal(t, entity.StatusDeparted, event.NewStatus)
	assert.Equal(t, 15, event.DelayDelta, "delta is payload delay minus stored delay")

	require.Len(t, archive.saved, 1)
	assert.Equal(t, "alert-7", archive.saved[0].AlertID)
}

func TestHandleWebhookRedeliveryIsDuplicate(t *testing.T) {
	eventTime := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	r, flights, _, archive := newReconcilerFixture(&entity.Flight{
		ID: 7, FlightNumber: "BA74", AlertID: "alert-7", Status: entity.StatusScheduled,
	})

	_, err := r.HandleWebhook(context.Background(), departurePayload(eventTime))
	require.NoError(t, err)

	result, err := r.HandleWebhook(context.Background(), departurePayload(eventTime))
	require.NoError(t, err)

	assert.True(t, result.Duplicate)
	assert.Equal(t, entity.StatusDeparted, result.NewStatus, "duplicate reports the recorded outcome")
	assert.Equal(t, 1, flights.applyCalls, "the flight row is written exactly once")

	// Duplicates still land in the delivery archive, flagged as such.
	require.Len(t, archive.saved, 2)
	assert.True(t, archive.saved[1].Duplicate)
}

func TestHandleWebhookCompletesHalfProcessedEvent(t *testing.T) {
	eventTime := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	r, flights, events, _ := newReconcilerFixture(&entity.Flight{
		ID: 7, FlightNumber: "BA74", AlertID: "alert-7", Status: entity.StatusScheduled,
	})

	// A prior attempt inserted the event but crashed before updating the flight.
	events.seed(&entity.FlightStatusEvent{
		FlightID:  7,
		EventType: "departure",
		EventTime: eventTime,
		Processed: false,
	})

	result, err := r.HandleWebhook(context.Background(), departurePayload(eventTime))
	require.NoError(t, err)

	assert.False(t, result.Duplicate, "finishing interrupted work is not a duplicate")
	assert.Equal(t, entity.StatusDeparted, result.NewStatus)
	assert.Equal(t, entity.StatusDeparted, flights.get(7).Status)

	event := events.get(7, "departure", eventTime)
	require.NotNil(t, event)
	assert.True(t, event.Processed)
	assert.Equal(t, entity.StatusDeparted, event.NewStatus)
}

func TestHandleWebhookUnknownAlert(t *testing.T) {
	r, flights, _, _ := newReconcilerFixture(&entity.Flight{
		ID: 7, FlightNumber: "BA74", AlertID: "alert-7", Status: entity.StatusScheduled,
	})

	payload := departurePayload(time.Now().UTC())
	payload.AlertID = "alert-unknown"

	_, err := r.HandleWebhook(context.Background(), payload)
	require.ErrorIs(t, err, entity.ErrFlightRecordNotFound)
	assert.Equal(t, 0, flights.applyCalls)
}

func TestHandleWebhookUnmappedEventFallsBackToScheduled(t *testing.T) {
	eventTime := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	r, flights, _, _ := newReconcilerFixture(&entity.Flight{
		ID: 7, FlightNumber: "BA74", AlertID: "alert-7", Status: entity.StatusDeparted,
	})

	payload := &entity.WebhookPayload{
		AlertID:   "alert-7",
		EventType: "gate_change",
		EventTime: eventTime,
		Flight: entity.WebhookFlight{
			Ident:      "BAW74",
			Status:     strptr("taxiing"),
			GateOrigin: strptr("C14"),
		},
	}

	result, err := r.HandleWebhook(context.Background(), payload)
	require.NoError(t, err)

	// An unrecognized event writes the fallback status even over a later one.
	assert.Equal(t, entity.StatusScheduled, result.NewStatus)
	flight := flights.get(7)
	assert.Equal(t, entity.StatusScheduled, flight.Status)
	assert.Equal(t, "C14", flight.OriginGate)
}

func TestHandleWebhookBookingCountFailureDoesNotFailDelivery(t *testing.T) {
	flights := newFakeFlightRepo(&entity.Flight{
		ID: 7, FlightNumber: "BA74", AlertID: "alert-7", Status: entity.StatusScheduled,
	})
	events := newFakeEventRepo()
	r := NewWebhookReconciler(
		&fakeTx{flights: flights, events: events},
		flights,
		&fakeBookingRepo{err: context.DeadlineExceeded},
		nil, // no archive configured
		logger.NewNop(),
	)

	result, err := r.HandleWebhook(context.Background(), departurePayload(time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Zero(t, result.BookingCount)
	assert.Equal(t, entity.StatusDeparted, result.NewStatus)
}

func TestHandleWebhookArrivalTimesPreferActuals(t *testing.T) {
	eventTime := time.Date(2026, 9, 15, 20, 0, 0, 0, time.UTC)
	on := eventTime.Add(-10 * time.Minute)
	in := eventTime.Add(-2 * time.Minute)
	r, flights, _, _ := newReconcilerFixture(&entity.Flight{
		ID: 7, FlightNumber: "BA74", AlertID: "alert-7", Status: entity.StatusEnRoute,
	})

	payload := &entity.WebhookPayload{
		AlertID:   "alert-7",
		EventType: "arrival",
		EventTime: eventTime,
		Flight: entity.WebhookFlight{
			Ident:           "BAW74",
			ActualOn:        &on,
			ActualIn:        &in,
			GateDestination: strptr("T5-22"),
		},
	}

	result, err := r.HandleWebhook(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusLanded, result.NewStatus)

	flight := flights.get(7)
	require.NotNil(t, flight.ActualArrival)
	assert.True(t, flight.ActualArrival.Equal(in), "gate arrival wins over wheels-down")
	assert.Equal(t, "T5-22", flight.DestinationGate)
}
