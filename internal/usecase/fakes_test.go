package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
)

// fakeAviation is an in-memory AviationRepository recording every call.
type fakeAviation struct {
	mu             sync.Mutex
	liveCalls      []string
	scheduledCalls []string
	createCalls    []entity.AlertParams
	deleteCalls    []string

	liveFn        func(ident string, start, end time.Time) ([]entity.FlightLeg, error)
	scheduledFn   func(airline, number, dateFrom, dateTo string) ([]entity.FlightLeg, error)
	airportFn     func(code string) (*entity.AirportRef, error)
	createAlertFn func(params entity.AlertParams) (string, error)
	deleteAlertFn func(alertID string) error
}

func (f *fakeAviation) SearchLiveFlights(_ context.Context, ident string, start, end time.Time) ([]entity.FlightLeg, error) {
	f.mu.Lock()
	f.liveCalls = append(f.liveCalls, ident)
	f.mu.Unlock()
	if f.liveFn == nil {
		return nil, nil
	}
	return f.liveFn(ident, start, end)
}

func (f *fakeAviation) SearchScheduledFlights(_ context.Context, airline, number, dateFrom, dateTo string) ([]entity.FlightLeg, error) {
	f.mu.Lock()
	f.scheduledCalls = append(f.scheduledCalls, airline+number)
	f.mu.Unlock()
	if f.scheduledFn == nil {
		return nil, nil
	}
	return f.scheduledFn(airline, number, dateFrom, dateTo)
}

func (f *fakeAviation) GetAirport(_ context.Context, code string) (*entity.AirportRef, error) {
	if f.airportFn == nil {
		return nil, fmt.Errorf("no airport metadata for %s", code)
	}
	return f.airportFn(code)
}

func (f *fakeAviation) CreateAlert(_ context.Context, params entity.AlertParams) (string, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, params)
	n := len(f.createCalls)
	f.mu.Unlock()
	if f.createAlertFn == nil {
		return fmt.Sprintf("alert-%d", n), nil
	}
	return f.createAlertFn(params)
}

func (f *fakeAviation) DeleteAlert(_ context.Context, alertID string) error {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, alertID)
	f.mu.Unlock()
	if f.deleteAlertFn == nil {
		return nil
	}
	return f.deleteAlertFn(alertID)
}

func (f *fakeAviation) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createCalls)
}

// fakeFlightRepo is an in-memory FlightRepository. WithAlertLock serializes
// callers on one mutex, mirroring the per-flight advisory lock.
type fakeFlightRepo struct {
	mu         sync.Mutex
	lockMu     sync.Mutex
	flights    map[uint]*entity.Flight
	applyCalls int
}

func newFakeFlightRepo(flights ...*entity.Flight) *fakeFlightRepo {
	m := make(map[uint]*entity.Flight, len(flights))
	for _, f := range flights {
		m[f.ID] = f
	}
	return &fakeFlightRepo{flights: m}
}

func (r *fakeFlightRepo) GetByID(_ context.Context, id uint) (*entity.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return nil, entity.ErrFlightRecordNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFlightRepo) GetByAlertID(_ context.Context, alertID string) (*entity.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.flights {
		if f.AlertID == alertID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, entity.ErrFlightRecordNotFound
}

func (r *fakeFlightRepo) ApplyUpdate(_ context.Context, id uint, update *entity.FlightUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return entity.ErrFlightRecordNotFound
	}
	r.applyCalls++
	f.Status = update.Status
	f.DelayMinutes = update.DelayMinutes
	if update.EstimatedDeparture != nil {
		f.EstimatedDeparture = update.EstimatedDeparture
	}
	if update.EstimatedArrival != nil {
		f.EstimatedArrival = update.EstimatedArrival
	}
	if update.ActualDeparture != nil {
		f.ActualDeparture = update.ActualDeparture
	}
	if update.ActualArrival != nil {
		f.ActualArrival = update.ActualArrival
	}
	if update.OriginGate != "" {
		f.OriginGate = update.OriginGate
	}
	if update.DestinationGate != "" {
		f.DestinationGate = update.DestinationGate
	}
	if update.AircraftType != "" {
		f.AircraftType = update.AircraftType
	}
	if update.Registration != "" {
		f.Registration = update.Registration
	}
	return nil
}

func (r *fakeFlightRepo) SetAlert(_ context.Context, id uint, alertID string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return entity.ErrFlightRecordNotFound
	}
	f.AlertID = alertID
	f.AlertEnabled = enabled
	return nil
}

func (r *fakeFlightRepo) SetAlertEnabled(_ context.Context, id uint, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return entity.ErrFlightRecordNotFound
	}
	f.AlertEnabled = enabled
	return nil
}

func (r *fakeFlightRepo) WithAlertLock(ctx context.Context, _ uint, fn func(ctx context.Context, repo repository.FlightRepository) error) error {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	return fn(ctx, r)
}

func (r *fakeFlightRepo) get(id uint) *entity.Flight {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.flights[id]
	return &copied
}

// fakeEventRepo emulates the unique (flight, type, time) constraint in memory.
type fakeEventRepo struct {
	mu     sync.Mutex
	nextID uint
	events map[string]*entity.FlightStatusEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*entity.FlightStatusEvent)}
}

func eventKey(flightID uint, eventType string, eventTime time.Time) string {
	return fmt.Sprintf("%d|%s|%d", flightID, eventType, eventTime.UnixNano())
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.FlightStatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := eventKey(event.FlightID, event.EventType, event.EventTime)
	if _, exists := r.events[key]; exists {
		return entity.ErrDuplicateEvent
	}
	r.nextID++
	event.ID = r.nextID
	copied := *event
	r.events[key] = &copied
	return nil
}

func (r *fakeEventRepo) GetByKey(_ context.Context, flightID uint, eventType string, eventTime time.Time) (*entity.FlightStatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventKey(flightID, eventType, eventTime)]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) MarkProcessed(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Processed = true
			return nil
		}
	}
	return fmt.Errorf("no event %d", id)
}

func (r *fakeEventRepo) Complete(_ context.Context, id uint, oldStatus, newStatus entity.FlightStatus, payload []byte, delayDelta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.OldStatus = oldStatus
			e.NewStatus = newStatus
			e.Payload = payload
			e.DelayDelta = delayDelta
			e.Processed = true
			return nil
		}
	}
	return fmt.Errorf("no event %d", id)
}

func (r *fakeEventRepo) get(flightID uint, eventType string, eventTime time.Time) *entity.FlightStatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventKey(flightID, eventType, eventTime)]
	if !ok {
		return nil
	}
	copied := *e
	return &copied
}

func (r *fakeEventRepo) seed(event *entity.FlightStatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	r.events[eventKey(event.FlightID, event.EventType, event.EventTime)] = event
}

// fakeTx hands the same in-memory repositories to the callback. The fakes
// apply writes immediately, so rollback is not modeled; tests only exercise
// the committed paths.
type fakeTx struct {
	flights *fakeFlightRepo
	events  *fakeEventRepo
}

func (t *fakeTx) Do(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return fn(ctx, t)
}

func (t *fakeTx) Flights() repository.FlightRepository {
	return t.flights
}

func (t *fakeTx) Events() repository.FlightStatusEventRepository {
	return t.events
}

type fakeBookingRepo struct {
	count int64
	err   error
}

func (r *fakeBookingRepo) CountActiveByFlight(context.Context, uint) (int64, error) {
	return r.count, r.err
}

type fakeArchive struct {
	mu    sync.Mutex
	saved []*entity.WebhookDelivery
	err   error
}

func (a *fakeArchive) Save(_ context.Context, delivery *entity.WebhookDelivery) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.saved = append(a.saved, delivery)
	return nil
}
