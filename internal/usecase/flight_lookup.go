package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/pkg/cache"
	"flighttrack-service/pkg/logger"
	"flighttrack-service/pkg/utils"
)

const (
	dateLayout = "2006-01-02"

	// liveHorizon is the time horizon under which lookups route to the live
	// data source. The live endpoint also rejects far-future windows, so the
	// window end is capped to now + liveHorizon on that path.
	liveHorizon = 48 * time.Hour

	// arrivalLeadWarning is the minimum pickup lead time before a warning is
	// attached to a pickup search result.
	arrivalLeadWarning = time.Hour
)

// FlightLookup validates flight numbers against the aviation provider,
// routing between the live and scheduled data sources by time horizon and
// caching the outcome per (flight number, date).
type FlightLookup struct {
	aviation              repository.AviationRepository
	cache                 *cache.ValidationCache
	referenceTZ           *time.Location
	supportedDestinations map[string]bool
	logger                logger.Logger
	now                   func() time.Time
}

// NewFlightLookup creates a new flight lookup service
func NewFlightLookup(
	aviation repository.AviationRepository,
	validationCache *cache.ValidationCache,
	referenceTZ *time.Location,
	supportedDestinations []string,
	log logger.Logger,
) *FlightLookup {
	supported := make(map[string]bool, len(supportedDestinations))
	for _, code := range supportedDestinations {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			supported[code] = true
		}
	}
	return &FlightLookup{
		aviation:              aviation,
		cache:                 validationCache,
		referenceTZ:           referenceTZ,
		supportedDestinations: supported,
		logger:                log,
		now:                   time.Now,
	}
}

// ValidateFlight resolves a flight number against a pickup date. Format
// problems fail before any I/O; success and not-found outcomes are cached;
// already-landed and upstream errors are not.
func (l *FlightLookup) ValidateFlight(ctx context.Context, flightNumber, pickupDate string) (*entity.ValidatedFlight, error) {
	normalized, err := utils.NormalizeFlightNumber(flightNumber)
	if err != nil {
		return nil, err
	}
	day, err := utils.PickupDay(pickupDate)
	if err != nil {
		return nil, err
	}
	dateKey := day.Format(dateLayout)

	key := cache.Key(normalized, dateKey)
	if flight, outcome := l.cache.Get(key); outcome == cache.Hit {
		return flight, nil
	} else if outcome == cache.HitNotFound {
		return nil, entity.ErrFlightNotFound
	}

	start, end := utils.SearchWindow(day)
	now := l.now()

	var flight *entity.ValidatedFlight
	if start.Sub(now) < liveHorizon {
		if capped := now.Add(liveHorizon); end.After(capped) {
			end = capped
		}
		flight, err = l.validateLive(ctx, normalized, dateKey, start, end, now)
	} else {
		flight, err = l.validateScheduled(ctx, normalized, start, end)
	}

	if err != nil {
		if errors.Is(err, entity.ErrFlightNotFound) {
			l.cache.SetNotFound(key)
		}
		return nil, err
	}

	l.cache.SetFlight(key, flight)
	return flight, nil
}

// validateLive queries the live data source by exact identifier, retrying
// once with the ICAO-converted flight number before giving up.
func (l *FlightLookup) validateLive(ctx context.Context, normalized, dateKey string, start, end, now time.Time) (*entity.ValidatedFlight, error) {
	idents := []string{normalized}
	if icao, ok := utils.ICAOFlightNumber(normalized); ok {
		idents = append(idents, icao)
	}

	for _, ident := range idents {
		legs, err := l.aviation.SearchLiveFlights(ctx, ident, start, end)
		if err != nil {
			return nil, err
		}
		flight, err := l.pickLiveLeg(legs, normalized, dateKey, now)
		if err != nil {
			return nil, err
		}
		if flight != nil {
			return flight, nil
		}
	}
	return nil, entity.ErrFlightNotFound
}

// pickLiveLeg selects the first leg arriving on the requested date in the
// reference timezone. A future arrival wins; a past arrival to a supported
// destination classifies the lookup as already landed. Iteration stops at the
// first same-date leg either way.
func (l *FlightLookup) pickLiveLeg(legs []entity.FlightLeg, normalized, dateKey string, now time.Time) (*entity.ValidatedFlight, error) {
	for i := range legs {
		leg := &legs[i]
		arrival := leg.BestArrival()
		if arrival == nil {
			continue
		}
		if arrival.In(l.referenceTZ).Format(dateLayout) != dateKey {
			continue
		}
		if arrival.After(now) {
			return l.fromLiveLeg(normalized, leg), nil
		}
		if l.destinationSupported(&leg.Destination) {
			return nil, &entity.AlreadyLandedError{
				FlightNumber: normalized,
				LandedAt:     arrival.In(l.referenceTZ),
				NextDate:     nextRecurrence(legs, now, l.referenceTZ),
			}
		}
		// Landed, but not a pickup destination we serve; stop scanning.
		return nil, nil
	}
	return nil, nil
}

// nextRecurrence finds the next future date the flight number operates again.
func nextRecurrence(legs []entity.FlightLeg, now time.Time, tz *time.Location) string {
	var next *time.Time
	for i := range legs {
		arrival := legs[i].BestArrival()
		if arrival == nil || !arrival.After(now) {
			continue
		}
		if next == nil || arrival.Before(*next) {
			next = arrival
		}
	}
	if next == nil {
		return ""
	}
	return next.In(tz).Format(dateLayout)
}

func (l *FlightLookup) fromLiveLeg(normalized string, leg *entity.FlightLeg) *entity.ValidatedFlight {
	return &entity.ValidatedFlight{
		FlightNumber:    normalized,
		FaFlightID:      leg.FaFlightID,
		Origin:          leg.Origin.Code,
		OriginIATA:      leg.Origin.CodeIATA,
		OriginName:      displayName(leg.Origin.Name, leg.Origin.City),
		Destination:     leg.Destination.Code,
		DestinationIATA: leg.Destination.CodeIATA,
		DestinationName: displayName(leg.Destination.Name, leg.Destination.City),
		Departure:       leg.BestDeparture(),
		Arrival:         leg.BestArrival(),
		Status:          leg.Status,
		AircraftType:    leg.AircraftType,
		Live:            true,
	}
}

// validateScheduled queries published schedules by split airline code and
// flight number, with the same ICAO retry as the live path.
func (l *FlightLookup) validateScheduled(ctx context.Context, normalized string, start, end time.Time) (*entity.ValidatedFlight, error) {
	dateFrom := start.Format(dateLayout)
	dateTo := end.Format(dateLayout)

	idents := []string{normalized}
	if icao, ok := utils.ICAOFlightNumber(normalized); ok {
		idents = append(idents, icao)
	}

	for _, ident := range idents {
		airline, number, ok := utils.SplitFlightNumber(ident)
		if !ok {
			continue
		}
		legs, err := l.aviation.SearchScheduledFlights(ctx, airline, number, dateFrom, dateTo)
		if err != nil {
			return nil, err
		}
		if len(legs) == 0 {
			continue
		}

		leg := l.pickScheduledLeg(legs, normalized)
		flight := &entity.ValidatedFlight{
			FlightNumber:    normalized,
			FaFlightID:      leg.FaFlightID,
			Origin:          leg.Origin.Code,
			OriginIATA:      leg.Origin.CodeIATA,
			Destination:     leg.Destination.Code,
			DestinationIATA: leg.Destination.CodeIATA,
			Departure:       leg.ScheduledOut,
			Arrival:         leg.ScheduledIn,
			AircraftType:    leg.AircraftType,
			Live:            false,
		}
		l.enrichAirportNames(ctx, flight)
		return flight, nil
	}
	return nil, entity.ErrFlightNotFound
}

// pickScheduledLeg prefers an exact identifier match on the IATA, actual or
// raw ident; the first entry is a best-effort default when nothing matches.
func (l *FlightLookup) pickScheduledLeg(legs []entity.FlightLeg, normalized string) *entity.FlightLeg {
	for i := range legs {
		leg := &legs[i]
		if leg.IdentIATA == normalized || leg.ActualIdent == normalized || leg.Ident == normalized {
			return leg
		}
	}
	l.logger.Warn("No exact schedule ident match, using first entry",
		"flightNumber", normalized,
		"firstIdent", legs[0].Ident,
		"entries", len(legs))
	return &legs[0]
}

// enrichAirportNames fills display names from airport metadata. Best effort:
// a failed lookup leaves the field blank and never fails the validation.
func (l *FlightLookup) enrichAirportNames(ctx context.Context, flight *entity.ValidatedFlight) {
	if flight.Origin != "" {
		if info, err := l.aviation.GetAirport(ctx, flight.Origin); err == nil {
			flight.OriginName = displayName(info.Name, info.City)
		} else {
			l.logger.Debug("Origin airport lookup failed", "code", flight.Origin, "error", err)
		}
	}
	if flight.Destination != "" {
		if info, err := l.aviation.GetAirport(ctx, flight.Destination); err == nil {
			flight.DestinationName = displayName(info.Name, info.City)
		} else {
			l.logger.Debug("Destination airport lookup failed", "code", flight.Destination, "error", err)
		}
	}
}

func displayName(name, city string) string {
	if name == "" {
		return ""
	}
	if city == "" {
		return name
	}
	return fmt.Sprintf("%s, %s", name, city)
}

func (l *FlightLookup) destinationSupported(airport *entity.AirportRef) bool {
	if l.supportedDestinations[strings.ToUpper(airport.Code)] {
		return true
	}
	return airport.CodeIATA != "" && l.supportedDestinations[strings.ToUpper(airport.CodeIATA)]
}

// SearchAirportPickupFlight wraps ValidateFlight for the booking flow. An
// unsupported destination or an already-landed flight comes back as an
// informational message rather than an error; short pickup lead time attaches
// a warning.
func (l *FlightLookup) SearchAirportPickupFlight(ctx context.Context, flightNumber, pickupDate string) (*entity.PickupFlightResult, error) {
	flight, err := l.ValidateFlight(ctx, flightNumber, pickupDate)
	if err != nil {
		var landed *entity.AlreadyLandedError
		if errors.As(err, &landed) {
			msg := fmt.Sprintf("Flight %s already landed at %s.",
				landed.FlightNumber, landed.LandedAt.Format("Jan 2, 2006 3:04 PM MST"))
			if landed.NextDate != "" {
				msg += fmt.Sprintf(" The next %s arrives on %s.", landed.FlightNumber, landed.NextDate)
			}
			return &entity.PickupFlightResult{Message: msg}, nil
		}
		return nil, err
	}

	if !l.codeSupported(flight.Destination, flight.DestinationIATA) {
		dest := flight.Destination
		if flight.DestinationIATA != "" {
			dest = flight.DestinationIATA
		}
		return &entity.PickupFlightResult{
			Message: fmt.Sprintf("Airport pickup is not available for arrivals into %s.", dest),
		}, nil
	}

	result := &entity.PickupFlightResult{Flight: flight}
	if flight.Arrival != nil {
		now := l.now()
		until := flight.Arrival.Sub(now)
		switch {
		case until <= 0:
			result.Message = fmt.Sprintf("Flight %s already landed at %s.",
				flight.FlightNumber, flight.Arrival.In(l.referenceTZ).Format("Jan 2, 2006 3:04 PM MST"))
		case until < arrivalLeadWarning:
			result.Warning = fmt.Sprintf("Flight %s arrives in %d minutes; the pickup may not be ready in time.",
				flight.FlightNumber, int(until.Minutes()))
		}
	}
	return result, nil
}

func (l *FlightLookup) codeSupported(code, iata string) bool {
	if code != "" && l.supportedDestinations[strings.ToUpper(code)] {
		return true
	}
	return iata != "" && l.supportedDestinations[strings.ToUpper(iata)]
}
