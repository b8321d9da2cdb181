package repository

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightRepository implements the FlightRepository interface
type GormFlightRepository struct {
	db *gorm.DB
}

// NewGormFlightRepository creates a new GORM flight repository
func NewGormFlightRepository(db *gorm.DB) repository.FlightRepository {
	return &GormFlightRepository{
		db: db,
	}
}

// Flights GORM model for database mapping
type Flights struct {
	ID                 uint   `gorm:"primaryKey"`
	FlightNumber       string `gorm:"column:flight_number;index"`
	FaFlightID         string `gorm:"column:fa_flight_id"`
	Origin             string `gorm:"column:origin"`
	OriginIata         string `gorm:"column:origin_iata"`
	Destination        string `gorm:"column:destination"`
	DestinationIata    string `gorm:"column:destination_iata"`
	ScheduledDeparture *time.Time `gorm:"column:scheduled_departure"`
	EstimatedDeparture *time.Time `gorm:"column:estimated_departure"`
	ActualDeparture    *time.Time `gorm:"column:actual_departure"`
	ScheduledArrival   *time.Time `gorm:"column:scheduled_arrival"`
	EstimatedArrival   *time.Time `gorm:"column:estimated_arrival"`
	ActualArrival      *time.Time `gorm:"column:actual_arrival"`
	DelayMinutes       int        `gorm:"column:delay_minutes"`
	OriginGate         string     `gorm:"column:origin_gate"`
	DestinationGate    string     `gorm:"column:destination_gate"`
	AircraftType       string     `gorm:"column:aircraft_type"`
	Registration       string     `gorm:"column:registration"`
	Status             string     `gorm:"column:status"`
	AlertID            string     `gorm:"column:alert_id;index"`
	AlertEnabled       bool       `gorm:"column:alert_enabled"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides the default table name
func (Flights) TableName() string {
	return "flights"
}

func (m *Flights) toEntity() *entity.Flight {
	return &entity.Flight{
		ID:                 m.ID,
		FlightNumber:       m.FlightNumber,
		FaFlightID:         m.FaFlightID,
		Origin:             m.Origin,
		OriginIATA:         m.OriginIata,
		Destination:        m.Destination,
		DestinationIATA:    m.DestinationIata,
		ScheduledDeparture: m.ScheduledDeparture,
		EstimatedDeparture: m.EstimatedDeparture,
		ActualDeparture:    m.ActualDeparture,
		ScheduledArrival:   m.ScheduledArrival,
		EstimatedArrival:   m.EstimatedArrival,
		ActualArrival:      m.ActualArrival,
		DelayMinutes:       m.DelayMinutes,
		OriginGate:         m.OriginGate,
		DestinationGate:    m.DestinationGate,
		AircraftType:       m.AircraftType,
		Registration:       m.Registration,
		Status:             entity.FlightStatus(m.Status),
		AlertID:            m.AlertID,
		AlertEnabled:       m.AlertEnabled,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// GetByID finds a flight by its internal id
func (r *GormFlightRepository) GetByID(ctx context.Context, id uint) (*entity.Flight, error) {
	var flight Flights
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&flight)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrFlightRecordNotFound
		}
		return nil, result.Error
	}
	return flight.toEntity(), nil
}

// GetByAlertID finds the flight owning a provider alert subscription
func (r *GormFlightRepository) GetByAlertID(ctx context.Context, alertID string) (*entity.Flight, error) {
	var flight Flights
	result := r.db.WithContext(ctx).Where("alert_id = ?", alertID).First(&flight)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrFlightRecordNotFound
		}
		return nil, result.Error
	}
	return flight.toEntity(), nil
}

// ApplyUpdate writes one webhook-derived update payload onto a flight row.
// Empty optional fields mean the delivery did not carry them and leave the
// existing values untouched.
func (r *GormFlightRepository) ApplyUpdate(ctx context.Context, id uint, update *entity.FlightUpdate) error {
	values := map[string]interface{}{
		"status":        string(update.Status),
		"delay_minutes": update.DelayMinutes,
	}
	if update.EstimatedDeparture != nil {
		values["estimated_departure"] = update.EstimatedDeparture
	}
	if update.EstimatedArrival != nil {
		values["estimated_arrival"] = update.EstimatedArrival
	}
	if update.ActualDeparture != nil {
		values["actual_departure"] = update.ActualDeparture
	}
	if update.ActualArrival != nil {
		values["actual_arrival"] = update.ActualArrival
	}
	if update.OriginGate != "" {
		values["origin_gate"] = update.OriginGate
	}
	if update.DestinationGate != "" {
		values["destination_gate"] = update.DestinationGate
	}
	if update.AircraftType != "" {
		values["aircraft_type"] = update.AircraftType
	}
	if update.Registration != "" {
		values["registration"] = update.Registration
	}

	return r.db.WithContext(ctx).Model(&Flights{}).Where("id = ?", id).Updates(values).Error
}

// SetAlert persists a provisioned alert subscription
func (r *GormFlightRepository) SetAlert(ctx context.Context, id uint, alertID string, enabled bool) error {
	return r.db.WithContext(ctx).Model(&Flights{}).Where("id = ?", id).Updates(map[string]interface{}{
		"alert_id":      alertID,
		"alert_enabled": enabled,
	}).Error
}

// SetAlertEnabled flips the alert-enabled flag, keeping the alert id as history
func (r *GormFlightRepository) SetAlertEnabled(ctx context.Context, id uint, enabled bool) error {
	return r.db.WithContext(ctx).Model(&Flights{}).Where("id = ?", id).
		Update("alert_enabled", enabled).Error
}

// WithAlertLock runs fn inside a transaction holding the per-flight advisory
// lock. pg_advisory_xact_lock releases automatically when the transaction
// ends, so a crashed caller never strands the lock.
func (r *GormFlightRepository) WithAlertLock(ctx context.Context, flightID uint, fn func(ctx context.Context, repo repository.FlightRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", alertLockKey(flightID)).Error; err != nil {
			return err
		}
		return fn(ctx, &GormFlightRepository{db: tx})
	})
}

// alertLockKey hashes the flight id into an advisory lock key. A collision
// between flights only over-serializes, it never breaks correctness.
func alertLockKey(flightID uint) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "flight-alert:%d", flightID)
	return int64(h.Sum64())
}
