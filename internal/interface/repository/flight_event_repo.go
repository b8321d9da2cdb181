package repository

import (
	"context"
	"errors"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightStatusEventRepository implements the FlightStatusEventRepository interface
type GormFlightStatusEventRepository struct {
	db *gorm.DB
}

// NewGormFlightStatusEventRepository creates a new GORM status event repository
func NewGormFlightStatusEventRepository(db *gorm.DB) repository.FlightStatusEventRepository {
	return &GormFlightStatusEventRepository{
		db: db,
	}
}

// FlightStatusEvents GORM model for database mapping. The composite unique
// index is the idempotency key for provider redeliveries.
type FlightStatusEvents struct {
	ID         uint      `gorm:"primaryKey"`
	FlightID   uint      `gorm:"column:flight_id;uniqueIndex:ux_flight_status_events_key,priority:1"`
	EventType  string    `gorm:"column:event_type;uniqueIndex:ux_flight_status_events_key,priority:2"`
	EventTime  time.Time `gorm:"column:event_time;uniqueIndex:ux_flight_status_events_key,priority:3"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
	OldStatus  string    `gorm:"column:old_status"`
	NewStatus  string    `gorm:"column:new_status"`
	DelayDelta int       `gorm:"column:delay_delta"`
	Processed  bool      `gorm:"column:processed"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the default table name
func (FlightStatusEvents) TableName() string {
	return "flight_status_events"
}

func (m *FlightStatusEvents) toEntity() *entity.FlightStatusEvent {
	return &entity.FlightStatusEvent{
		ID:         m.ID,
		FlightID:   m.FlightID,
		EventType:  m.EventType,
		EventTime:  m.EventTime,
		Payload:    m.Payload,
		OldStatus:  entity.FlightStatus(m.OldStatus),
		NewStatus:  entity.FlightStatus(m.NewStatus),
		DelayDelta: m.DelayDelta,
		Processed:  m.Processed,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// Create inserts a new event row; a unique-key conflict maps to
// entity.ErrDuplicateEvent for the reconciler's recovery branch.
func (r *GormFlightStatusEventRepository) Create(ctx context.Context, event *entity.FlightStatusEvent) error {
	model := FlightStatusEvents{
		FlightID:   event.FlightID,
		EventType:  event.EventType,
		EventTime:  event.EventTime,
		Payload:    event.Payload,
		OldStatus:  string(event.OldStatus),
		NewStatus:  string(event.NewStatus),
		DelayDelta: event.DelayDelta,
		Processed:  event.Processed,
	}
	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return entity.ErrDuplicateEvent
		}
		return result.Error
	}
	event.ID = model.ID
	return nil
}

// GetByKey fetches the event for an idempotency key; (nil, nil) when absent
func (r *GormFlightStatusEventRepository) GetByKey(ctx context.Context, flightID uint, eventType string, eventTime time.Time) (*entity.FlightStatusEvent, error) {
	var event FlightStatusEvents
	result := r.db.WithContext(ctx).
		Where("flight_id = ? AND event_type = ? AND event_time = ?", flightID, eventType, eventTime).
		First(&event)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return event.toEntity(), nil
}

// MarkProcessed flips the processed flag after the flight row was updated
func (r *GormFlightStatusEventRepository) MarkProcessed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&FlightStatusEvents{}).Where("id = ?", id).
		Update("processed", true).Error
}

// Complete refreshes a half-done event row and marks it processed
func (r *GormFlightStatusEventRepository) Complete(ctx context.Context, id uint, oldStatus, newStatus entity.FlightStatus, payload []byte, delayDelta int) error {
	return r.db.WithContext(ctx).Model(&FlightStatusEvents{}).Where("id = ?", id).Updates(map[string]interface{}{
		"old_status":  string(oldStatus),
		"new_status":  string(newStatus),
		"payload":     payload,
		"delay_delta": delayDelta,
		"processed":   true,
	}).Error
}
