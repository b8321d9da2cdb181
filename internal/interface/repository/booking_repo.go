package repository

import (
	"context"
	"time"

	"flighttrack-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormBookingRepository implements the BookingRepository interface
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GORM booking repository
func NewGormBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &GormBookingRepository{
		db: db,
	}
}

// Bookings GORM model for database mapping
type Bookings struct {
	ID            uint           `gorm:"primaryKey"`
	FlightID      uint           `gorm:"column:flight_id;index"`
	PassengerName string         `gorm:"column:passenger_name"`
	Phone         string         `gorm:"column:phone"`
	PickupTime    time.Time      `gorm:"column:pickup_time"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the default table name
func (Bookings) TableName() string {
	return "bookings"
}

// CountActiveByFlight counts non-deleted bookings referencing a flight. The
// soft-delete scope excludes deleted rows automatically.
func (r *GormBookingRepository) CountActiveByFlight(ctx context.Context, flightID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&Bookings{}).Where("flight_id = ?", flightID).Count(&count)
	return count, result.Error
}
