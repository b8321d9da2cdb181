package repository

import (
	"context"

	"flighttrack-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormTxManager implements the TxManager interface
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GORM transaction manager
func NewGormTxManager(db *gorm.DB) repository.TxManager {
	return &GormTxManager{
		db: db,
	}
}

// Do runs fn inside one transaction; an error from fn rolls everything back
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormRepositories{tx: tx})
	})
}

// gormRepositories hands out repositories bound to one transaction
type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) Flights() repository.FlightRepository {
	return NewGormFlightRepository(r.tx)
}

func (r *gormRepositories) Events() repository.FlightStatusEventRepository {
	return NewGormFlightStatusEventRepository(r.tx)
}
