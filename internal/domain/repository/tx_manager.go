package repository

import (
	"context"
)

// Repositories exposes transaction-bound repositories to a TxManager callback.
type Repositories interface {
	Flights() FlightRepository
	Events() FlightStatusEventRepository
}

// TxManager runs a function inside one database transaction. Returning an
// error rolls the transaction back.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
