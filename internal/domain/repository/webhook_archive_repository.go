package repository

import (
	"context"

	"flighttrack-service/internal/domain/entity"
)

// WebhookArchiveRepository stores raw inbound deliveries for audit. Writes are
// best effort and never on the reconciliation critical path.
type WebhookArchiveRepository interface {
	Save(ctx context.Context, delivery *entity.WebhookDelivery) error
}
