package interfaces

import (
	"context"
	"settlement_service/internal/domain/entities"
)

// IOrderRepository persists materialized orders and their items.
//
// CreateOnce writes the order and all its items atomically and returns
// ErrDuplicateKey when an order already exists for the same id.
type IOrderRepository interface {
	CreateOnce(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
}
