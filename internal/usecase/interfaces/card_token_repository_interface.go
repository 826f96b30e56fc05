package interfaces

import (
	"context"
	"settlement_service/internal/domain/entities"
)

// ICardTokenRepository is append-only apart from the default flag.
type ICardTokenRepository interface {
	Create(ctx context.Context, c entities.CardToken) (entities.CardToken, error)
	GetByID(ctx context.Context, id string) (entities.CardToken, error)
	ListByUserID(ctx context.Context, userID string) ([]entities.CardToken, error)
	SetDefault(ctx context.Context, userID, id string) error
}
