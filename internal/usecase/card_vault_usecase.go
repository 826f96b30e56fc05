package usecase

import (
	"context"
	"fmt"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ICardVault stores tokenized cards and resolves saved-card references.
//
// Raw card numbers and CVV never reach the store: only brand, last four,
// expiry and the provider's reusable token are kept.
type ICardVault interface {
	Resolve(ctx context.Context, savedCardID, userID string) (entities.ChargeCredentials, error)
	Persist(ctx context.Context, userID string, card entities.CardDetails, charge entities.ChargeSucceeded) (entities.CardToken, error)
	ListCards(ctx context.Context, userID string) ([]entities.CardToken, error)
	SetDefault(ctx context.Context, userID, cardID string) error
}

type CardVault struct {
	repo interfaces.ICardTokenRepository
	now  func() time.Time
}

var _ ICardVault = (*CardVault)(nil)

func NewCardVault(repo interfaces.ICardTokenRepository) *CardVault {
	return &CardVault{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Resolve returns ErrCardNotFound both when the card does not exist and when
// it belongs to someone else.
func (v *CardVault) Resolve(ctx context.Context, savedCardID, userID string) (entities.ChargeCredentials, error) {
	savedCardID = strings.TrimSpace(savedCardID)
	userID = strings.TrimSpace(userID)
	if savedCardID == "" || userID == "" {
		return entities.ChargeCredentials{}, ErrCardNotFound
	}

	card, err := v.repo.GetByID(ctx, savedCardID)
	if err != nil {
		return entities.ChargeCredentials{}, err
	}
	if card.ID == "" {
		return entities.ChargeCredentials{}, ErrCardNotFound
	}
	if card.UserID != userID {
		logger.Warn(ctx, "[payment][vault] saved card ownership mismatch",
			zap.String("card_id", savedCardID),
			zap.String("user_id", userID),
		)
		return entities.ChargeCredentials{}, ErrCardNotFound
	}
	return entities.ChargeCredentials{SavedCard: &card}, nil
}

func (v *CardVault) Persist(ctx context.Context, userID string, card entities.CardDetails, charge entities.ChargeSucceeded) (entities.CardToken, error) {
	if strings.TrimSpace(charge.CardToken) == "" {
		return entities.CardToken{}, ErrNoReusableToken
	}
	if strings.TrimSpace(userID) == "" {
		return entities.CardToken{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}

	existing, err := v.repo.ListByUserID(ctx, userID)
	if err != nil {
		return entities.CardToken{}, err
	}

	lastFour := card.LastFour()
	if charge.CardLastFour != "" {
		lastFour = charge.CardLastFour
	}
	// Tokenized cards carry no number; the provider's scheme is all we have.
	brand := entities.DetectCardType(card.Number)
	if brand == entities.CardBrandUnknown && charge.CardBrand != "" {
		brand = charge.CardBrand
	}

	token := entities.CardToken{
		ID:              uuid.NewString(),
		UserID:          userID,
		LastFour:        lastFour,
		ExpireMonth:     card.ExpireMonth,
		ExpireYear:      card.ExpireYear,
		Brand:           brand,
		BankReference:   charge.BankReference,
		ProviderToken:   charge.CardToken,
		ProviderUserKey: charge.CardUserKey,
		IsDefault:       len(existing) == 0,
		CreatedAt:       v.now(),
	}

	created, err := v.repo.Create(ctx, token)
	if err != nil {
		return entities.CardToken{}, err
	}
	logger.Info(ctx, "[payment][vault] card token stored",
		zap.String("card_id", created.ID),
		zap.String("brand", string(created.Brand)),
		zap.String("last_four", created.LastFour),
	)
	return created, nil
}

func (v *CardVault) ListCards(ctx context.Context, userID string) ([]entities.CardToken, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return v.repo.ListByUserID(ctx, userID)
}

func (v *CardVault) SetDefault(ctx context.Context, userID, cardID string) error {
	if _, err := v.Resolve(ctx, cardID, userID); err != nil {
		return err
	}
	return v.repo.SetDefault(ctx, userID, cardID)
}
