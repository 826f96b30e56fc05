package response

import (
	"time"

	"settlement_service/internal/domain/entities"
)

// CardResponse never carries provider tokens.
type CardResponse struct {
	ID          string    `json:"id"`
	LastFour    string    `json:"last_four"`
	ExpireMonth string    `json:"expire_month"`
	ExpireYear  string    `json:"expire_year"`
	Brand       string    `json:"brand"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromCardTokens(cards []entities.CardToken) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardResponse{
			ID:          c.ID,
			LastFour:    c.LastFour,
			ExpireMonth: c.ExpireMonth,
			ExpireYear:  c.ExpireYear,
			Brand:       string(c.Brand),
			IsDefault:   c.IsDefault,
			CreatedAt:   c.CreatedAt,
		})
	}
	return out
}
