package handlers

import (
	"net/http"

	response "settlement_service/internal/adapter/http/dto/response"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CardHandler serves the authenticated user's saved cards.
type CardHandler struct {
	vault usecase.ICardVault
}

func NewCardHandler(vault usecase.ICardVault) *CardHandler {
	return &CardHandler{vault: vault}
}

// ListCards godoc
// @Summary      List saved cards
// @Tags         cards
// @Produce      json
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Success      200  {array}   response.CardResponse
// @Failure      401  {object}  pkg.HTTPError
// @Router       /cards [get]
func (h *CardHandler) ListCards(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		abortWithError(c, errUnauthenticated)
		return
	}
	cards, err := h.vault.ListCards(c.Request.Context(), uid)
	if err != nil {
		logger.Error(c.Request.Context(), "[payment][handler] list cards failed", err)
		abortWithError(c, mapSettlementError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromCardTokens(cards))
}

// SetDefaultCard godoc
// @Summary      Make a saved card the default
// @Tags         cards
// @Param        X-User-ID  header  string  true  "Authenticated user"
// @Param        card_id    path    string  true  "Card id"
// @Success      204
// @Failure      404  {object}  pkg.HTTPError
// @Router       /cards/{card_id}/default [patch]
func (h *CardHandler) SetDefaultCard(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		abortWithError(c, errUnauthenticated)
		return
	}
	cardID := c.Param("card_id")
	if err := h.vault.SetDefault(c.Request.Context(), uid, cardID); err != nil {
		logger.Warn(c.Request.Context(), "[payment][handler] set default card failed",
			zap.String("card_id", cardID),
			zap.Error(err),
		)
		abortWithError(c, mapSettlementError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
