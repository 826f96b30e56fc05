package handlers

import (
	"errors"
	"net/http"
	"strings"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase"
	"settlement_service/pkg"

	"github.com/gin-gonic/gin"
)

// HeaderUserID is set by the upstream auth layer.
const HeaderUserID = "X-User-ID"

var (
	errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errUnauthenticated       = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing user identity", http.StatusUnauthorized)
	errCallbackUnauthorized  = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Unauthorized", http.StatusUnauthorized)
)

func mapSettlementError(err error) *pkg.AppError {
	var gwErr *entities.GatewayError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), usecase.ErrInvalidInput.Error()+": ")
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request: "+msg, err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrSignature):
		return pkg.NewDomainError(errCallbackUnauthorized.Code, errCallbackUnauthorized.Message, err, errCallbackUnauthorized.HTTPStatus)
	case errors.Is(err, usecase.ErrTransactionNotFound):
		return pkg.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainError("ORDER_NOT_FOUND", "Order not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrCardNotFound):
		return pkg.NewDomainError("CARD_NOT_FOUND", "Saved card not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrDuplicateConversation):
		return pkg.NewDomainError("DUPLICATE_CONVERSATION", "Payment conversation already exists", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrTransitionConflict):
		return pkg.NewDomainError("PAYMENT_STATE_CONFLICT", "Payment was settled concurrently", err, http.StatusConflict)
	case errors.Is(err, entities.ErrProviderRejected):
		code := "PAYMENT_REJECTED"
		if errors.As(err, &gwErr) && gwErr.Code != "" {
			code = gwErr.Code
		}
		return pkg.NewDomainError(code, "Payment rejected", err, http.StatusPaymentRequired)
	case errors.Is(err, entities.ErrGatewayNetwork):
		return pkg.NewDomainError("GATEWAY_UNAVAILABLE", "Payment provider unavailable", err, http.StatusBadGateway)
	case errors.Is(err, entities.ErrGatewayConfiguration):
		return pkg.NewDomainError("GATEWAY_NOT_CONFIGURED", "Payment provider not configured", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func abortWithError(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func userID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(HeaderUserID))
	return id, id != ""
}
