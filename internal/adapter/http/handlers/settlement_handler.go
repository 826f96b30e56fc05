package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	request "settlement_service/internal/adapter/http/dto/request"
	response "settlement_service/internal/adapter/http/dto/response"
	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// SettlementHandler exposes checkout, provider callbacks and payment reads.
type SettlementHandler struct {
	usecase usecase.ISettlementUseCase
}

func NewSettlementHandler(uc usecase.ISettlementUseCase) *SettlementHandler {
	return &SettlementHandler{usecase: uc}
}

// InitiatePayment godoc
// @Summary      Start a checkout payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string                          true  "Authenticated user"
// @Param        payload    body    request.InitiatePaymentRequest  true  "Checkout"
// @Success      200  {object}  response.InitiatePaymentResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      402  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Failure      502  {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *SettlementHandler) InitiatePayment(c *gin.Context) {
	ctx := c.Request.Context()
	uid, ok := userID(c)
	if !ok {
		abortWithError(c, errUnauthenticated)
		return
	}

	var payload request.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn(ctx, "[payment][handler] invalid initiate payload", zap.Error(err))
		abortWithError(c, errInvalidPaymentPayload)
		return
	}

	result, err := h.usecase.Initiate(ctx, payload.ToCommand(uid, c.ClientIP()))
	if err != nil {
		appErr := mapSettlementError(err)
		logger.Error(ctx, "[payment][handler] initiate failed", err,
			zap.String("conversation_id", payload.ConversationID),
			zap.String("code", appErr.Code),
		)
		abortWithError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, response.FromInitiationResult(result))
}

// PaymentCallback godoc
// @Summary      Provider callback (3DS return or webhook)
// @Tags         payments
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  response.CallbackAck
// @Success      303
// @Failure      401  {object}  pkg.HTTPError
// @Failure      502  {object}  pkg.HTTPError
// @Failure      503  {object}  pkg.HTTPError
// @Router       /payments/callback [post]
func (h *SettlementHandler) PaymentCallback(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := readCallback(c)
	if err != nil {
		logger.Warn(ctx, "[payment][handler] unreadable callback", zap.Error(err))
		abortWithError(c, errInvalidPaymentPayload)
		return
	}

	result, err := h.usecase.CompleteCallback(ctx, payload)
	if err != nil {
		if errors.Is(err, usecase.ErrSignature) {
			logger.Warn(ctx, "[payment][handler] callback rejected",
				zap.String("conversation_id", payload.ConversationID),
				zap.Error(err),
			)
			abortWithError(c, errCallbackUnauthorized)
			return
		}
		// Orphans are acknowledged so the provider stops redelivering them.
		if errors.Is(err, usecase.ErrTransactionNotFound) {
			logger.Warn(ctx, "[payment][handler] orphan callback acknowledged",
				zap.String("conversation_id", payload.ConversationID),
				zap.String("payment_id", payload.PaymentID),
			)
			c.JSON(http.StatusOK, response.CallbackAck{Status: "received"})
			return
		}
		appErr := mapSettlementError(err)
		logger.Error(ctx, "[payment][handler] callback failed", err,
			zap.String("conversation_id", payload.ConversationID),
			zap.String("code", appErr.Code),
		)
		abortWithError(c, appErr)
		return
	}

	logger.Info(ctx, "[payment][handler] callback handled",
		zap.String("conversation_id", result.ConversationID),
		zap.String("status", string(result.Status)),
		zap.Bool("replayed", result.Replayed),
	)
	if payload.Browser && result.ReturnURL != "" {
		if target, ok := returnLocation(result); ok {
			c.Redirect(http.StatusSeeOther, target)
			return
		}
	}
	c.JSON(http.StatusOK, response.CallbackAck{Status: "received"})
}

// GetPayment godoc
// @Summary      Get a payment transaction
// @Tags         payments
// @Produce      json
// @Param        X-User-ID        header  string  true  "Authenticated user"
// @Param        conversation_id  path    string  true  "Conversation id"
// @Success      200  {object}  response.TransactionResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /payments/{conversation_id} [get]
func (h *SettlementHandler) GetPayment(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		abortWithError(c, errUnauthenticated)
		return
	}
	txn, err := h.usecase.GetTransaction(c.Request.Context(), c.Param("conversation_id"), uid)
	if err != nil {
		abortWithError(c, mapSettlementError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromTransaction(txn))
}

// GetPaymentOrder godoc
// @Summary      Get the order created by a payment
// @Tags         payments
// @Produce      json
// @Param        X-User-ID        header  string  true  "Authenticated user"
// @Param        conversation_id  path    string  true  "Conversation id"
// @Success      200  {object}  response.OrderResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /payments/{conversation_id}/order [get]
func (h *SettlementHandler) GetPaymentOrder(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		abortWithError(c, errUnauthenticated)
		return
	}
	order, err := h.usecase.GetOrder(c.Request.Context(), c.Param("conversation_id"), uid)
	if err != nil {
		abortWithError(c, mapSettlementError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

// ReconcilePayment godoc
// @Summary      Settle a payment from the provider's record
// @Tags         payments
// @Produce      json
// @Param        conversation_id  path  string  true  "Conversation id"
// @Success      200  {object}  response.CompletionResponse
// @Failure      404  {object}  pkg.HTTPError
// @Failure      502  {object}  pkg.HTTPError
// @Router       /payments/{conversation_id}/reconcile [post]
func (h *SettlementHandler) ReconcilePayment(c *gin.Context) {
	ctx := c.Request.Context()
	conversationID := c.Param("conversation_id")

	result, err := h.usecase.Reconcile(ctx, conversationID)
	if err != nil {
		appErr := mapSettlementError(err)
		logger.Error(ctx, "[payment][handler] reconcile failed", err,
			zap.String("conversation_id", conversationID),
			zap.String("code", appErr.Code),
		)
		abortWithError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, response.FromCompletionResult(result))
}

// readCallback binds either a browser form post or a JSON webhook. An empty
// body is accepted; Mercado Pago may put everything in the query string.
func readCallback(c *gin.Context) (entities.CallbackPayload, error) {
	var body request.CallbackRequest
	browser := c.ContentType() == binding.MIMEPOSTForm

	if browser {
		if err := c.ShouldBindWith(&body, binding.Form); err != nil {
			return entities.CallbackPayload{}, err
		}
	} else {
		raw, err := c.GetRawData()
		if err != nil {
			return entities.CallbackPayload{}, err
		}
		if len(strings.TrimSpace(string(raw))) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				return entities.CallbackPayload{}, err
			}
		}
	}

	paymentID := c.Query("data.id")
	if paymentID == "" {
		paymentID = c.Query("id")
	}
	return body.ToPayload(request.CallbackMeta{
		QueryConversationID: c.Query("conversation_id"),
		QueryPaymentID:      paymentID,
		SignatureHeader:     c.GetHeader("x-signature"),
		RequestID:           c.GetHeader("x-request-id"),
		Browser:             browser,
	}), nil
}

func returnLocation(r usecase.CompletionResult) (string, bool) {
	u, err := url.Parse(r.ReturnURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	q := u.Query()
	q.Set("conversationId", r.ConversationID)
	q.Set("status", string(r.Status))
	u.RawQuery = q.Encode()
	return u.String(), true
}
