package routes

import (
	"settlement_service/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments = "/payments"
	PathCards    = "/cards"
)

func addPaymentRoutes(rg *gin.RouterGroup, settlementHandler *handlers.SettlementHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", settlementHandler.InitiatePayment)
		// Provider-facing: authenticated by callback signature, not by user.
		payments.POST("/callback", settlementHandler.PaymentCallback)
		payments.GET("/:conversation_id", settlementHandler.GetPayment)
		payments.GET("/:conversation_id/order", settlementHandler.GetPaymentOrder)
		payments.POST("/:conversation_id/reconcile", settlementHandler.ReconcilePayment)
	}
}

func addCardRoutes(rg *gin.RouterGroup, cardHandler *handlers.CardHandler) {
	cards := rg.Group(PathCards)
	{
		cards.GET("", cardHandler.ListCards)
		cards.PATCH("/:card_id/default", cardHandler.SetDefaultCard)
	}
}
