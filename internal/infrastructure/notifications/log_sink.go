package notifications

import (
	"context"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// LogSink only logs events. Used when NOTIFY_TRANSPORT=none.
type LogSink struct{}

var _ interfaces.INotificationSink = LogSink{}

func (LogSink) Publish(ctx context.Context, event entities.NotificationEvent) error {
	logger.Info(ctx, "[payment][notify] seller notification",
		zap.String("type", string(event.Type)),
		zap.String("order_id", event.OrderID),
		zap.String("store_id", event.StoreID),
		zap.String("store_total", event.StoreTotal.StringFixed(2)),
		zap.Int("items", len(event.Items)),
	)
	return nil
}
