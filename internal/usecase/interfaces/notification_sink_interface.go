package interfaces

import (
	"context"
	"settlement_service/internal/domain/entities"
)

// INotificationSink delivers seller notifications. Delivery is fire-and-forget
// from the settlement point of view.
type INotificationSink interface {
	Publish(ctx context.Context, event entities.NotificationEvent) error
}
