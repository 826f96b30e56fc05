package notifications

import (
	"context"
	"encoding/json"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes seller notifications to a Kafka topic keyed by store id,
// so one store's events stay ordered within a partition.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

var _ interfaces.INotificationSink = (*KafkaSink)(nil)

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	logger.Log.Info("[payment][notify] kafka producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &KafkaSink{writer: w, topic: topic}
}

func (k *KafkaSink) Publish(ctx context.Context, event entities.NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.StoreID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "order_id", Value: []byte(event.OrderID)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	logger.Debug(ctx, "[payment][notify] kafka event written",
		zap.String("topic", k.topic),
		zap.String("order_id", event.OrderID),
		zap.String("store_id", event.StoreID),
	)
	return nil
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
