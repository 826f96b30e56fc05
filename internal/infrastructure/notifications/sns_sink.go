package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/infrastructure/logger"
	"settlement_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSink publishes seller notifications to an SNS topic. Subscribers can
// filter on the store_id and event_type message attributes.
type SNSSink struct {
	client   snsAPI
	topicARN string
}

var _ interfaces.INotificationSink = (*SNSSink)(nil)

func NewSNSSink(cfg aws.Config, topicARN string) *SNSSink {
	return newSNSSink(sns.NewFromConfig(cfg), topicARN)
}

func newSNSSink(client snsAPI, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Publish(ctx context.Context, event entities.NotificationEvent) error {
	if s.topicARN == "" {
		return fmt.Errorf("empty topicArn")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(string(event.Type))},
			"store_id":   {DataType: aws.String("String"), StringValue: aws.String(event.StoreID)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", s.topicARN, err)
	}
	logger.Debug(ctx, "[payment][notify] sns event published",
		zap.String("order_id", event.OrderID),
		zap.String("store_id", event.StoreID),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}
