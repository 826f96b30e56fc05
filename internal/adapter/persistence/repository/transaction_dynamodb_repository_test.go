package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() entities.PaymentTransaction {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return entities.PaymentTransaction{
		ID:             "txn-1",
		ConversationID: "conv-1",
		UserID:         "user-1",
		Amount:         decimal.RequireFromString("100.00"),
		Currency:       "TRY",
		Status:         entities.TransactionStatusPending,
		PaymentMethod:  "CREDIT_CARD",
		Provider:       "iyzico",
		Installments:   1,
		Is3DSecure:     true,
		Snapshot: entities.CheckoutSnapshot{
			Version: entities.CheckoutSnapshotVersion,
			Items: []entities.CartLine{
				{ProductID: "p-1", StoreID: "store-a", Quantity: 2, UnitPrice: decimal.RequireFromString("50.00")},
			},
		},
		ReturnURL: "https://shop.example/done",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestTransactionDynamoRepository_CreateAndGet(t *testing.T) {
	ddb := newFakeDynamo(map[string][]string{defaultTransactionsTableName: {"payment_conversation_id"}})
	repo := NewTransactionDynamoRepository(ddb)
	ctx := context.Background()

	_, err := repo.Create(ctx, sampleTransaction())
	require.NoError(t, err)

	got, err := repo.GetByConversationID(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "txn-1", got.ID)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, entities.TransactionStatusPending, got.Status)
	assert.True(t, got.Is3DSecure)
	require.Len(t, got.Snapshot.Items, 1)
	assert.True(t, got.Snapshot.Items[0].UnitPrice.Equal(decimal.RequireFromString("50")))
	assert.Nil(t, got.CompletedAt)

	_, err = repo.Create(ctx, sampleTransaction())
	assert.ErrorIs(t, err, interfaces.ErrDuplicateKey)

	missing, err := repo.GetByConversationID(ctx, "conv-none")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestTransactionDynamoRepository_GetByID(t *testing.T) {
	ddb := newFakeDynamo(nil)
	it, err := toTransactionItem(sampleTransaction())
	require.NoError(t, err)
	av, err := attributevalue.MarshalMap(it)
	require.NoError(t, err)
	ddb.queryPages = []*dynamodb.QueryOutput{{Items: []map[string]types.AttributeValue{av}}}

	repo := NewTransactionDynamoRepository(ddb)
	got, err := repo.GetByID(context.Background(), "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", got.ConversationID)

	require.Len(t, ddb.queries, 1)
	assert.Equal(t, transactionsIDIndex, aws.ToString(ddb.queries[0].IndexName))
}

func TestTransactionDynamoRepository_Transition(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)

	t.Run("builds conditional update", func(t *testing.T) {
		ddb := newFakeDynamo(nil)
		done := sampleTransaction()
		done.Status = entities.TransactionStatusCompleted
		done.ProviderReference = "pay-1"
		done.CompletedAt = &at
		it, err := toTransactionItem(done)
		require.NoError(t, err)
		av, err := attributevalue.MarshalMap(it)
		require.NoError(t, err)
		ddb.updateOut = &dynamodb.UpdateItemOutput{Attributes: av}

		repo := NewTransactionDynamoRepository(ddb)
		got, err := repo.Transition(context.Background(), "conv-1",
			entities.SourcesOf(entities.TransactionStatusCompleted),
			entities.TransactionStatusCompleted,
			entities.TransactionUpdate{ProviderReference: "pay-1", ProviderResponse: json.RawMessage(`{"status":"success"}`)},
			at,
		)
		require.NoError(t, err)
		assert.Equal(t, entities.TransactionStatusCompleted, got.Status)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, got.CompletedAt.Equal(at))

		require.Len(t, ddb.updates, 1)
		in := ddb.updates[0]
		assert.Equal(t, "attribute_exists(#pk) AND #status IN (:from0, :from1)", aws.ToString(in.ConditionExpression))
		assert.Contains(t, aws.ToString(in.UpdateExpression), "#completed_at = :now")
		assert.Contains(t, aws.ToString(in.UpdateExpression), "#provider_reference = :provider_reference")
		assert.NotContains(t, aws.ToString(in.UpdateExpression), "error_code")
		assert.Equal(t, &types.AttributeValueMemberS{Value: "PENDING"}, in.ExpressionAttributeValues[":from0"])
		assert.Equal(t, &types.AttributeValueMemberS{Value: "AWAITING_3DS"}, in.ExpressionAttributeValues[":from1"])
	})

	t.Run("condition failure is a stale transition", func(t *testing.T) {
		ddb := newFakeDynamo(nil)
		ddb.updateErr = &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		repo := NewTransactionDynamoRepository(ddb)

		_, err := repo.Transition(context.Background(), "conv-1",
			[]entities.TransactionStatus{entities.TransactionStatusAwaiting3DS},
			entities.TransactionStatusFailedVerification, entities.TransactionUpdate{}, at)
		assert.ErrorIs(t, err, interfaces.ErrStaleTransition)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		ddb := newFakeDynamo(nil)
		ddb.updateErr = errors.New("throttled")
		repo := NewTransactionDynamoRepository(ddb)

		_, err := repo.Transition(context.Background(), "conv-1",
			[]entities.TransactionStatus{entities.TransactionStatusPending},
			entities.TransactionStatusFailed, entities.TransactionUpdate{}, at)
		assert.EqualError(t, err, "throttled")
	})
}

func TestTransactionDynamoRepository_RecordError(t *testing.T) {
	ddb := newFakeDynamo(nil)
	repo := NewTransactionDynamoRepository(ddb)

	require.NoError(t, repo.RecordError(context.Background(), "conv-1", "GATEWAY_UNREACHABLE", "timeout", time.Now()))
	require.Len(t, ddb.updates, 1)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "GATEWAY_UNREACHABLE"}, ddb.updates[0].ExpressionAttributeValues[":code"])

	ddb.updateErr = &types.ConditionalCheckFailedException{}
	err := repo.RecordError(context.Background(), "conv-1", "X", "y", time.Now())
	assert.ErrorIs(t, err, interfaces.ErrStaleTransition)
}
