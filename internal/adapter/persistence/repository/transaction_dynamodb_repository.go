package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionsTableName = "payment_transactions"
	transactionsIDIndex          = "id-index"
)

type transactionItem struct {
	ConversationID    string `dynamodbav:"payment_conversation_id"`
	ID                string `dynamodbav:"id"`
	UserID            string `dynamodbav:"user_id"`
	Amount            string `dynamodbav:"amount"`
	Currency          string `dynamodbav:"currency"`
	Status            string `dynamodbav:"status"`
	PaymentMethod     string `dynamodbav:"payment_method"`
	Provider          string `dynamodbav:"provider"`
	ProviderReference string `dynamodbav:"provider_reference,omitempty"`
	Installments      int    `dynamodbav:"installments"`
	Is3DSecure        bool   `dynamodbav:"is_3d_secure"`
	CardLastFour      string `dynamodbav:"card_last_four,omitempty"`
	SavedCardID       string `dynamodbav:"saved_card_id,omitempty"`
	ErrorCode         string `dynamodbav:"error_code,omitempty"`
	ErrorMessage      string `dynamodbav:"error_message,omitempty"`
	ProviderResponse  string `dynamodbav:"provider_response,omitempty"`
	Snapshot          string `dynamodbav:"checkout_snapshot"`
	ReturnURL         string `dynamodbav:"return_url,omitempty"`
	CreatedAt         string `dynamodbav:"created_at"`
	UpdatedAt         string `dynamodbav:"updated_at"`
	CompletedAt       string `dynamodbav:"completed_at,omitempty"`
}

// TransactionDynamoRepository persists PaymentTransaction entities in DynamoDB.
//
// Table requirements:
//   - PK: payment_conversation_id (string)
//   - GSI: id-index (PK: id), projection ALL
//
// Status changes are conditional writes on the current status, so two
// concurrent callbacks cannot both move the same transaction.
type TransactionDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ITransactionRepository = (*TransactionDynamoRepository)(nil)

func NewTransactionDynamoRepository(ddb DynamoAPI) *TransactionDynamoRepository {
	return &TransactionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("TRANSACTIONS_TABLE", defaultTransactionsTableName),
	}
}

func (r *TransactionDynamoRepository) Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	it, err := toTransactionItem(t)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{
			"#pk": "payment_conversation_id",
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.PaymentTransaction{}, interfaces.ErrDuplicateKey
		}
		return entities.PaymentTransaction{}, err
	}
	return t, nil
}

func (r *TransactionDynamoRepository) GetByConversationID(ctx context.Context, conversationID string) (entities.PaymentTransaction, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"payment_conversation_id": strAttr(conversationID),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentTransaction{}, nil
	}
	return decodeTransaction(out.Item)
}

func (r *TransactionDynamoRepository) GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(transactionsIDIndex),
		KeyConditionExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": strAttr(id),
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if len(out.Items) == 0 {
		return entities.PaymentTransaction{}, nil
	}
	return decodeTransaction(out.Items[0])
}

// Transition applies `to` only when the stored status is one of `from`.
// A failed condition is reported as ErrStaleTransition.
func (r *TransactionDynamoRepository) Transition(
	ctx context.Context,
	conversationID string,
	from []entities.TransactionStatus,
	to entities.TransactionStatus,
	upd entities.TransactionUpdate,
	at time.Time,
) (entities.PaymentTransaction, error) {
	if len(from) == 0 {
		return entities.PaymentTransaction{}, fmt.Errorf("transition to %s needs at least one source status", to)
	}

	sets := []string{"#status = :to", "#updated_at = :now"}
	names := map[string]string{"#status": "status", "#updated_at": "updated_at"}
	values := map[string]types.AttributeValue{
		":to":  strAttr(string(to)),
		":now": strAttr(formatTime(at)),
	}
	if to == entities.TransactionStatusCompleted {
		sets = append(sets, "#completed_at = :now")
		names["#completed_at"] = "completed_at"
	}
	optional := []struct{ attr, val string }{
		{"provider_reference", upd.ProviderReference},
		{"card_last_four", upd.CardLastFour},
		{"error_code", upd.ErrorCode},
		{"error_message", upd.ErrorMessage},
		{"provider_response", string(upd.ProviderResponse)},
	}
	for _, o := range optional {
		if o.val == "" {
			continue
		}
		sets = append(sets, fmt.Sprintf("#%s = :%s", o.attr, o.attr))
		names["#"+o.attr] = o.attr
		values[":"+o.attr] = strAttr(o.val)
	}

	placeholders := make([]string, 0, len(from))
	for i, f := range from {
		p := fmt.Sprintf(":from%d", i)
		placeholders = append(placeholders, p)
		values[p] = strAttr(string(f))
	}
	cond := fmt.Sprintf("attribute_exists(#pk) AND #status IN (%s)", strings.Join(placeholders, ", "))

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"payment_conversation_id": strAttr(conversationID),
		},
		ConditionExpression:       aws.String(cond),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#pk": "payment_conversation_id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.PaymentTransaction{}, interfaces.ErrStaleTransition
		}
		return entities.PaymentTransaction{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.PaymentTransaction{}, nil
	}
	return decodeTransaction(out.Attributes)
}

// RecordError stores a diagnostic on a transaction that has not settled yet.
func (r *TransactionDynamoRepository) RecordError(ctx context.Context, conversationID, code, message string, at time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"payment_conversation_id": strAttr(conversationID),
		},
		ConditionExpression: aws.String("attribute_exists(#pk) AND #status IN (:pending, :awaiting)"),
		UpdateExpression:    aws.String("SET #error_code = :code, #error_message = :message, #updated_at = :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending":  strAttr(string(entities.TransactionStatusPending)),
			":awaiting": strAttr(string(entities.TransactionStatusAwaiting3DS)),
			":code":     strAttr(code),
			":message":  strAttr(message),
			":now":      strAttr(formatTime(at)),
		},
		ExpressionAttributeNames: map[string]string{
			"#pk":            "payment_conversation_id",
			"#status":        "status",
			"#error_code":    "error_code",
			"#error_message": "error_message",
			"#updated_at":    "updated_at",
		},
	})
	if err != nil && isConditionFailed(err) {
		return interfaces.ErrStaleTransition
	}
	return err
}

func decodeTransaction(raw map[string]types.AttributeValue) (entities.PaymentTransaction, error) {
	var it transactionItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.PaymentTransaction{}, err
	}
	return fromTransactionItem(it)
}

func toTransactionItem(t entities.PaymentTransaction) (transactionItem, error) {
	snapshot, err := json.Marshal(t.Snapshot)
	if err != nil {
		return transactionItem{}, err
	}
	it := transactionItem{
		ConversationID:    t.ConversationID,
		ID:                t.ID,
		UserID:            t.UserID,
		Amount:            t.Amount.StringFixed(2),
		Currency:          t.Currency,
		Status:            string(t.Status),
		PaymentMethod:     t.PaymentMethod,
		Provider:          t.Provider,
		ProviderReference: t.ProviderReference,
		Installments:      t.Installments,
		Is3DSecure:        t.Is3DSecure,
		CardLastFour:      t.CardLastFour,
		SavedCardID:       t.SavedCardID,
		ErrorCode:         t.ErrorCode,
		ErrorMessage:      t.ErrorMessage,
		ProviderResponse:  string(t.ProviderResponse),
		Snapshot:          string(snapshot),
		ReturnURL:         t.ReturnURL,
		CreatedAt:         formatTime(t.CreatedAt),
		UpdatedAt:         formatTime(t.UpdatedAt),
	}
	if t.CompletedAt != nil {
		it.CompletedAt = formatTime(*t.CompletedAt)
	}
	return it, nil
}

func fromTransactionItem(it transactionItem) (entities.PaymentTransaction, error) {
	amount, err := decimal.NewFromString(it.Amount)
	if err != nil {
		return entities.PaymentTransaction{}, fmt.Errorf("transaction %s: amount: %w", it.ConversationID, err)
	}
	var snapshot entities.CheckoutSnapshot
	if it.Snapshot != "" {
		if err := json.Unmarshal([]byte(it.Snapshot), &snapshot); err != nil {
			return entities.PaymentTransaction{}, fmt.Errorf("transaction %s: checkout snapshot: %w", it.ConversationID, err)
		}
	}
	t := entities.PaymentTransaction{
		ID:                it.ID,
		ConversationID:    it.ConversationID,
		UserID:            it.UserID,
		Amount:            amount,
		Currency:          it.Currency,
		Status:            entities.TransactionStatus(it.Status),
		PaymentMethod:     it.PaymentMethod,
		Provider:          it.Provider,
		ProviderReference: it.ProviderReference,
		Installments:      it.Installments,
		Is3DSecure:        it.Is3DSecure,
		CardLastFour:      it.CardLastFour,
		SavedCardID:       it.SavedCardID,
		ErrorCode:         it.ErrorCode,
		ErrorMessage:      it.ErrorMessage,
		Snapshot:          snapshot,
		ReturnURL:         it.ReturnURL,
		CreatedAt:         parseTime(it.CreatedAt),
		UpdatedAt:         parseTime(it.UpdatedAt),
	}
	if it.ProviderResponse != "" {
		t.ProviderResponse = json.RawMessage(it.ProviderResponse)
	}
	if it.CompletedAt != "" {
		completed := parseTime(it.CompletedAt)
		t.CompletedAt = &completed
	}
	return t, nil
}
