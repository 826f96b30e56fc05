package repository

import (
	"context"
	"sort"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultCardTokensTableName = "card_tokens"
	cardTokensUserIDIndex      = "user_id-index"
)

type cardTokenItem struct {
	ID              string `dynamodbav:"id"`
	UserID          string `dynamodbav:"user_id"`
	LastFour        string `dynamodbav:"last_four"`
	ExpireMonth     string `dynamodbav:"expire_month"`
	ExpireYear      string `dynamodbav:"expire_year"`
	Brand           string `dynamodbav:"brand"`
	BankReference   string `dynamodbav:"bank_reference,omitempty"`
	ProviderToken   string `dynamodbav:"provider_token"`
	ProviderUserKey string `dynamodbav:"provider_user_key,omitempty"`
	IsDefault       bool   `dynamodbav:"is_default"`
	CreatedAt       string `dynamodbav:"created_at"`
}

// CardTokenDynamoRepository persists tokenized cards in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: user_id-index (PK: user_id), projection ALL
type CardTokenDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ICardTokenRepository = (*CardTokenDynamoRepository)(nil)

func NewCardTokenDynamoRepository(ddb DynamoAPI) *CardTokenDynamoRepository {
	return &CardTokenDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("CARD_TOKENS_TABLE", defaultCardTokensTableName),
	}
}

func (r *CardTokenDynamoRepository) Create(ctx context.Context, c entities.CardToken) (entities.CardToken, error) {
	av, err := attributevalue.MarshalMap(toCardTokenItem(c))
	if err != nil {
		return entities.CardToken{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.CardToken{}, interfaces.ErrDuplicateKey
		}
		return entities.CardToken{}, err
	}
	return c, nil
}

func (r *CardTokenDynamoRepository) GetByID(ctx context.Context, id string) (entities.CardToken, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": strAttr(id),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.CardToken{}, err
	}
	if len(out.Item) == 0 {
		return entities.CardToken{}, nil
	}

	var it cardTokenItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.CardToken{}, err
	}
	return fromCardTokenItem(it), nil
}

// ListByUserID returns the user's cards, oldest first.
func (r *CardTokenDynamoRepository) ListByUserID(ctx context.Context, userID string) ([]entities.CardToken, error) {
	var (
		cards []entities.CardToken
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(cardTokensUserIDIndex),
			KeyConditionExpression: aws.String("user_id = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": strAttr(userID),
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it cardTokenItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			cards = append(cards, fromCardTokenItem(it))
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].CreatedAt.Before(cards[j].CreatedAt) })
	return cards, nil
}

// SetDefault flips the default flag on every card of the user in one
// transaction. Each update is conditioned on the card still belonging to
// the user.
func (r *CardTokenDynamoRepository) SetDefault(ctx context.Context, userID, id string) error {
	cards, err := r.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}

	actions := make([]types.TransactWriteItem, 0, len(cards))
	for _, c := range cards {
		want := c.ID == id
		if c.IsDefault == want && !want {
			continue
		}
		actions = append(actions, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"id": strAttr(c.ID),
				},
				ConditionExpression: aws.String("#user_id = :uid"),
				UpdateExpression:    aws.String("SET #is_default = :def"),
				ExpressionAttributeNames: map[string]string{
					"#user_id":    "user_id",
					"#is_default": "is_default",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":uid": strAttr(userID),
					":def": &types.AttributeValueMemberBOOL{Value: want},
				},
			},
		})
	}
	if len(actions) == 0 {
		return nil
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: actions})
	if err != nil && isTransactionConditionFailed(err) {
		return interfaces.ErrStaleTransition
	}
	return err
}

func toCardTokenItem(c entities.CardToken) cardTokenItem {
	return cardTokenItem{
		ID:              c.ID,
		UserID:          c.UserID,
		LastFour:        c.LastFour,
		ExpireMonth:     c.ExpireMonth,
		ExpireYear:      c.ExpireYear,
		Brand:           string(c.Brand),
		BankReference:   c.BankReference,
		ProviderToken:   c.ProviderToken,
		ProviderUserKey: c.ProviderUserKey,
		IsDefault:       c.IsDefault,
		CreatedAt:       formatTime(c.CreatedAt),
	}
}

func fromCardTokenItem(it cardTokenItem) entities.CardToken {
	return entities.CardToken{
		ID:              it.ID,
		UserID:          it.UserID,
		LastFour:        it.LastFour,
		ExpireMonth:     it.ExpireMonth,
		ExpireYear:      it.ExpireYear,
		Brand:           entities.CardBrand(it.Brand),
		BankReference:   it.BankReference,
		ProviderToken:   it.ProviderToken,
		ProviderUserKey: it.ProviderUserKey,
		IsDefault:       it.IsDefault,
		CreatedAt:       parseTime(it.CreatedAt),
	}
}
