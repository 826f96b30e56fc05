package repository

import (
	"context"
	"fmt"
	"sort"

	"settlement_service/internal/domain/entities"
	"settlement_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	defaultOrdersTableName     = "orders"
	defaultOrderItemsTableName = "order_items"

	// One TransactWriteItems call holds at most 100 actions: the order row
	// plus its item rows.
	maxItemsPerOrder = 99
)

type orderItem struct {
	ID             string `dynamodbav:"id"`
	ConversationID string `dynamodbav:"payment_conversation_id"`
	TransactionID  string `dynamodbav:"transaction_id"`
	UserID         string `dynamodbav:"user_id"`
	Total          string `dynamodbav:"total"`
	Currency       string `dynamodbav:"currency"`
	Status         string `dynamodbav:"status"`
	ItemCount      int    `dynamodbav:"item_count"`
	CreatedAt      string `dynamodbav:"created_at"`
}

type orderLineItem struct {
	OrderID   string `dynamodbav:"order_id"`
	Line      int    `dynamodbav:"line"`
	ProductID string `dynamodbav:"product_id"`
	VariantID string `dynamodbav:"variant_id,omitempty"`
	StoreID   string `dynamodbav:"store_id"`
	Name      string `dynamodbav:"name,omitempty"`
	Quantity  int    `dynamodbav:"quantity"`
	UnitPrice string `dynamodbav:"unit_price"`
	LineTotal string `dynamodbav:"line_total"`
}

// OrderDynamoRepository persists orders and their items in DynamoDB.
//
// Table requirements:
//   - orders: PK id (string)
//   - order_items: PK order_id (string), SK line (number)
//
// The order id is derived from the payment conversation id, so the
// attribute_not_exists condition on the order row is the uniqueness guard.
type OrderDynamoRepository struct {
	ddb             DynamoAPI
	ordersTable     string
	orderItemsTable string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb DynamoAPI) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:             ddb,
		ordersTable:     getenvDefault("ORDERS_TABLE", defaultOrdersTableName),
		orderItemsTable: getenvDefault("ORDER_ITEMS_TABLE", defaultOrderItemsTableName),
	}
}

// CreateOnce writes the order row and all item rows in one transaction.
func (r *OrderDynamoRepository) CreateOnce(ctx context.Context, o entities.Order) (entities.Order, error) {
	if len(o.Items) == 0 {
		return entities.Order{}, fmt.Errorf("order %s has no items", o.ID)
	}
	if len(o.Items) > maxItemsPerOrder {
		return entities.Order{}, fmt.Errorf("order %s has %d items, limit is %d", o.ID, len(o.Items), maxItemsPerOrder)
	}

	head, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}
	actions := make([]types.TransactWriteItem, 0, len(o.Items)+1)
	actions = append(actions, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(r.ordersTable),
			Item:                head,
			ConditionExpression: aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{
				"#id": "id",
			},
		},
	})
	for _, it := range o.Items {
		av, err := attributevalue.MarshalMap(toOrderLineItem(it))
		if err != nil {
			return entities.Order{}, err
		}
		actions = append(actions, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(r.orderItemsTable),
				Item:      av,
			},
		})
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: actions})
	if err != nil {
		if isTransactionConditionFailed(err) {
			return entities.Order{}, interfaces.ErrDuplicateKey
		}
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.ordersTable),
		Key: map[string]types.AttributeValue{
			"id": strAttr(id),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var head orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &head); err != nil {
		return entities.Order{}, err
	}
	items, err := r.listItems(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(head, items)
}

func (r *OrderDynamoRepository) listItems(ctx context.Context, orderID string) ([]orderLineItem, error) {
	var (
		rows  []orderLineItem
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.orderItemsTable),
			KeyConditionExpression: aws.String("order_id = :oid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":oid": strAttr(orderID),
			},
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it orderLineItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			rows = append(rows, it)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Line < rows[j].Line })
	return rows, nil
}

func toOrderItem(o entities.Order) orderItem {
	return orderItem{
		ID:             o.ID,
		ConversationID: o.ConversationID,
		TransactionID:  o.TransactionID,
		UserID:         o.UserID,
		Total:          o.Total.StringFixed(2),
		Currency:       o.Currency,
		Status:         string(o.Status),
		ItemCount:      len(o.Items),
		CreatedAt:      formatTime(o.CreatedAt),
	}
}

func toOrderLineItem(it entities.OrderItem) orderLineItem {
	return orderLineItem{
		OrderID:   it.OrderID,
		Line:      it.Line,
		ProductID: it.ProductID,
		VariantID: it.VariantID,
		StoreID:   it.StoreID,
		Name:      it.Name,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice.String(),
		LineTotal: it.LineTotal.String(),
	}
}

func fromOrderItem(head orderItem, rows []orderLineItem) (entities.Order, error) {
	total, err := decimal.NewFromString(head.Total)
	if err != nil {
		return entities.Order{}, fmt.Errorf("order %s: total: %w", head.ID, err)
	}
	items := make([]entities.OrderItem, 0, len(rows))
	for _, row := range rows {
		unit, err := decimal.NewFromString(row.UnitPrice)
		if err != nil {
			return entities.Order{}, fmt.Errorf("order %s line %d: unit price: %w", head.ID, row.Line, err)
		}
		lineTotal, err := decimal.NewFromString(row.LineTotal)
		if err != nil {
			return entities.Order{}, fmt.Errorf("order %s line %d: line total: %w", head.ID, row.Line, err)
		}
		items = append(items, entities.OrderItem{
			OrderID:   row.OrderID,
			Line:      row.Line,
			ProductID: row.ProductID,
			VariantID: row.VariantID,
			StoreID:   row.StoreID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
	}
	return entities.Order{
		ID:             head.ID,
		ConversationID: head.ConversationID,
		TransactionID:  head.TransactionID,
		UserID:         head.UserID,
		Total:          total,
		Currency:       head.Currency,
		Status:         entities.OrderStatus(head.Status),
		Items:          items,
		CreatedAt:      parseTime(head.CreatedAt),
	}, nil
}
