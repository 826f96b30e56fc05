package repository

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo stores items per table keyed by the partition key (plus the
// sort key when the table has one). Conditional puts only understand
// attribute_not_exists; updates and queries return canned outputs.
type fakeDynamo struct {
	mu     sync.Mutex
	keys   map[string][]string
	tables map[string]map[string]map[string]types.AttributeValue

	updates    []*dynamodb.UpdateItemInput
	updateOut  *dynamodb.UpdateItemOutput
	updateErr  error
	queries    []*dynamodb.QueryInput
	queryPages []*dynamodb.QueryOutput
	txs        []*dynamodb.TransactWriteItemsInput
	txErr      error
}

func newFakeDynamo(keys map[string][]string) *fakeDynamo {
	return &fakeDynamo{keys: keys, tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) keyOf(table string, item map[string]types.AttributeValue) string {
	k := ""
	for _, attr := range f.keys[table] {
		switch v := item[attr].(type) {
		case *types.AttributeValueMemberS:
			k += v.Value + "|"
		case *types.AttributeValueMemberN:
			k += v.Value + "|"
		}
	}
	return k
}

func (f *fakeDynamo) put(table string, item map[string]types.AttributeValue, conditional bool) bool {
	if f.tables[table] == nil {
		f.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	k := f.keyOf(table, item)
	if _, exists := f.tables[table][k]; exists && conditional {
		return false
	}
	f.tables[table][k] = item
	return true
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.put(aws.ToString(in.TableName), in.Item, in.ConditionExpression != nil) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := aws.ToString(in.TableName)
	return &dynamodb.GetItemOutput{Item: f.tables[table][f.keyOf(table, in.Key)]}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, in)
	if len(f.queryPages) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	page := f.queryPages[0]
	f.queryPages = f.queryPages[1:]
	return page, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return f.updateOut, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs = append(f.txs, in)
	if f.txErr != nil {
		return nil, f.txErr
	}
	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, action := range in.TransactItems {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		if action.Put == nil || action.Put.ConditionExpression == nil {
			continue
		}
		table := aws.ToString(action.Put.TableName)
		if _, exists := f.tables[table][f.keyOf(table, action.Put.Item)]; exists {
			reasons[i] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{Message: aws.String("Transaction cancelled"), CancellationReasons: reasons}
	}
	for _, action := range in.TransactItems {
		if action.Put != nil {
			f.put(aws.ToString(action.Put.TableName), action.Put.Item, false)
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) rows(table string) []map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]types.AttributeValue, 0, len(f.tables[table]))
	for _, item := range f.tables[table] {
		out = append(out, item)
	}
	return out
}
