/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/kamileo242/EventManager/datastore"
	storeerrors "github.com/kamileo242/EventManager/errors"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

// API is the part of the DynamoDB client the collection uses.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *sdk.TransactWriteItemsInput, optFns ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error)
}

var _ API = (*sdk.Client)(nil)

// Collection stores rows of type D in a shared single table. Items carry
// PK and SK expanded from the type's index map and an EntityType attribute
// naming the logical table.
type Collection[D any] struct {
	client    API
	tableName string
	table     registry.Table
	indexMap  map[string]string
	retry     RetryOptions
	logger    *zap.Logger
}

var _ datastore.Collection[struct{}] = (*Collection[struct{}])(nil)

// Option configures a Collection.
type Option func(*options)

type options struct {
	retry  RetryOptions
	logger *zap.Logger
}

// WithRetry overrides the scan retry policy.
func WithRetry(r RetryOptions) Option {
	return func(o *options) { o.retry = r }
}

// WithLogger sets the logger for retry and paging diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New binds storage object type D to tableName. D must have an index map
// registered with registry.RegisterIndexMap.
func New[D any](client API, tableName string, opts ...Option) (*Collection[D], error) {
	table, err := registry.DescribeTable[D]()
	if err != nil {
		return nil, err
	}
	indexMap, ok := registry.IndexMapOf(reflect.TypeOf((*D)(nil)).Elem())
	if !ok {
		return nil, fmt.Errorf("no index map found for %s", table.Type)
	}

	o := options{retry: DefaultRetryOptions(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[D]{
		client:    client,
		tableName: tableName,
		table:     table,
		indexMap:  indexMap,
		retry:     o.retry,
		logger:    o.logger,
	}, nil
}

func (c *Collection[D]) Table() registry.Table {
	return c.table
}

// keyOf builds the PK/SK key from datastore key values.
func (c *Collection[D]) keyOf(key datastore.Key) (map[string]types.AttributeValue, error) {
	if err := datastore.CheckKey(c.table, key); err != nil {
		return nil, err
	}
	attrs := make(map[string]types.AttributeValue, len(key))
	for i, col := range c.table.Keys {
		av, err := encodeValue(key[i])
		if err != nil {
			return nil, fmt.Errorf("encode key %s: %w", col.Attribute, err)
		}
		if av != nil {
			attrs[col.Attribute] = av
		}
	}
	return c.itemKey(attrs)
}

func (c *Collection[D]) itemKey(attrs map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	expanded, err := expandMacros(c.indexMap, attrs)
	if err != nil {
		return nil, err
	}
	return buildKeyFromExpanded(expanded)
}

// Get retrieves a single item. It returns nil, nil when there is none.
func (c *Collection[D]) Get(ctx context.Context, key datastore.Key) (*D, error) {
	keyMap, err := c.keyOf(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	out, err := c.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &c.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	row, err := decodeItem[D](out.Item)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &row, nil
}

func (c *Collection[D]) All(ctx context.Context) ([]D, error) {
	f := newFilter(c.table)
	expr, _ := f.render(nil)
	return c.scan(ctx, f, expr)
}

// Filter renders p as a FilterExpression. Predicates DynamoDB cannot
// express, such as EndsWith, are evaluated in memory after scanning the
// entity type.
func (c *Collection[D]) Filter(ctx context.Context, p predicate.Predicate[D]) ([]D, error) {
	f := newFilter(c.table)
	expr, err := f.render(p.Body)
	if errors.Is(err, errUnsupported) {
		c.logger.Debug("filtering in memory", zap.String("table", c.table.Name), zap.Error(err))
		rows, err := c.All(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]D, 0, len(rows))
		for _, row := range rows {
			ok, err := p.Match(row)
			if err != nil {
				return nil, fmt.Errorf("filter %s: %w", c.table.Name, err)
			}
			if ok {
				out = append(out, row)
			}
		}
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("render filter on %s: %w", c.table.Name, err)
	}
	return c.scan(ctx, f, expr)
}

// scan reads every page of a filtered scan.
func (c *Collection[D]) scan(ctx context.Context, f *filter, expr string) ([]D, error) {
	input := &sdk.ScanInput{
		TableName:                 &c.tableName,
		FilterExpression:          &expr,
		ExpressionAttributeNames:  f.names,
		ExpressionAttributeValues: f.values,
	}

	out := make([]D, 0)
	for page := 1; ; page++ {
		res, err := c.scanWithRetry(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table.Name, err)
		}
		for _, item := range res.Items {
			row, err := decodeItem[D](item)
			if err != nil {
				return nil, err
			}
			out = append(out, row)
		}
		c.logger.Debug("scanned page",
			zap.String("table", c.table.Name),
			zap.Int("page", page),
			zap.Int("items", len(res.Items)))
		if len(res.LastEvaluatedKey) == 0 {
			return out, nil
		}
		input.ExclusiveStartKey = res.LastEvaluatedKey
	}
}

func (c *Collection[D]) Begin(ctx context.Context) (datastore.Tx[D], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx[D]{ctx: ctx, c: c}, nil
}

type opKind int

const (
	insertOp opKind = iota
	overwriteOp
	removeOp
)

type tx[D any] struct {
	ctx   context.Context
	c     *Collection[D]
	items []types.TransactWriteItem
	kinds []opKind
	keys  []string
	done  bool
}

func (t *tx[D]) Insert(row D) error {
	item, err := t.item(row)
	if err != nil {
		return err
	}
	cond := "attribute_not_exists(#pk)"
	return t.stage(insertOp, datastore.KeyOf(t.c.table, row), types.TransactWriteItem{Put: &types.Put{
		TableName:                &t.c.tableName,
		Item:                     item,
		ConditionExpression:      &cond,
		ExpressionAttributeNames: map[string]string{"#pk": attrPK},
	}})
}

func (t *tx[D]) Overwrite(key datastore.Key, row D) error {
	if err := datastore.CheckKey(t.c.table, key); err != nil {
		return err
	}
	if nk := datastore.KeyOf(t.c.table, row); nk.String() != key.String() {
		return fmt.Errorf("%s: overwrite cannot change key %s to %s", t.c.table.Name, key, nk)
	}
	item, err := t.item(row)
	if err != nil {
		return err
	}
	cond := "attribute_exists(#pk)"
	return t.stage(overwriteOp, key, types.TransactWriteItem{Put: &types.Put{
		TableName:                &t.c.tableName,
		Item:                     item,
		ConditionExpression:      &cond,
		ExpressionAttributeNames: map[string]string{"#pk": attrPK},
	}})
}

func (t *tx[D]) Remove(key datastore.Key) error {
	keyMap, err := t.c.keyOf(key)
	if err != nil {
		return err
	}
	return t.stage(removeOp, key, types.TransactWriteItem{Delete: &types.Delete{
		TableName: &t.c.tableName,
		Key:       keyMap,
	}})
}

// item encodes row and adds the expanded index map attributes.
func (t *tx[D]) item(row D) (map[string]types.AttributeValue, error) {
	item, err := encodeItem(t.c.table, row)
	if err != nil {
		return nil, err
	}
	expanded, err := expandMacros(t.c.indexMap, item)
	if err != nil {
		return nil, err
	}
	for k, v := range expanded {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	return item, nil
}

func (t *tx[D]) stage(kind opKind, key datastore.Key, item types.TransactWriteItem) error {
	if t.done {
		return fmt.Errorf("%s: transaction already finished", t.c.table.Name)
	}
	t.items = append(t.items, item)
	t.kinds = append(t.kinds, kind)
	t.keys = append(t.keys, key.String())
	return nil
}

func (t *tx[D]) Rollback() error {
	t.done = true
	t.items = nil
	return nil
}

// Commit sends the staged writes as one TransactWriteItems call. Failed
// conditions map to AlreadyExists for inserts and NotFound for overwrites.
func (t *tx[D]) Commit() error {
	if t.done {
		return fmt.Errorf("%s: transaction already finished", t.c.table.Name)
	}
	t.done = true
	if len(t.items) == 0 {
		return nil
	}

	_, err := t.c.client.TransactWriteItems(t.ctx, &sdk.TransactWriteItemsInput{TransactItems: t.items})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for i, reason := range canceled.CancellationReasons {
			if i >= len(t.kinds) || reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
				continue
			}
			switch t.kinds[i] {
			case insertOp:
				return storeerrors.NewAlreadyExistsError(t.c.table.Name, t.keys[i])
			case overwriteOp:
				return storeerrors.NewNotFoundError(t.c.table.Name, t.keys[i])
			}
		}
	}
	return fmt.Errorf("TransactWriteItems failed: %w", err)
}
