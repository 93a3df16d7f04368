/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package ddbtest provides an in-memory stand-in for the DynamoDB calls
// made by package ddb. Scan and conditional puts evaluate their
// expressions against the stored items.
package ddbtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API keeps items in memory in insertion order. Fields may be inspected and
// set by tests between calls.
type API struct {
	mu sync.Mutex

	Items map[string]map[string]types.AttributeValue
	// Order holds item ids in insertion order; it is the scan order.
	Order []string
	// PageSize limits the matches per Scan page when positive.
	PageSize int
	// ScanErrs are returned, one per call, before scans succeed again.
	ScanErrs []error
	// Scans records every Scan input.
	Scans []sdk.ScanInput
}

func New() *API {
	return &API{Items: make(map[string]map[string]types.AttributeValue)}
}

// ItemID is the id under which an item with the given key is stored.
func ItemID(item map[string]types.AttributeValue) string {
	return Str(item["PK"]) + "|" + Str(item["SK"])
}

// Str returns the value of a string attribute, or "".
func Str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *API) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sdk.GetItemOutput{Item: f.Items[ItemID(in.Key)]}, nil
}

func (f *API) Scan(_ context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Scans = append(f.Scans, *in)
	if len(f.ScanErrs) > 0 {
		err := f.ScanErrs[0]
		f.ScanErrs = f.ScanErrs[1:]
		return nil, err
	}

	match := func(map[string]types.AttributeValue) bool { return true }
	if in.FilterExpression != nil {
		cond, err := Parse(*in.FilterExpression, in.ExpressionAttributeNames, in.ExpressionAttributeValues)
		if err != nil {
			return nil, fmt.Errorf("ValidationException: %w", err)
		}
		match = cond
	}

	start := 0
	if len(in.ExclusiveStartKey) > 0 {
		last := ItemID(in.ExclusiveStartKey)
		for i, id := range f.Order {
			if id == last {
				start = i + 1
			}
		}
	}

	out := &sdk.ScanOutput{}
	for i := start; i < len(f.Order); i++ {
		item, ok := f.Items[f.Order[i]]
		if !ok || !match(item) {
			continue
		}
		out.Items = append(out.Items, item)
		if f.PageSize > 0 && len(out.Items) == f.PageSize && i < len(f.Order)-1 {
			out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]}
			break
		}
	}
	return out, nil
}

func (f *API) TransactWriteItems(_ context.Context, in *sdk.TransactWriteItemsInput, _ ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, ti := range in.TransactItems {
		reasons[i].Code = aws.String("None")
		if ti.Put == nil || ti.Put.ConditionExpression == nil {
			continue
		}
		cond, err := Parse(*ti.Put.ConditionExpression, ti.Put.ExpressionAttributeNames, ti.Put.ExpressionAttributeValues)
		if err != nil {
			return nil, fmt.Errorf("ValidationException: %w", err)
		}
		if !cond(f.Items[ItemID(ti.Put.Item)]) {
			reasons[i].Code = aws.String("ConditionalCheckFailed")
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}

	for _, ti := range in.TransactItems {
		switch {
		case ti.Put != nil:
			id := ItemID(ti.Put.Item)
			if _, exists := f.Items[id]; !exists {
				f.Order = append(f.Order, id)
			}
			f.Items[id] = ti.Put.Item
		case ti.Delete != nil:
			id := ItemID(ti.Delete.Key)
			delete(f.Items, id)
			for i, o := range f.Order {
				if o == id {
					f.Order = append(f.Order[:i], f.Order[i+1:]...)
					break
				}
			}
		}
	}
	return &sdk.TransactWriteItemsOutput{}, nil
}
