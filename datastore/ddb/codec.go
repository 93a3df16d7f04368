/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/registry"
)

// Reserved item attributes of the single-table layout.
const (
	attrPK         = "PK"
	attrSK         = "SK"
	attrEntityType = "EntityType"
)

// encodeItem marshals row into an item keyed by the json attribute names
// of its columns. Null values are left out of the item.
func encodeItem(table registry.Table, row any) (map[string]types.AttributeValue, error) {
	v := reflect.ValueOf(row)
	item := make(map[string]types.AttributeValue, len(table.Columns)+3)
	for _, col := range table.Columns {
		av, err := encodeValue(v.FieldByIndex(col.Index).Interface())
		if err != nil {
			return nil, fmt.Errorf("encode %s.%s: %w", table.Name, col.Attribute, err)
		}
		if av != nil {
			item[col.Attribute] = av
		}
	}
	item[attrEntityType] = &types.AttributeValueMemberS{Value: table.Name}
	return item, nil
}

// encodeValue converts a storage value to an attribute value, going through
// its JSON form so that strfmt and list types keep their wire shape.
// Date-times are written in datastore.TimeLayout so that string comparison
// orders them. Decimals are written as exact numbers.
func encodeValue(v any) (types.AttributeValue, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case strfmt.DateTime:
		return &types.AttributeValueMemberS{Value: datastore.FormatTime(time.Time(x))}, nil
	case *strfmt.DateTime:
		if x == nil {
			return nil, nil
		}
		return encodeValue(*x)
	case decimal.Decimal:
		return &types.AttributeValueMemberN{Value: x.String()}, nil
	case *decimal.Decimal:
		if x == nil {
			return nil, nil
		}
		return encodeValue(*x)
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Slice) && rv.IsNil() {
		return nil, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return attributevalue.Marshal(generic)
}

// decodeItem is the inverse of encodeItem. Attributes that are not columns,
// such as the key attributes, are ignored.
func decodeItem[D any](item map[string]types.AttributeValue) (D, error) {
	var row D
	generic := make(map[string]any, len(item))
	for name, av := range item {
		// Numbers stay exact on their way to decimal fields.
		if n, ok := av.(*types.AttributeValueMemberN); ok {
			generic[name] = json.Number(n.Value)
			continue
		}
		var v any
		if err := attributevalue.Unmarshal(av, &v); err != nil {
			return row, fmt.Errorf("unmarshal %s: %w", name, err)
		}
		generic[name] = v
	}
	data, err := json.Marshal(generic)
	if err != nil {
		return row, err
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return row, fmt.Errorf("decode item: %w", err)
	}
	return row, nil
}
