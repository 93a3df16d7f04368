/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros fills the templates of an index map, e.g. "USER#{Id}", from
// the attributes of an item.
func expandMacros(indexMap map[string]string, av map[string]types.AttributeValue) (map[string]string, error) {
	res := make(map[string]string, len(indexMap))

	for fieldName, template := range indexMap {
		var missing string
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			val, ok := av[key]
			if !ok {
				missing = key
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// sets, lists, maps and binaries have no key form
				missing = key
				return ""
			}
		})
		if missing != "" {
			return nil, fmt.Errorf("index map %s: attribute %q missing or not scalar", fieldName, missing)
		}
		res[fieldName] = expanded
	}

	return res, nil
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It requires non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded[attrPK]
	sk, okSK := expanded[attrSK]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: sk},
	}, nil
}
