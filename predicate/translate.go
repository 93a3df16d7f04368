/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import (
	"reflect"

	"github.com/kamileo242/EventManager/errors"
)

// Translate rewrites a predicate over TModel into one over TDbo. Every
// member read from the free variable is redirected to the same-named field
// of TDbo; literals, operators and operand order are kept.
func Translate[TModel, TDbo any](p Predicate[TModel]) (Predicate[TDbo], error) {
	model := reflect.TypeOf((*TModel)(nil)).Elem()
	dbo := reflect.TypeOf((*TDbo)(nil)).Elem()
	param := Param{Name: p.Param.Name, Type: dbo}

	if p.Body == nil {
		return Predicate[TDbo]{Param: param, Body: True()}, nil
	}

	body, err := rewriteErr(p.Body, func(n Node) (Node, bool, error) {
		switch n := n.(type) {
		case Param:
			return param, true, nil
		case Member:
			if _, direct := n.Target.(Param); !direct {
				return nil, false, nil
			}
			if !hasField(model, n.Field) {
				return nil, true, errors.NewConfigurationError(model.String(), dbo.String(), n.Field,
					"field not found on source type")
			}
			if !hasField(dbo, n.Field) {
				return nil, true, errors.NewConfigurationError(model.String(), dbo.String(), n.Field,
					"field not found on target type")
			}
			return Member{Target: param, Field: n.Field}, true, nil
		}
		return nil, false, nil
	})
	if err != nil {
		return Predicate[TDbo]{}, err
	}
	return Predicate[TDbo]{Param: param, Body: body}, nil
}

func hasField(t reflect.Type, name string) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	f, ok := t.FieldByName(name)
	return ok && f.IsExported()
}
