/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddbtest

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Condition reports whether an item satisfies an expression. A nil item
// stands for an absent one.
type Condition func(item map[string]types.AttributeValue) bool

// Parse compiles a condition or filter expression. It understands
// comparisons, AND, OR, NOT, parentheses and the functions attribute_exists,
// attribute_not_exists, contains and begins_with. A comparison involving a
// missing attribute is false.
func Parse(expr string, names map[string]string, values map[string]types.AttributeValue) (Condition, error) {
	p := &parser{tokens: tokenize(expr), names: names, values: values}
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q in %q", p.tokens[p.pos], expr)
	}
	return cond, nil
}

func tokenize(expr string) []string {
	var tokens []string
	rs := []rune(expr)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')' || r == ',':
			tokens = append(tokens, string(r))
			i++
		case r == '<' || r == '>' || r == '=':
			j := i + 1
			if j < len(rs) && (rs[j] == '=' || rs[j] == '>') {
				j++
			}
			tokens = append(tokens, string(rs[i:j]))
			i = j
		default:
			j := i
			for j < len(rs) && !unicode.IsSpace(rs[j]) && !strings.ContainsRune("(),<>=", rs[j]) {
				j++
			}
			tokens = append(tokens, string(rs[i:j]))
			i = j
		}
	}
	return tokens
}

type parser struct {
	tokens []string
	pos    int
	names  map[string]string
	values map[string]types.AttributeValue
}

func (p *parser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(tok string) error {
	if got := p.next(); got != tok {
		return fmt.Errorf("expected %q, got %q", tok, got)
	}
	return nil
}

func (p *parser) or() (Condition, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "OR") {
		p.next()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(item map[string]types.AttributeValue) bool { return l(item) || right(item) }
	}
	return left, nil
}

func (p *parser) and() (Condition, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "AND") {
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(item map[string]types.AttributeValue) bool { return l(item) && right(item) }
	}
	return left, nil
}

func (p *parser) unary() (Condition, error) {
	if strings.EqualFold(p.peek(), "NOT") {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return func(item map[string]types.AttributeValue) bool { return !operand(item) }, nil
	}
	return p.primary()
}

func (p *parser) primary() (Condition, error) {
	tok := p.peek()
	if tok == "(" {
		p.next()
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		return inner, p.expect(")")
	}
	if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1] == "(" {
		return p.function()
	}

	left, err := p.operand()
	if err != nil {
		return nil, err
	}
	op := p.next()
	right, err := p.operand()
	if err != nil {
		return nil, err
	}
	return func(item map[string]types.AttributeValue) bool {
		l, r := left(item), right(item)
		if l == nil || r == nil {
			return false
		}
		return compare(op, l, r)
	}, nil
}

func (p *parser) function() (Condition, error) {
	name := strings.ToLower(p.next())
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []operand
	for {
		arg, err := p.operand()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek() != "," {
			break
		}
		p.next()
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	switch name {
	case "attribute_exists", "attribute_not_exists":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes one argument", name)
		}
		want := name == "attribute_exists"
		return func(item map[string]types.AttributeValue) bool { return (args[0](item) != nil) == want }, nil
	case "contains", "begins_with":
		if len(args) != 2 {
			return nil, fmt.Errorf("%s takes two arguments", name)
		}
		return func(item map[string]types.AttributeValue) bool {
			target, arg := args[0](item), args[1](item)
			if target == nil || arg == nil {
				return false
			}
			if name == "begins_with" {
				t, ok1 := target.(*types.AttributeValueMemberS)
				a, ok2 := arg.(*types.AttributeValueMemberS)
				return ok1 && ok2 && strings.HasPrefix(t.Value, a.Value)
			}
			return contains(target, arg)
		}, nil
	}
	return nil, fmt.Errorf("unknown function %s", name)
}

// operand resolves an attribute name or value placeholder.
type operand func(item map[string]types.AttributeValue) types.AttributeValue

func (p *parser) operand() (operand, error) {
	tok := p.next()
	switch {
	case strings.HasPrefix(tok, "#"):
		attr, ok := p.names[tok]
		if !ok {
			return nil, fmt.Errorf("undefined attribute name %s", tok)
		}
		return func(item map[string]types.AttributeValue) types.AttributeValue {
			if av, ok := item[attr]; ok {
				if _, null := av.(*types.AttributeValueMemberNULL); !null {
					return av
				}
			}
			return nil
		}, nil
	case strings.HasPrefix(tok, ":"):
		av, ok := p.values[tok]
		if !ok {
			return nil, fmt.Errorf("undefined attribute value %s", tok)
		}
		return func(map[string]types.AttributeValue) types.AttributeValue { return av }, nil
	}
	return nil, fmt.Errorf("unexpected %q", tok)
}

func compare(op string, l, r types.AttributeValue) bool {
	c, ordered := order(l, r)
	switch op {
	case "=":
		return equal(l, r)
	case "<>":
		return !equal(l, r)
	case "<":
		return ordered && c < 0
	case "<=":
		return ordered && c <= 0
	case ">":
		return ordered && c > 0
	case ">=":
		return ordered && c >= 0
	}
	return false
}

// order compares numbers numerically and strings lexically.
func order(l, r types.AttributeValue) (int, bool) {
	switch l := l.(type) {
	case *types.AttributeValueMemberN:
		r, ok := r.(*types.AttributeValueMemberN)
		if !ok {
			return 0, false
		}
		ld, err1 := decimal.NewFromString(l.Value)
		rd, err2 := decimal.NewFromString(r.Value)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return ld.Cmp(rd), true
	case *types.AttributeValueMemberS:
		r, ok := r.(*types.AttributeValueMemberS)
		if !ok {
			return 0, false
		}
		return strings.Compare(l.Value, r.Value), true
	}
	return 0, false
}

func equal(l, r types.AttributeValue) bool {
	if c, ok := order(l, r); ok {
		return c == 0
	}
	return reflect.DeepEqual(l, r)
}

func contains(target, arg types.AttributeValue) bool {
	switch t := target.(type) {
	case *types.AttributeValueMemberS:
		a, ok := arg.(*types.AttributeValueMemberS)
		return ok && strings.Contains(t.Value, a.Value)
	case *types.AttributeValueMemberL:
		for _, el := range t.Value {
			if equal(el, arg) {
				return true
			}
		}
	case *types.AttributeValueMemberSS:
		a, ok := arg.(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		for _, el := range t.Value {
			if el == a.Value {
				return true
			}
		}
	}
	return false
}
