/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import "fmt"

// Walk visits n and its children depth first, parents before children.
// Returning false from visit skips the children of that node.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch n := n.(type) {
	case Member:
		Walk(n.Target, visit)
	case Compare:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case Logic:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case Not:
		Walk(n.Operand, visit)
	case Call:
		Walk(n.Target, visit)
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case HasValue:
		Walk(n.Operand, visit)
	case ValueOf:
		Walk(n.Operand, visit)
	}
}

// Fields lists the distinct fields of the free variable that body reads,
// in order of first use.
func Fields(body Node) []string {
	var fields []string
	seen := make(map[string]bool)
	Walk(body, func(n Node) bool {
		if m, ok := n.(Member); ok {
			if _, direct := m.Target.(Param); direct && !seen[m.Field] {
				seen[m.Field] = true
				fields = append(fields, m.Field)
			}
		}
		return true
	})
	return fields
}

// rewriter returns a replacement for n, or false to recurse into it.
type rewriter func(n Node) (Node, bool, error)

func rewrite(n Node, f rewriter) Node {
	out, err := rewriteErr(n, f)
	if err != nil {
		panic(err)
	}
	return out
}

// rewriteErr rebuilds n bottom up through f, keeping the shape of every
// node f does not replace.
func rewriteErr(n Node, f rewriter) (Node, error) {
	if n == nil {
		return nil, nil
	}
	if out, done, err := f(n); err != nil || done {
		return out, err
	}
	var err error
	switch n := n.(type) {
	case Param, Const:
		return n, nil
	case Member:
		if n.Target, err = rewriteErr(n.Target, f); err != nil {
			return nil, err
		}
		return n, nil
	case Compare:
		if n.Left, err = rewriteErr(n.Left, f); err != nil {
			return nil, err
		}
		if n.Right, err = rewriteErr(n.Right, f); err != nil {
			return nil, err
		}
		return n, nil
	case Logic:
		if n.Left, err = rewriteErr(n.Left, f); err != nil {
			return nil, err
		}
		if n.Right, err = rewriteErr(n.Right, f); err != nil {
			return nil, err
		}
		return n, nil
	case Not:
		if n.Operand, err = rewriteErr(n.Operand, f); err != nil {
			return nil, err
		}
		return n, nil
	case Call:
		if n.Target, err = rewriteErr(n.Target, f); err != nil {
			return nil, err
		}
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			if args[i], err = rewriteErr(a, f); err != nil {
				return nil, err
			}
		}
		n.Args = args
		return n, nil
	case HasValue:
		if n.Operand, err = rewriteErr(n.Operand, f); err != nil {
			return nil, err
		}
		return n, nil
	case ValueOf:
		if n.Operand, err = rewriteErr(n.Operand, f); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("predicate: unknown node %T", n)
}
