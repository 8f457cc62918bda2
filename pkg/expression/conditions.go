package expression

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm/runtime"

	"github.com/goliatone/go-formexpr/pkg/value"
)

const (
	truthyFunc = "$truthy"
	lessFunc   = "$lt"
	lessEqFunc = "$le"
	moreFunc   = "$gt"
	moreEqFunc = "$ge"
)

var orderingFuncs = map[string]string{
	"<":  lessFunc,
	"<=": lessEqFunc,
	">":  moreFunc,
	">=": moreEqFunc,
}

// conditionOptions make boolean operators accept any operand through
// value.Truthy and make ordering comparisons false when an operand is nil,
// so conditions over absent fields are falsy instead of failing.
func conditionOptions() []expr.Option {
	return []expr.Option{
		expr.Function(truthyFunc, func(params ...any) (any, error) {
			return value.Truthy(params[0]), nil
		}, new(func(any) bool)),
		expr.Function(lessFunc, ordered(runtime.Less), new(func(any, any) bool)),
		expr.Function(lessEqFunc, ordered(runtime.LessOrEqual), new(func(any, any) bool)),
		expr.Function(moreFunc, ordered(runtime.More), new(func(any, any) bool)),
		expr.Function(moreEqFunc, ordered(runtime.MoreOrEqual), new(func(any, any) bool)),
		expr.Patch(conditionPatcher{}),
	}
}

// ordered adapts an expr runtime comparison. Operand type mismatches other
// than nil still fail at run time.
func ordered(cmp func(a, b any) bool) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if params[0] == nil || params[1] == nil {
			return false, nil
		}
		return cmp(params[0], params[1]), nil
	}
}

type conditionPatcher struct{}

func (conditionPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.UnaryNode:
		if n.Operator == "!" || n.Operator == "not" {
			n.Node = truthyCall(n.Node)
		}
	case *ast.BinaryNode:
		switch n.Operator {
		case "&&", "||", "and", "or":
			n.Left = truthyCall(n.Left)
			n.Right = truthyCall(n.Right)
		default:
			if fn, ok := orderingFuncs[n.Operator]; ok {
				ast.Patch(node, &ast.CallNode{
					Callee:    &ast.IdentifierNode{Value: fn},
					Arguments: []ast.Node{n.Left, n.Right},
				})
			}
		}
	case *ast.ConditionalNode:
		n.Cond = truthyCall(n.Cond)
	}
}

func truthyCall(operand ast.Node) ast.Node {
	if call, ok := operand.(*ast.CallNode); ok {
		if ident, ok := call.Callee.(*ast.IdentifierNode); ok && ident.Value == truthyFunc {
			return operand
		}
	}
	call := &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: truthyFunc},
		Arguments: []ast.Node{operand},
	}
	call.SetLocation(operand.Location())
	return call
}
