package expr

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// inspect walks the syntax tree, rejecting unsupported constructs and
// collecting referenced symbols and called functions.
func inspect(expr hclsyntax.Expression, symbols, functions map[string]struct{}) error {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		if !e.Val.Type().Equals(cty.Number) {
			return fmt.Errorf("literal of type %s is not a number", e.Val.Type().FriendlyName())
		}
		return nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return fmt.Errorf("attribute or index access is not supported")
		}
		name := e.Traversal.RootName()
		if _, ok := builtins[name]; ok {
			return fmt.Errorf("function %q used as a symbol", name)
		}
		if _, ok := constants[name]; !ok {
			symbols[name] = struct{}{}
		}
		return nil

	case *hclsyntax.ParenthesesExpr:
		return inspect(e.Expression, symbols, functions)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return fmt.Errorf("unsupported unary operator")
		}
		return inspect(e.Val, symbols, functions)

	case *hclsyntax.BinaryOpExpr:
		if _, ok := arithmetic(e.Op); !ok {
			return fmt.Errorf("unsupported operator, only + - * / %% are allowed")
		}
		if err := inspect(e.LHS, symbols, functions); err != nil {
			return err
		}
		return inspect(e.RHS, symbols, functions)

	case *hclsyntax.FunctionCallExpr:
		b, ok := builtins[e.Name]
		if !ok {
			return fmt.Errorf("unknown function %q", e.Name)
		}
		if e.ExpandFinal {
			return fmt.Errorf("argument expansion is not supported in call to %q", e.Name)
		}
		if len(e.Args) != b.arity {
			return fmt.Errorf("function %q takes %d argument(s), got %d", e.Name, b.arity, len(e.Args))
		}
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			if err := inspect(arg, symbols, functions); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported construct %T", expr)
	}
}

// arithmetic maps an HCL operator to its float64 implementation.
func arithmetic(op *hclsyntax.Operation) (func(a, b float64) float64, bool) {
	switch op {
	case hclsyntax.OpAdd:
		return func(a, b float64) float64 { return a + b }, true
	case hclsyntax.OpSubtract:
		return func(a, b float64) float64 { return a - b }, true
	case hclsyntax.OpMultiply:
		return func(a, b float64) float64 { return a * b }, true
	case hclsyntax.OpDivide:
		return func(a, b float64) float64 { return a / b }, true
	case hclsyntax.OpModulo:
		return math.Mod, true
	default:
		return nil, false
	}
}

// lower compiles a validated syntax tree into a float64 closure of freeVar.
func (e *Expression) lower(expr hclsyntax.Expression, freeVar string) (func(float64) float64, error) {
	switch n := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		v, _ := n.Val.AsBigFloat().Float64()
		return func(float64) float64 { return v }, nil

	case *hclsyntax.ScopeTraversalExpr:
		name := n.Traversal.RootName()
		if name == freeVar {
			return func(x float64) float64 { return x }, nil
		}
		if v, ok := e.bindings[name]; ok {
			return func(float64) float64 { return v }, nil
		}
		if v, ok := constants[name]; ok {
			return func(float64) float64 { return v }, nil
		}
		return nil, fmt.Errorf("symbol %q is not bound", name)

	case *hclsyntax.ParenthesesExpr:
		return e.lower(n.Expression, freeVar)

	case *hclsyntax.UnaryOpExpr:
		inner, err := e.lower(n.Val, freeVar)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return -inner(x) }, nil

	case *hclsyntax.BinaryOpExpr:
		op, ok := arithmetic(n.Op)
		if !ok {
			return nil, fmt.Errorf("unsupported operator")
		}
		lhs, err := e.lower(n.LHS, freeVar)
		if err != nil {
			return nil, err
		}
		rhs, err := e.lower(n.RHS, freeVar)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return op(lhs(x), rhs(x)) }, nil

	case *hclsyntax.FunctionCallExpr:
		b := builtins[n.Name]
		args := make([]func(float64) float64, len(n.Args))
		for i, arg := range n.Args {
			lowered, err := e.lower(arg, freeVar)
			if err != nil {
				return nil, err
			}
			args[i] = lowered
		}
		return func(x float64) float64 {
			in := make([]float64, len(args))
			for i, arg := range args {
				in[i] = arg(x)
			}
			return b.fn(in)
		}, nil

	default:
		return nil, fmt.Errorf("unsupported construct %T", expr)
	}
}
