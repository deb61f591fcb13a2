package expr

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// builtin is a float64 math function callable from formulas.
type builtin struct {
	arity int
	fn    func(args []float64) float64
}

func unary(fn func(float64) float64) builtin {
	return builtin{arity: 1, fn: func(args []float64) float64 { return fn(args[0]) }}
}

func binary(fn func(float64, float64) float64) builtin {
	return builtin{arity: 2, fn: func(args []float64) float64 { return fn(args[0], args[1]) }}
}

var builtins = map[string]builtin{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"log10": unary(math.Log10),
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"pow":   binary(math.Pow),
	"atan2": binary(math.Atan2),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
}

// constants are identifiers with a fixed value. They are never reported as
// free symbols.
var constants = map[string]float64{
	"pi": math.Pi,
}

// Builtins returns the sorted names of the functions formulas may call.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsReserved reports whether name is a builtin function or a constant and
// therefore cannot be used as a parameter symbol.
func IsReserved(name string) bool {
	if _, ok := builtins[name]; ok {
		return true
	}
	_, ok := constants[name]
	return ok
}

// EvalContext returns an HCL evaluation context with the builtin functions,
// the predefined constants and vars. It serves authored HCL attributes such
// as event durations; a builtin producing NaN is reported as an error there.
func EvalContext(vars map[string]cty.Value) *hcl.EvalContext {
	all := make(map[string]cty.Value, len(constants)+len(vars))
	for name, v := range constants {
		all[name] = cty.NumberFloatVal(v)
	}
	for name, v := range vars {
		all[name] = v
	}
	return &hcl.EvalContext{Variables: all, Functions: ctyFunctions()}
}

func ctyFunctions() map[string]function.Function {
	funcs := make(map[string]function.Function, len(builtins))
	for name, b := range builtins {
		params := make([]function.Parameter, b.arity)
		for i := range params {
			params[i] = function.Parameter{Name: fmt.Sprintf("arg%d", i), Type: cty.Number}
		}
		funcs[name] = function.New(&function.Spec{
			Params: params,
			Type:   function.StaticReturnType(cty.Number),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				in := make([]float64, len(args))
				for i, arg := range args {
					in[i], _ = arg.AsBigFloat().Float64()
				}
				out := b.fn(in)
				if math.IsNaN(out) {
					return cty.NilVal, fmt.Errorf("%s is undefined for arguments %v", name, in)
				}
				return cty.NumberFloatVal(out), nil
			},
		})
	}
	return funcs
}
