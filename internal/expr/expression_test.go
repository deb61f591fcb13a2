package expr_test

import (
	"errors"
	"math"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pulseduck/internal/expr"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse_CollectsSymbolsAndFunctions(t *testing.T) {
	e, err := expr.Parse("sin(x * l) / (x * l)")
	require.NoError(t, err)

	require.Equal(t, []string{"l", "x"}, e.Symbols())
	require.Equal(t, []string{"sin"}, e.Functions())
	require.Equal(t, "sin(x * l) / (x * l)", e.String())
}

func TestParse_PiIsNotASymbol(t *testing.T) {
	e, err := expr.Parse("2 * pi * x")
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, e.Symbols())
}

func TestParse_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "empty", text: "   "},
		{name: "syntax error", text: "sin(x"},
		{name: "power without exponent", text: "x**"},
		{name: "power without base", text: "**2"},
		{name: "unknown function", text: "gamma(x)"},
		{name: "wrong arity", text: "pow(x)"},
		{name: "string literal", text: `"abc"`},
		{name: "bool literal", text: "true"},
		{name: "attribute access", text: "var.x"},
		{name: "comparison", text: "x > 1"},
		{name: "conditional", text: "x > 0 ? 1 : 0"},
		{name: "function as symbol", text: "sin + 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := expr.Parse(tc.text)
			require.Error(t, err)
			require.True(t, errors.Is(err, expr.ErrExpression), "error should wrap ErrExpression: %v", err)
		})
	}
}

func TestParse_PythonPowerOperator(t *testing.T) {
	testCases := []struct {
		text string
		want string
	}{
		{"x**2", "pow(x, 2)"},
		{"-x**2", "-pow(x, 2)"},
		{"x**-1", "pow(x, -1)"},
		{"2**3**x", "pow(2, pow(3, x))"},
		{"(x + 1)**2 * 3", "pow(x + 1, 2) * 3"},
		{"sin(x)**2 + 1", "pow(sin(x), 2) + 1"},
		{"exp(-0.5*((x - mu)/sigma)**2)", "exp(-0.5 * pow((x - mu) / sigma, 2))"},
	}

	bindings := map[string]float64{"mu": 0.25, "sigma": 0.5}
	xs := []float64{-1.5, -0.5, 0.5, 2}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := expr.Parse(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.text, got.String(), "the written form is kept")

			gotSampler, err := got.Substitute(bindings).Compile("x")
			require.NoError(t, err)
			wantSampler, err := expr.MustParse(tc.want).Substitute(bindings).Compile("x")
			require.NoError(t, err)

			require.InDeltaSlice(t, wantSampler(xs), gotSampler(xs), 1e-12)
		})
	}
}

func TestConstant_FoldsAfterSubstitution(t *testing.T) {
	e := expr.MustParse("a * 2 + pow(b, 2)")
	require.False(t, e.IsConstant())
	require.Equal(t, []string{"a", "b"}, e.Unbound())

	bound := e.Substitute(map[string]float64{"a": 1.5, "b": 3, "unused": 7})
	require.True(t, bound.IsConstant())
	require.False(t, e.IsConstant(), "Substitute must not mutate the receiver")

	v, err := bound.Constant()
	require.NoError(t, err)
	require.InDelta(t, 12.0, v, 1e-12)
}

func TestConstant_RequiresAllSymbolsBound(t *testing.T) {
	_, err := expr.MustParse("x + 1").Constant()
	require.ErrorIs(t, err, expr.ErrExpression)
}

func TestConstant_AgreesWithSampling(t *testing.T) {
	testCases := []struct {
		constant string
		sampled  string
	}{
		{"0 / 0", "x * 0 / 0"},
		{"1 / 0", "(x * 0 + 1) / 0"},
		{"-1 / 0", "(x * 0 - 1) / 0"},
		{"sqrt(-1)", "sqrt(x * 0 - 1)"},
		{"log(0)", "log(x * 0)"},
		{"pow(2, 10) % 7", "pow(x * 0 + 2, 10) % 7"},
	}

	for _, tc := range testCases {
		t.Run(tc.constant, func(t *testing.T) {
			c, err := expr.MustParse(tc.constant).Constant()
			require.NoError(t, err)

			sampler, err := expr.MustParse(tc.sampled).Compile("x")
			require.NoError(t, err)
			want := sampler([]float64{0.5})[0]

			if math.IsNaN(want) {
				require.True(t, math.IsNaN(c), "got %v", c)
				return
			}
			require.Equal(t, want, c)
		})
	}
}

func TestEvalContext_ExposesBuiltinsAndVars(t *testing.T) {
	e, diags := hclsyntax.ParseExpression([]byte("2 * pi * us + sqrt(k)"), "test", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), diags.Error())

	val, diags := e.Value(expr.EvalContext(map[string]cty.Value{
		"us": cty.NumberFloatVal(1e-6),
		"k":  cty.NumberIntVal(4),
	}))
	require.False(t, diags.HasErrors(), diags.Error())
	got, _ := val.AsBigFloat().Float64()
	require.InDelta(t, 2*math.Pi*1e-6+2, got, 1e-12)
}

func TestCompile_SamplesOneVariable(t *testing.T) {
	e := expr.MustParse("-k * x + sin(pi / 2)").Substitute(map[string]float64{"k": 2})

	sampler, err := e.Compile("x")
	require.NoError(t, err)

	ys := sampler([]float64{-1, 0, 1, 2.5})
	require.InDeltaSlice(t, []float64{3, 1, -1, -4}, ys, 1e-12)
}

func TestCompile_FollowsFloatSemantics(t *testing.T) {
	sampler, err := expr.MustParse("sin(x) / x").Compile("x")
	require.NoError(t, err)

	ys := sampler([]float64{0, math.Pi / 2})
	require.True(t, math.IsNaN(ys[0]))
	require.InDelta(t, 2/math.Pi, ys[1], 1e-12)
}

func TestCompile_RequiresOtherSymbolsBound(t *testing.T) {
	_, err := expr.MustParse("x * l").Compile("x")
	require.ErrorIs(t, err, expr.ErrExpression)
	require.Contains(t, err.Error(), `"l"`)
}

func TestIsReserved(t *testing.T) {
	require.True(t, expr.IsReserved("sin"))
	require.True(t, expr.IsReserved("pi"))
	require.False(t, expr.IsReserved("sigma"))
	require.Contains(t, expr.Builtins(), "pow")
}
