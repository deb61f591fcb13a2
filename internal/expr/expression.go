package expr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// ErrExpression is the sentinel wrapped by every parse or evaluation failure.
var ErrExpression = errors.New("invalid expression")

// Error describes why a formula was rejected.
type Error struct {
	Text   string
	Reason string
	Diags  hcl.Diagnostics
}

func (e *Error) Error() string {
	if len(e.Diags) > 0 {
		return fmt.Sprintf("expression %q: %s: %s", e.Text, e.Reason, e.Diags.Error())
	}
	return fmt.Sprintf("expression %q: %s", e.Text, e.Reason)
}

// Unwrap lets callers match any expression failure with errors.Is(err, ErrExpression).
func (e *Error) Unwrap() error {
	return ErrExpression
}

// Expression is an immutable parsed formula plus the symbol values bound to it.
type Expression struct {
	text      string
	syntax    hclsyntax.Expression
	symbols   []string
	functions []string
	bindings  map[string]float64
}

// Sampler evaluates a compiled expression at every abscissa.
type Sampler func(xs []float64) []float64

// Parse parses and validates text. Only numeric literals, single-name
// symbols, parentheses, unary minus, + - * / %, ** and calls to the builtin
// functions are accepted. The text is kept as written.
func Parse(text string) (*Expression, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &Error{Text: text, Reason: "expression is empty"}
	}

	source, err := rewritePower(text)
	if err != nil {
		return nil, &Error{Text: text, Reason: err.Error()}
	}

	syntax, diags := hclsyntax.ParseExpression([]byte(source), "expression", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, &Error{Text: text, Reason: "failed to parse", Diags: diags}
	}

	symbols := make(map[string]struct{})
	functions := make(map[string]struct{})
	if err := inspect(syntax, symbols, functions); err != nil {
		return nil, &Error{Text: text, Reason: err.Error()}
	}

	return &Expression{
		text:      text,
		syntax:    syntax,
		symbols:   sortedKeys(symbols),
		functions: sortedKeys(functions),
		bindings:  map[string]float64{},
	}, nil
}

// MustParse is like Parse but panics on error. It is meant for the fixed
// formulas of built-in shapes.
func MustParse(text string) *Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the formula text as it was parsed.
func (e *Expression) String() string {
	return e.text
}

// Symbols returns the sorted names of all free symbols in the formula,
// bound or not.
func (e *Expression) Symbols() []string {
	return append([]string(nil), e.symbols...)
}

// Functions returns the sorted names of the builtin functions the formula calls.
func (e *Expression) Functions() []string {
	return append([]string(nil), e.functions...)
}

// Substitute returns a copy of e with the given symbol values bound on top
// of the existing bindings. Values for symbols the formula does not
// reference are ignored.
func (e *Expression) Substitute(bindings map[string]float64) *Expression {
	merged := make(map[string]float64, len(e.bindings)+len(bindings))
	for k, v := range e.bindings {
		merged[k] = v
	}
	for _, sym := range e.symbols {
		if v, ok := bindings[sym]; ok {
			merged[sym] = v
		}
	}
	return &Expression{
		text:      e.text,
		syntax:    e.syntax,
		symbols:   e.symbols,
		functions: e.functions,
		bindings:  merged,
	}
}

// Unbound returns the sorted symbols that still have no value.
func (e *Expression) Unbound() []string {
	var out []string
	for _, sym := range e.symbols {
		if _, ok := e.bindings[sym]; !ok {
			out = append(out, sym)
		}
	}
	return out
}

// IsConstant reports whether every symbol is bound.
func (e *Expression) IsConstant() bool {
	return len(e.Unbound()) == 0
}

// Constant folds a constant expression with the same float64 arithmetic
// Compile uses, so NaN and ±Inf come back as values, not errors.
func (e *Expression) Constant() (float64, error) {
	if unbound := e.Unbound(); len(unbound) > 0 {
		return 0, &Error{Text: e.text, Reason: fmt.Sprintf("not constant, unbound symbols %v", unbound)}
	}

	root, err := e.lower(e.syntax, "")
	if err != nil {
		return 0, &Error{Text: e.text, Reason: err.Error()}
	}
	return root(0), nil
}

// Compile lowers the expression into a Sampler over freeVar. Every other
// symbol must already be bound.
func (e *Expression) Compile(freeVar string) (Sampler, error) {
	for _, sym := range e.Unbound() {
		if sym != freeVar {
			return nil, &Error{Text: e.text, Reason: fmt.Sprintf("symbol %q is not bound", sym)}
		}
	}

	root, err := e.lower(e.syntax, freeVar)
	if err != nil {
		return nil, &Error{Text: e.text, Reason: err.Error()}
	}

	return func(xs []float64) []float64 {
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = root(x)
		}
		return ys
	}, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
