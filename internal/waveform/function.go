package waveform

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pulseduck/internal/expr"
)

// Variable is the free variable every waveform formula is sampled over.
const Variable = "x"

// DefaultResolution is the sampling step of the LimeSDR base clock
// (30.72 MS/s), in seconds per sample.
const DefaultResolution = 1 / 30.72e6

// MaxSamples bounds the length of a sampled pulse: about half a second at
// the default resolution.
const MaxSamples = 1 << 24

// Parameter is a named numeric symbol of a waveform formula.
type Parameter struct {
	Name    string
	Symbol  string
	Value   float64
	Default float64
}

// NewParameter returns a parameter whose value starts at its default.
func NewParameter(name, symbol string, def float64) *Parameter {
	return &Parameter{Name: name, Symbol: symbol, Value: def, Default: def}
}

// SetValue replaces the value if it is finite.
func (p *Parameter) SetValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: "parameter " + p.Name, Value: v, Reason: "value must be finite"}
	}
	p.Value = v
	return nil
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.Value = p.Default
}

func (p *Parameter) clone() *Parameter {
	c := *p
	return &c
}

// Function is a symbolic pulse envelope sampled over [startX, endX].
type Function struct {
	name       string
	expression *expr.Expression
	parameters []*Parameter
	resolution float64
	startX     float64
	endX       float64
}

// New builds a function with the default resolution. The expression must
// parse and may only reference Variable and the symbols of params.
func New(name, expression string, startX, endX float64, params ...*Parameter) (*Function, error) {
	if name == "" {
		return nil, &ValidationError{Field: "function name", Value: name, Reason: "must not be empty"}
	}
	if err := validateDomain(startX, endX); err != nil {
		return nil, err
	}
	for _, p := range params {
		if err := validateSymbol(p.Symbol); err != nil {
			return nil, err
		}
	}

	parsed, err := parseFor(expression, params)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", name, err)
	}

	f := &Function{
		name:       name,
		expression: parsed,
		parameters: make([]*Parameter, 0, len(params)),
		resolution: DefaultResolution,
		startX:     startX,
		endX:       endX,
	}
	for _, p := range params {
		f.parameters = append(f.parameters, p.clone())
	}
	return f, nil
}

// Name is the function's identity and serialization tag.
func (f *Function) Name() string { return f.name }

// Expression returns the formula text.
func (f *Function) Expression() string { return f.expression.String() }

// Resolution returns the sampling step in seconds per sample.
func (f *Function) Resolution() float64 { return f.resolution }

// Domain returns the normalized interval the formula is sampled over.
func (f *Function) Domain() (startX, endX float64) { return f.startX, f.endX }

// Parameters returns the parameters in declaration order. The pointers are
// live: mutating them changes the function.
func (f *Function) Parameters() []*Parameter {
	return append([]*Parameter(nil), f.parameters...)
}

// AddParameter appends p. Symbols are not de-duplicated.
func (f *Function) AddParameter(p *Parameter) {
	f.parameters = append(f.parameters, p)
}

// ParameterByName returns the first parameter called name.
func (f *Function) ParameterByName(name string) (*Parameter, error) {
	for _, p := range f.parameters {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, &NotFoundError{Kind: "parameter", Name: name, In: "function " + f.name}
}

// ParameterBySymbol returns the first parameter bound to symbol.
func (f *Function) ParameterBySymbol(symbol string) (*Parameter, error) {
	for _, p := range f.parameters {
		if p.Symbol == symbol {
			return p, nil
		}
	}
	return nil, &NotFoundError{Kind: "symbol", Name: symbol, In: "function " + f.name}
}

// SetExpression replaces the formula after validating it against the
// current parameters.
func (f *Function) SetExpression(text string) error {
	parsed, err := parseFor(text, f.parameters)
	if err != nil {
		return fmt.Errorf("function %q: %w", f.name, err)
	}
	f.expression = parsed
	return nil
}

// SetResolution replaces the sampling step.
func (f *Function) SetResolution(resolution float64) error {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return &ValidationError{Field: "resolution", Value: resolution, Reason: "must be a positive finite number"}
	}
	f.resolution = resolution
	return nil
}

// SetDomain replaces the sampling interval.
func (f *Function) SetDomain(startX, endX float64) error {
	if err := validateDomain(startX, endX); err != nil {
		return err
	}
	f.startX, f.endX = startX, endX
	return nil
}

// Evaluate samples the function for a pulse of the given duration. A
// resolution of zero selects the function's own resolution. The result has
// floor(duration/resolution) samples.
func (f *Function) Evaluate(duration, resolution float64) ([]float64, error) {
	if resolution == 0 {
		resolution = f.resolution
	}
	n, err := sampleCount(duration, resolution)
	if err != nil {
		return nil, err
	}

	bound := f.expression.Substitute(f.bindings())
	if bound.IsConstant() {
		c, err := bound.Constant()
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", f.name, err)
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = c
		}
		return out, nil
	}

	sampler, err := bound.Compile(Variable)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", f.name, err)
	}
	return sampler(linspace(f.startX, f.endX, n)), nil
}

// TimePoints returns the sample instants of a pulse of the given duration,
// evenly spaced over [0, duration].
func (f *Function) TimePoints(duration float64) ([]float64, error) {
	n, err := sampleCount(duration, f.resolution)
	if err != nil {
		return nil, err
	}
	return linspace(0, duration, n), nil
}

// Clone returns a deep copy. Parsed expressions are immutable and shared.
func (f *Function) Clone() *Function {
	c := *f
	c.parameters = make([]*Parameter, len(f.parameters))
	for i, p := range f.parameters {
		c.parameters[i] = p.clone()
	}
	return &c
}

func (f *Function) bindings() map[string]float64 {
	b := make(map[string]float64, len(f.parameters))
	for _, p := range f.parameters {
		b[p.Symbol] = p.Value
	}
	return b
}

// parseFor parses text and checks that it only references Variable and the
// symbols of params.
func parseFor(text string, params []*Parameter) (*expr.Expression, error) {
	parsed, err := expr.Parse(text)
	if err != nil {
		return nil, err
	}
	known := map[string]struct{}{Variable: {}}
	for _, p := range params {
		known[p.Symbol] = struct{}{}
	}
	for _, sym := range parsed.Symbols() {
		if _, ok := known[sym]; !ok {
			return nil, &expr.Error{Text: parsed.String(), Reason: fmt.Sprintf("symbol %q is neither %q nor a parameter", sym, Variable)}
		}
	}
	return parsed, nil
}

func validateDomain(startX, endX float64) error {
	if math.IsNaN(startX) || math.IsNaN(endX) || math.IsInf(startX, 0) || math.IsInf(endX, 0) {
		return &ValidationError{Field: "domain", Value: [2]float64{startX, endX}, Reason: "bounds must be finite"}
	}
	if !(startX < endX) {
		return &ValidationError{Field: "domain", Value: [2]float64{startX, endX}, Reason: "start_x must be less than end_x"}
	}
	return nil
}

func validateSymbol(symbol string) error {
	switch {
	case !hclsyntax.ValidIdentifier(symbol):
		return &ValidationError{Field: "symbol", Value: symbol, Reason: "not a valid identifier"}
	case symbol == Variable:
		return &ValidationError{Field: "symbol", Value: symbol, Reason: "reserved for the sampling variable"}
	case expr.IsReserved(symbol):
		return &ValidationError{Field: "symbol", Value: symbol, Reason: "reserved by a builtin"}
	}
	return nil
}

func sampleCount(duration, resolution float64) (int, error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return 0, &ValidationError{Field: "resolution", Value: resolution, Reason: "must be a positive finite number"}
	}
	if !(duration >= 0) || math.IsInf(duration, 0) {
		return 0, &ValidationError{Field: "duration", Value: duration, Reason: "must be a non-negative finite number"}
	}
	n := math.Floor(duration / resolution)
	if math.IsInf(n, 0) || n > MaxSamples {
		return 0, &ValidationError{
			Field:  "resolution",
			Value:  resolution,
			Reason: fmt.Sprintf("yields %g samples for duration %g, more than %d", n, duration, MaxSamples),
		}
	}
	return int(n), nil
}

// linspace mirrors numpy.linspace with the endpoint included.
func linspace(start, end float64, n int) []float64 {
	xs := make([]float64, n)
	switch n {
	case 0:
		return xs
	case 1:
		xs[0] = start
		return xs
	}
	step := (end - start) / float64(n-1)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	xs[n-1] = end
	return xs
}
