package waveform

import "math"

// Names of the built-in shapes. They double as serialization tags.
const (
	Rectangular = "Rectangular"
	Sinc        = "Sinc"
	Gaussian    = "Gaussian"
	Custom      = "Custom"
)

// Constructor returns a fresh function with a shape's defaults.
type Constructor func() *Function

// shapeOrder is the order shapes are offered as choices.
var shapeOrder = []string{Rectangular, Sinc, Gaussian, Custom}

var shapes = map[string]Constructor{
	Rectangular: NewRectangular,
	Sinc:        NewSinc,
	Gaussian:    NewGaussian,
	Custom:      NewCustom,
}

// NewRectangular returns a constant envelope of amplitude 1.
func NewRectangular() *Function {
	return mustNew(Rectangular, "1", -1, 1)
}

// NewSinc returns sin(x·l)/(x·l) over [-π, π].
func NewSinc() *Function {
	return mustNew(Sinc, "sin(x * l) / (x * l)", -math.Pi, math.Pi,
		NewParameter("Scale Factor", "l", 2),
	)
}

// NewGaussian returns a normal bell over [-π, π].
func NewGaussian() *Function {
	return mustNew(Gaussian, "exp(-0.5 * pow((x - mu) / sigma, 2))", -math.Pi, math.Pi,
		NewParameter("Mean", "mu", 0),
		NewParameter("Standard Deviation", "sigma", 1),
	)
}

// NewCustom returns the user-editable shape over [-1, 1].
func NewCustom() *Function {
	return mustNew(Custom, "pow(x, 2)", -1, 1)
}

// Lookup returns the constructor registered under name.
func Lookup(name string) (Constructor, bool) {
	ctor, ok := shapes[name]
	return ctor, ok
}

// ShapeNames returns the registered shape names in choice order.
func ShapeNames() []string {
	return append([]string(nil), shapeOrder...)
}

// Shapes returns a fresh instance of every registered shape in choice order.
func Shapes() []*Function {
	out := make([]*Function, 0, len(shapeOrder))
	for _, name := range shapeOrder {
		out = append(out, shapes[name]())
	}
	return out
}

func mustNew(name, expression string, startX, endX float64, params ...*Parameter) *Function {
	f, err := New(name, expression, startX, endX, params...)
	if err != nil {
		panic(err)
	}
	return f
}
