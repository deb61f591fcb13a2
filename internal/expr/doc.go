// Package expr is the numeric evaluation backend for waveform formulas.
//
// Formulas are written in HCL expression syntax (for example
// `sin(x * l) / (x * l)` or `exp(-0.5 * pow((x - mu) / sigma, 2))`) and
// parsed with hclsyntax. Python's `**` is accepted and read as pow, so
// formulas saved by the Python plugin load unchanged. The package offers the four capabilities the
// waveform layer needs:
//
//   - Parse turns text into an Expression and rejects anything that is not
//     plain arithmetic over numbers, symbols and the builtin math functions.
//   - Substitute binds numeric values to symbols, returning a new Expression.
//   - IsConstant / Constant detect and fold an expression without free
//     symbols, with the same float64 arithmetic Compile uses.
//   - Compile lowers the residual one-variable expression into a float64
//     Sampler that is applied element-wise to an abscissa slice.
//
// EvalContext exposes the same builtins to other HCL attributes.
//
// Only `pi` is predefined. Every other identifier is a symbol that must be
// bound before the expression can be folded or compiled.
package expr
