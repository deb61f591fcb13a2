package hcl_adapter

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/expr"
	"github.com/zclconf/go-cty/cty"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with non-nil,
// zero-width expression objects, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// durationUnits are the variables duration expressions may scale by, for
// example `duration = 10 * us`.
var durationUnits = map[string]cty.Value{
	"s":  cty.NumberFloatVal(1),
	"ms": cty.NumberFloatVal(1e-3),
	"us": cty.NumberFloatVal(1e-6),
	"ns": cty.NumberFloatVal(1e-9),
}

// durationEvalContext also offers the formula builtins, for example
// `duration = 2 * pi * us`.
func durationEvalContext() *hcl.EvalContext {
	return expr.EvalContext(durationUnits)
}
