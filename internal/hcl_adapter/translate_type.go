// This file turns the `kind` and `type` attributes of profile blocks into the
// identifiers the domain packages use. Both accept a bare keyword
// (`kind = tx_pulse`) or a string literal (`kind = "tx_pulse"`).

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// keywordOrString reads an identifier-like attribute.
func keywordOrString(ctx context.Context, expr hcl.Expression, attrName string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		logger.Debug("Parsed attribute as keyword.", "attribute", attrName, "keyword", kw)
		return kw, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s: %w", attrName, diags)
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return "", fmt.Errorf("%s at %s: expected a keyword or a string, got %s", attrName, expr.Range(), val.Type().FriendlyName())
	}
	logger.Debug("Parsed attribute as string.", "attribute", attrName, "value", val.AsString())
	return val.AsString(), nil
}
