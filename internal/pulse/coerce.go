// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pulse

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// toCty lifts a loosely typed Go value into cty so that option coercion
// follows the same conversion rules as values authored in HCL.
func toCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NilVal, errors.New("value is null")
	case cty.Value:
		return x, nil
	case bool:
		return cty.BoolVal(x), nil
	case string:
		return cty.StringVal(x), nil
	case json.Number:
		return cty.ParseNumberVal(x.String())
	case float64:
		if math.IsNaN(x) {
			return cty.NilVal, errors.New("value is NaN")
		}
		return cty.NumberFloatVal(x), nil
	case float32:
		return toCty(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return gocty.ToCtyValue(x, cty.Number)
	default:
		return cty.NilVal, fmt.Errorf("unsupported value type %T", v)
	}
}

func coerceNumber(v any) (float64, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	cv, err := toCty(v)
	if err != nil {
		return 0, err
	}
	if cv.IsNull() || !cv.IsKnown() {
		return 0, errors.New("value is null")
	}
	if cv.Type() == cty.Bool {
		return 0, errors.New("expected a number, got bool")
	}
	num, err := convert.Convert(cv, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("expected a number: %w", err)
	}
	f, _ := num.AsBigFloat().Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errors.New("value is not finite")
	}
	return f, nil
}

func coerceBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, fmt.Errorf("expected a boolean, got %q", x)
		}
		return b, nil
	case cty.Value:
		if x.IsNull() || !x.IsKnown() {
			return false, errors.New("value is null")
		}
		switch x.Type() {
		case cty.Bool:
			return x.True(), nil
		case cty.String:
			return coerceBool(x.AsString())
		case cty.Number:
			f, _ := x.AsBigFloat().Float64()
			return f != 0, nil
		}
		return false, fmt.Errorf("expected a boolean, got %s", x.Type().FriendlyName())
	}
	f, err := coerceNumber(v)
	if err != nil {
		return false, fmt.Errorf("expected a boolean: %w", err)
	}
	return f != 0, nil
}
