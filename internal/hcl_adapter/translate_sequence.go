package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/zclconf/go-cty/cty"
)

func (l *Loader) translateSequence(ctx context.Context, block *SequenceBlock, registry pulse.Registry) (*sequence.Sequence, error) {
	logger := ctxlog.FromContext(ctx).With("sequence", block.Name)
	logger.Debug("Translating sequence block.", "events", len(block.Events))

	s := sequence.New(block.Name)
	for _, eb := range block.Events {
		e, err := l.translateEvent(ctx, eb, registry)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", block.Name, err)
		}
		if err := s.AddEvent(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (l *Loader) translateEvent(ctx context.Context, block *EventBlock, registry pulse.Registry) (*sequence.Event, error) {
	val, diags := block.Duration.Value(durationEvalContext())
	if diags.HasErrors() {
		return nil, fmt.Errorf("event %q: invalid duration: %w", block.Name, diags)
	}
	if val.IsNull() || !val.Type().Equals(cty.Number) {
		return nil, fmt.Errorf("event %q: duration at %s must be a number", block.Name, block.Duration.Range())
	}
	duration, _ := val.AsBigFloat().Float64()

	e, err := sequence.NewEvent(block.Name, duration)
	if err != nil {
		return nil, err
	}

	for _, pb := range block.Parameters {
		p, err := registry.New(pb.Name)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", block.Name, err)
		}
		for _, ob := range pb.Options {
			if err := l.applyOption(ctx, p, ob); err != nil {
				return nil, fmt.Errorf("event %q, parameter %q: %w", block.Name, pb.Name, err)
			}
		}
		if err := e.AddParameter(pb.Name, p); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (l *Loader) applyOption(ctx context.Context, p pulse.PulseParameter, block *OptionBlock) error {
	o, err := p.OptionByName(block.Name)
	if err != nil {
		return err
	}

	fo, isFunction := o.(*pulse.FunctionOption)
	if !isFunction {
		if block.Function != nil || block.Expression != nil || isExprDefined(ctx, block.Parameters, "parameters") {
			return fmt.Errorf("option %q is %s, only `value` applies", block.Name, o.Type())
		}
		if !isExprDefined(ctx, block.Value, "value") {
			return fmt.Errorf("option %q: missing `value`", block.Name)
		}
		v, diags := block.Value.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("option %q: %w", block.Name, diags)
		}
		return o.SetValue(v)
	}

	if isExprDefined(ctx, block.Value, "value") {
		return fmt.Errorf("option %q is a function option, use `function`", block.Name)
	}
	if block.Function != nil {
		if err := fo.Select(*block.Function); err != nil {
			return err
		}
	}
	f := fo.Function()

	if isExprDefined(ctx, block.Parameters, "parameters") {
		val, diags := block.Parameters.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("option %q: %w", block.Name, diags)
		}
		if val.IsNull() || !(val.Type().IsObjectType() || val.Type().IsMapType()) {
			return fmt.Errorf("option %q: `parameters` must be an object keyed by parameter symbol", block.Name)
		}
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			param, err := f.ParameterBySymbol(k.AsString())
			if err != nil {
				if param, err = f.ParameterByName(k.AsString()); err != nil {
					return err
				}
			}
			if v.IsNull() || !v.Type().Equals(cty.Number) {
				return fmt.Errorf("option %q: parameter %q must be a number", block.Name, k.AsString())
			}
			num, _ := v.AsBigFloat().Float64()
			if err := param.SetValue(num); err != nil {
				return err
			}
		}
	}

	if block.Expression != nil {
		if err := f.SetExpression(*block.Expression); err != nil {
			return fmt.Errorf("option %q: %w", block.Name, err)
		}
	}
	return nil
}
