package preview

import (
	"bytes"
	"fmt"

	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/waveform"
)

// Sync copies option values from src onto the options of dst with the same
// event, parameter and option names, so listeners on dst see every change.
// Entries present on only one side are skipped. It returns the number of
// options that changed.
func Sync(dst, src *sequence.Sequence) (int, error) {
	changed := 0
	for _, se := range src.Events() {
		de, err := dst.Event(se.Name())
		if err != nil {
			continue
		}
		names := se.ParameterNames()
		for i, sp := range se.Parameters() {
			dp, err := de.Parameter(names[i])
			if err != nil || dp.Kind() != sp.Kind() {
				continue
			}
			for _, so := range sp.Options() {
				do, err := dp.OptionByName(so.Name())
				if err != nil || do.Type() != so.Type() {
					continue
				}
				same, err := sameValue(do, so)
				if err != nil {
					return changed, err
				}
				if same {
					continue
				}
				value := so.Value()
				if f, ok := value.(*waveform.Function); ok {
					value = f.Clone()
				}
				if err := do.SetValue(value); err != nil {
					return changed, fmt.Errorf("event %q parameter %q: %w", se.Name(), names[i], err)
				}
				changed++
			}
		}
	}
	return changed, nil
}

func sameValue(a, b pulse.Option) (bool, error) {
	ra, err := a.Record()
	if err != nil {
		return false, err
	}
	rb, err := b.Record()
	if err != nil {
		return false, err
	}
	return bytes.Equal(ra.Value, rb.Value), nil
}
