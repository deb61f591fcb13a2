package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/spectrometer"
)

func (l *Loader) translateProfile(ctx context.Context, block *SpectrometerBlock) (*spectrometer.Profile, error) {
	logger := ctxlog.FromContext(ctx).With("spectrometer", block.Name)
	logger.Debug("Translating spectrometer block.", "parameters", len(block.Parameters), "settings", len(block.Settings))

	params := make([]spectrometer.ParameterSpec, 0, len(block.Parameters))
	for _, pb := range block.Parameters {
		kind, err := keywordOrString(ctx, pb.Kind, "kind")
		if err != nil {
			return nil, fmt.Errorf("spectrometer %q, pulse parameter %q: %w", block.Name, pb.Name, err)
		}
		params = append(params, spectrometer.ParameterSpec{Name: pb.Name, Kind: kind})
	}

	settings := make([]*spectrometer.Setting, 0, len(block.Settings))
	for _, sb := range block.Settings {
		s, err := translateSetting(ctx, sb)
		if err != nil {
			return nil, fmt.Errorf("spectrometer %q, setting %q: %w", block.Name, sb.Name, err)
		}
		settings = append(settings, s)
	}

	return spectrometer.NewProfile(block.Name, params, settings)
}

func translateSetting(ctx context.Context, sb *SettingBlock) (*spectrometer.Setting, error) {
	kind, err := keywordOrString(ctx, sb.Type, "type")
	if err != nil {
		return nil, err
	}
	def, diags := sb.Default.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid default value: %w", diags)
	}
	return spectrometer.NewSetting(spectrometer.SettingSpec{
		Name:        sb.Name,
		Category:    sb.Category,
		Description: sb.Description,
		Kind:        kind,
		Default:     def,
		Min:         sb.Min,
		Max:         sb.Max,
		Options:     sb.Options,
	})
}
