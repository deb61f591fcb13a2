package spectrometer

import (
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/zclconf/go-cty/cty"
)

// LimeNQRName names the built-in profile.
const LimeNQRName = "LimeNQR"

// Setting categories of the built-in profile.
const (
	CategoryAcquisition = "Acquisition"
	CategoryRX          = "RX"
	CategoryTX          = "TX"
	CategoryGate        = "Gate"
)

func ptr(f float64) *float64 { return &f }

// LimeNQR returns a fresh instance of the built-in LimeSDR based profile
// with its TX, RX and TX Gate parameters.
func LimeNQR() *Profile {
	specs := []SettingSpec{
		{Name: "Frequency", Category: CategoryAcquisition, Description: "Experiment frequency in Hz.", Kind: KindFloat, Default: cty.NumberFloatVal(100e6), Min: ptr(0), Max: ptr(3.8e9)},
		{Name: "Averages", Category: CategoryAcquisition, Description: "Number of averages.", Kind: KindInt, Default: cty.NumberIntVal(100), Min: ptr(1)},
		{Name: "Sampling Frequency", Category: CategoryAcquisition, Description: "Sampling rate in Hz.", Kind: KindFloat, Default: cty.NumberFloatVal(30.72e6), Min: ptr(0)},
		{Name: "IF Frequency", Category: CategoryAcquisition, Description: "Intermediate frequency in Hz.", Kind: KindFloat, Default: cty.NumberFloatVal(1.2e6), Min: ptr(0)},
		{Name: "Acquisition Time", Category: CategoryAcquisition, Description: "Readout window in seconds.", Kind: KindFloat, Default: cty.NumberFloatVal(82e-6), Min: ptr(0)},
		{Name: "RX Gain", Category: CategoryRX, Description: "Receiver gain in dB.", Kind: KindInt, Default: cty.NumberIntVal(55), Min: ptr(0), Max: ptr(73)},
		{Name: "RX Channel", Category: CategoryRX, Description: "Receiver channel.", Kind: KindInt, Default: cty.NumberIntVal(0), Min: ptr(0), Max: ptr(1)},
		{Name: "RX LPF BW", Category: CategoryRX, Description: "Receiver low-pass bandwidth in Hz.", Kind: KindFloat, Default: cty.NumberFloatVal(30.72e6 / 2), Min: ptr(0)},
		{Name: "TX Gain", Category: CategoryTX, Description: "Transmitter gain in dB.", Kind: KindInt, Default: cty.NumberIntVal(30), Min: ptr(0), Max: ptr(73)},
		{Name: "TX Channel", Category: CategoryTX, Description: "Transmitter channel.", Kind: KindInt, Default: cty.NumberIntVal(0), Min: ptr(0), Max: ptr(1)},
		{Name: "TX LPF BW", Category: CategoryTX, Description: "Transmitter low-pass bandwidth in Hz.", Kind: KindFloat, Default: cty.NumberFloatVal(130e6), Min: ptr(0)},
		{Name: "Enable", Category: CategoryGate, Description: "Drive the gate line during TX.", Kind: KindBool, Default: cty.True},
		{Name: "Gate Port", Category: CategoryGate, Description: "GPIO port of the gate line.", Kind: KindSelection, Default: cty.StringVal("GPIO1"), Options: []string{"GPIO1", "GPIO2"}},
	}

	settings := make([]*Setting, 0, len(specs))
	for _, spec := range specs {
		s, err := NewSetting(spec)
		if err != nil {
			panic(err)
		}
		settings = append(settings, s)
	}

	p, err := NewProfile(LimeNQRName, []ParameterSpec{
		{Name: "TX", Kind: pulse.KindTXPulse},
		{Name: "RX", Kind: pulse.KindRXReadout},
		{Name: "TX Gate", Kind: pulse.KindGate},
	}, settings)
	if err != nil {
		panic(err)
	}
	return p
}
