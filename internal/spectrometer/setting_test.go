package spectrometer

import (
	"testing"

	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNewSetting_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		spec   SettingSpec
		target error
	}{
		{"empty name", SettingSpec{Kind: KindFloat, Default: cty.Zero}, pulse.ErrValidation},
		{"unknown kind", SettingSpec{Name: "X", Kind: "complex", Default: cty.Zero}, pulse.ErrUnregisteredType},
		{"missing default", SettingSpec{Name: "X", Kind: KindFloat}, pulse.ErrValidation},
		{"default out of range", SettingSpec{Name: "X", Kind: KindInt, Default: cty.NumberIntVal(5), Max: ptr(3)}, pulse.ErrValidation},
		{"inverted bounds", SettingSpec{Name: "X", Kind: KindFloat, Default: cty.Zero, Min: ptr(1), Max: ptr(0)}, pulse.ErrValidation},
		{"selection without options", SettingSpec{Name: "X", Kind: KindSelection, Default: cty.StringVal("a")}, pulse.ErrValidation},
		{"default not an option", SettingSpec{Name: "X", Kind: KindSelection, Default: cty.StringVal("c"), Options: []string{"a", "b"}}, pulse.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSetting(tc.spec)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

func TestSetting_SetValue(t *testing.T) {
	gain, err := NewSetting(SettingSpec{Name: "RX Gain", Kind: KindInt, Default: cty.NumberIntVal(55), Min: ptr(0), Max: ptr(73)})
	require.NoError(t, err)

	require.NoError(t, gain.SetString("60"))
	assert.Equal(t, int64(60), gain.GoValue())

	for _, bad := range []string{"74", "-1", "12.5", "loud"} {
		require.ErrorIs(t, gain.SetString(bad), pulse.ErrValidation, bad)
	}
	assert.Equal(t, int64(60), gain.GoValue(), "rejected values keep the old one")

	gain.Reset()
	assert.Equal(t, int64(55), gain.GoValue())
}

func TestSetting_Kinds(t *testing.T) {
	enable, err := NewSetting(SettingSpec{Name: "Enable", Kind: KindBool, Default: cty.False})
	require.NoError(t, err)
	require.NoError(t, enable.SetString("true"))
	assert.Equal(t, true, enable.GoValue())

	freq, err := NewSetting(SettingSpec{Name: "Frequency", Kind: KindFloat, Default: cty.NumberFloatVal(1e6)})
	require.NoError(t, err)
	require.NoError(t, freq.SetValue(cty.NumberFloatVal(83.56e6)))
	assert.Equal(t, 83.56e6, freq.GoValue())
	require.ErrorIs(t, freq.SetValue(cty.True), pulse.ErrValidation)

	host, err := NewSetting(SettingSpec{Name: "Host", Kind: KindIP, Default: cty.StringVal("127.0.0.1")})
	require.NoError(t, err)
	require.NoError(t, host.SetString("::1"))
	require.ErrorIs(t, host.SetString("localhost"), pulse.ErrValidation)
	assert.Equal(t, "::1", host.GoValue())

	port, err := NewSetting(SettingSpec{Name: "Gate Port", Kind: KindSelection, Default: cty.StringVal("GPIO1"), Options: []string{"GPIO1", "GPIO2"}})
	require.NoError(t, err)
	require.NoError(t, port.SetString("GPIO2"))
	require.ErrorIs(t, port.SetString("GPIO3"), pulse.ErrValidation)
	assert.Equal(t, []string{"GPIO1", "GPIO2"}, port.Options())
}
