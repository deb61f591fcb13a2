package app

import "github.com/specialistvlad/pulseduck/internal/spectrometer"

const defaultProfile = spectrometer.LimeNQRName

// builtinProfiles is the definitive list of spectrometer profiles compiled
// into the binary. Profiles loaded from HCL take precedence by name.
var builtinProfiles = map[string]func() *spectrometer.Profile{
	spectrometer.LimeNQRName: spectrometer.LimeNQR,
}
