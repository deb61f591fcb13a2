// Package spectrometer describes the instruments sequences are written for.
//
// A Profile names a spectrometer, declares which pulse parameters its events
// accept (and therefore the pulse.Registry sequences are loaded against) and
// carries its typed settings. Settings files are flat JSON objects that name
// the spectrometer they were saved from; loading one for another
// spectrometer is refused.
package spectrometer
