// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package pulse defines the values attached to the events of a pulse
// sequence.
//
// An Option is a single typed value (Boolean, Numeric or Function). A
// PulseParameter bundles a fixed, ordered set of options describing one
// controllable aspect of an event, for example the transmit pulse with its
// amplitude, phase and shape. Concrete parameter kinds (TXPulse, RXReadout,
// Gate) fix their option layout at construction; a Registry maps the
// parameter names a spectrometer understands to the constructors of those
// kinds, and is what deserialization consults.
//
// Options are self-describing through a type tag. DecodeOption dispatches
// on that tag through an explicit codec table instead of discovering
// implementations at runtime.
package pulse
