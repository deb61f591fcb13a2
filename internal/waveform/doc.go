// Package waveform models symbolic pulse envelopes: a formula in x with
// named numeric parameters, sampled over a normalized domain and stretched
// to a pulse duration at a given resolution.
package waveform
