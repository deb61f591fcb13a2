// Package app wires the pulse sequence packages into a runnable
// application: configuration, logging, the active spectrometer profile,
// sequence file loading and the sequence library. It is decoupled from any
// specific entrypoint like a CLI.
package app
