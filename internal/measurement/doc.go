// Package measurement holds the time-domain result of one acquisition: the
// sample times, the complex signal, and the frequencies the spectrometer was
// tuned to. Records round-trip through JSON with complex values written as
// [re, im] pairs.
package measurement
