// Package preview publishes the preview keys of a sequence's pulse
// parameters to an external rendering layer.
//
// The renderer only needs to know which icon to show per event and
// parameter, so the payloads carry names and keys, never sampled data.
// A Publisher sends a full snapshot on demand and, while watching, one
// message per parameter whose key changes.
package preview
