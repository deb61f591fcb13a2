// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package sequence models a pulse sequence: an ordered timeline of named,
// timed events, each carrying named pulse parameters.
//
// Dump turns a sequence into the persisted record tree and Load rebuilds it
// against a pulse.Registry. Parameters whose name the registry does not know
// are skipped silently; the event was authored for another spectrometer.
// Parameters whose stored option layout no longer matches the registered
// kind are skipped too, but reported through a *PartialLoadError so the
// caller can tell the user what was lost.
package sequence
