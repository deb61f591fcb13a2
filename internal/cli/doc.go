// Package cli is responsible for the command-line surface: it defines the
// pulseduck command tree, turns global flags into an app.Config and maps
// failures to exit codes.
package cli
