// Package app wires configuration, telemetry, the earnings pipeline and the
// workbook sweep into one run.
//
// A run opens the input workbook, optionally exposes status endpoints,
// processes every unfilled ticker cell and saves the result to the output
// path. The output is saved even when the run is cancelled, so completed
// cells are never lost.
package app
