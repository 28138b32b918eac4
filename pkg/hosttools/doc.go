// Package hosttools runs the host introspection commands (lspci, lsusb and
// ls) and parses their text output.
//
// Every run is bounded by a timeout. A non-zero exit, a start failure or a
// timeout becomes an EXTERNAL_COMMAND error carrying the exit code and the
// captured output; nothing is retried.
package hosttools
