// Package paths resolves where astutus keeps its user-local files.
//
// Configuration (settings, alias table, label rule table) lives under the
// XDG config directory, the on-disk classification cache under the XDG
// cache directory and the log file under the XDG state directory. Each
// location can be overridden through an ASTUTUS_*_DIR environment variable.
package paths
