// Package jsonstore keeps a small JSON document in a file.
//
// A missing file is seeded from packaged default bytes on first load.
// Saves are whole-file rewrites through a temporary file and a rename, so
// readers never see a half written document. Nothing coordinates writers
// in different processes: the last save wins.
//
// Watch reports changes made to the file by other processes.
package jsonstore
