// Package repository defines persistence interfaces for the model editor.
//
// Model files are stored as Turtle documents keyed by namespace, version and
// file name, together with a content hash so unchanged saves are cheap to
// detect. Cell positions are stored per file so a reloaded browser restores
// the diagram exactly as the user left it.
//
// The sqlite subpackage provides the SQLite-backed implementation.
package repository
