// Package naming derives destination paths for sorted media files and
// resolves filename collisions.
//
// The library layout is root/YYYY/YYYY-MM/, with filenames prefixed by the
// canonical capture timestamp "YYYY-MM-DD_HH.MM.SS". Derivation is pure and
// idempotent; collision resolution is the only part that touches the
// filesystem.
package naming
