// Package manifest records completed moves in a SQLite journal so a run can
// be audited after the fact.
package manifest
