// Package preflight validates the environment before a sorting run starts.
package preflight
