// Package services defines the shared error taxonomy used across the sorter
// components.
//
// Sentinel markers classify failures so callers can decide between falling
// back, skipping a file, or aborting the run, and the Wrap helper stamps
// component/operation context onto every error in a consistent format.
package services
