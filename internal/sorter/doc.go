// Package sorter moves photos and videos into a dated library layout,
// deriving each file's destination from its capture time.
package sorter
