package model

import "strings"

// Category labels items within a list scope, or sticky notes in the
// global scope of the local-only board.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

// NormalizeName returns the case-folded form used for duplicate checks.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
