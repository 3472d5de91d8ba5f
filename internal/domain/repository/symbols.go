package repository

import (
	"strings"

	"FinSignal/internal/domain/models"
)

// NormalizeSymbols splits a comma-separated list, trims and upper-cases entries,
// and drops empties and duplicates while keeping first-seen order.
func NormalizeSymbols(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		s := models.NormalizeSymbol(p)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
