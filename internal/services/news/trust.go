package news

import "strings"

// TrustTable weights article sources. Lookups are case-insensitive.
type TrustTable map[string]float64

// DefaultTrustTable is used when configuration does not supply one.
func DefaultTrustTable() TrustTable {
	return TrustTable{
		"reuters":                 1.0,
		"bloomberg":               1.0,
		"associated press":        0.9,
		"the wall street journal": 0.9,
		"financial times":         0.9,
		"cnbc":                    0.7,
		"marketwatch":             0.6,
		"barron's":                0.6,
		"yahoo finance":           0.5,
		"business insider":        0.4,
		"seeking alpha":           0.3,
		"benzinga":                0.3,
	}
}

// NewTrustTable normalizes keys of a configured table.
func NewTrustTable(weights map[string]float64) TrustTable {
	t := make(TrustTable, len(weights))
	for k, v := range weights {
		t[normalizeSource(k)] = v
	}
	return t
}

// Lookup returns the weight for source; unknown sources score 0.
func (t TrustTable) Lookup(source string) float64 {
	return t[normalizeSource(source)]
}

func normalizeSource(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
