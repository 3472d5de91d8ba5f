package models

import (
	"fmt"
	"regexp"
	"strings"
)

// AliasEntry maps a canonical symbol to alternate names used for text matching.
type AliasEntry struct {
	Symbol  string   `yaml:"symbol" json:"symbol"`
	Aliases []string `yaml:"aliases" json:"aliases"`
}

// AliasTable is the read-only symbol registry used by the news linker.
// Entries keep their declaration order; that order decides ties between symbols.
type AliasTable struct {
	entries []aliasMatcher
	index   map[string]int
}

type aliasMatcher struct {
	symbol string
	terms  []*regexp.Regexp
}

// NewAliasTable compiles entries into an immutable table. Symbols are
// upper-cased; later entries for an already declared symbol are merged into
// the first one.
func NewAliasTable(entries []AliasEntry) (*AliasTable, error) {
	t := &AliasTable{index: make(map[string]int, len(entries))}
	seen := make(map[string]map[string]bool, len(entries))
	for _, e := range entries {
		sym := NormalizeSymbol(e.Symbol)
		if sym == "" {
			return nil, fmt.Errorf("alias table: empty symbol")
		}
		pos, ok := t.index[sym]
		if !ok {
			pos = len(t.entries)
			t.index[sym] = pos
			t.entries = append(t.entries, aliasMatcher{symbol: sym})
			seen[sym] = map[string]bool{}
		}
		for _, term := range append([]string{sym}, e.Aliases...) {
			key := strings.ToLower(strings.TrimSpace(term))
			if key == "" || seen[sym][key] {
				continue
			}
			seen[sym][key] = true
			re, err := CompileTerm(term)
			if err != nil {
				return nil, fmt.Errorf("alias table: symbol %s: %w", sym, err)
			}
			t.entries[pos].terms = append(t.entries[pos].terms, re)
		}
	}
	return t, nil
}

// Word boundaries for any script. RE2's \b only knows ASCII word characters,
// so terms like "Nestlé" or Hangul names would never match with it.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// CompileTerm builds the case-insensitive whole-word matcher for one term.
func CompileTerm(term string) (*regexp.Regexp, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("empty term")
	}
	return regexp.Compile(`(?i)` + wordStart + regexp.QuoteMeta(term) + wordEnd)
}

// NormalizeSymbol is the canonical form of a ticker: trimmed, upper-case.
func NormalizeSymbol(sym string) string {
	return strings.ToUpper(strings.TrimSpace(sym))
}

// Symbols returns the table keys in declaration order.
func (t *AliasTable) Symbols() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.symbol
	}
	return out
}

// Has reports whether sym is a table key, ignoring case.
func (t *AliasTable) Has(sym string) bool {
	_, ok := t.index[NormalizeSymbol(sym)]
	return ok
}

// Len returns the number of symbols.
func (t *AliasTable) Len() int { return len(t.entries) }

// CountHits returns how many distinct terms of sym occur in text.
// Unknown symbols return 0.
func (t *AliasTable) CountHits(sym, text string) int {
	pos, ok := t.index[NormalizeSymbol(sym)]
	if !ok {
		return 0
	}
	hits := 0
	for _, re := range t.entries[pos].terms {
		if re.MatchString(text) {
			hits++
		}
	}
	return hits
}
