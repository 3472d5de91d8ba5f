// Package news links raw articles to symbols and ranks them by relevance.
package news

import (
	"errors"
	"strings"

	"FinSignal/internal/domain/models"
)

// ErrAliasTableMissing is returned when linking is attempted without a table.
// Callers should treat it as a configuration error.
var ErrAliasTableMissing = errors.New("news: alias table missing")

// Linker resolves each article to its best-matching symbol.
type Linker struct {
	aliases *models.AliasTable
}

func NewLinker(aliases *models.AliasTable) *Linker { return &Linker{aliases: aliases} }

// Link resolves every usable article and returns them in input order.
// Articles with neither title nor description are dropped.
func (l *Linker) Link(articles []models.Article) ([]models.LinkedArticle, error) {
	out, _, err := l.LinkWithStats(articles)
	return out, err
}

// LinkWithStats is Link plus the number of dropped articles.
func (l *Linker) LinkWithStats(articles []models.Article) ([]models.LinkedArticle, int, error) {
	if l == nil || l.aliases == nil {
		return nil, 0, ErrAliasTableMissing
	}
	out := make([]models.LinkedArticle, 0, len(articles))
	dropped := 0
	for _, a := range articles {
		if strings.TrimSpace(a.Title) == "" && strings.TrimSpace(a.Description) == "" {
			dropped++
			continue
		}
		out = append(out, l.LinkOne(a))
	}
	return out, dropped, nil
}

// LinkOne scores every candidate against title + " " + description.
// The hint, when it is not a table key, is tried first so it wins ties.
// Table keys follow in declaration order. Without any hit the hint is kept
// as the symbol with zero hits.
func (l *Linker) LinkOne(a models.Article) models.LinkedArticle {
	text := a.Title + " " + a.Description
	hint := normalizeHint(a.SymbolHint)

	best, bestHits := "", 0
	if hint != "" && !l.aliases.Has(hint) {
		if n := countHintHits(hint, text); n > bestHits {
			best, bestHits = hint, n
		}
	}
	for _, sym := range l.aliases.Symbols() {
		if n := l.aliases.CountHits(sym, text); n > bestHits {
			best, bestHits = sym, n
		}
	}

	linked := models.LinkedArticle{Article: a}
	if bestHits > 0 {
		linked.Symbol = models.String(best)
		linked.Hits = bestHits
		return linked
	}
	linked.Symbol = models.String(hint)
	return linked
}

// normalizeHint puts the hint in the same canonical form as table keys and
// ingested prices so linked news joins its signal.
func normalizeHint(h *string) string {
	if h == nil {
		return ""
	}
	return models.NormalizeSymbol(*h)
}

// countHintHits matches a symbol that has no alias entry against text.
func countHintHits(sym, text string) int {
	re, err := models.CompileTerm(sym)
	if err != nil || !re.MatchString(text) {
		return 0
	}
	return 1
}
