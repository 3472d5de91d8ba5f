package models

// Article is the raw unit of news as delivered upstream.
// PublishedAt is kept verbatim; parsing happens at ranking time.
type Article struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	PublishedAt string  `json:"published_at"`
	SymbolHint  *string `json:"symbol_hint,omitempty"`
}

// LinkedArticle is an Article resolved to a symbol.
// Symbol is nil when neither matching nor the hint produced one.
type LinkedArticle struct {
	Article
	Symbol *string `json:"symbol"`
	Hits   int     `json:"hits"`
}

// SymbolOrEmpty returns the linked symbol or "".
func (a LinkedArticle) SymbolOrEmpty() string {
	if a.Symbol == nil {
		return ""
	}
	return *a.Symbol
}

// RankedArticle is a LinkedArticle with its relevance score.
type RankedArticle struct {
	LinkedArticle
	Score float64 `json:"score"`
}

// String returns a pointer to s, or nil for empty input.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
