package news

import (
	"testing"

	"FinSignal/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aliasTable(t *testing.T) *models.AliasTable {
	t.Helper()
	tbl, err := models.NewAliasTable([]models.AliasEntry{
		{Symbol: "AAPL", Aliases: []string{"Apple", "iPhone"}},
		{Symbol: "MSFT", Aliases: []string{"Microsoft", "Azure"}},
		{Symbol: "GOOGL", Aliases: []string{"Google", "Alphabet"}},
	})
	require.NoError(t, err)
	return tbl
}

func TestLinkOne(t *testing.T) {
	tests := []struct {
		name    string
		article models.Article
		symbol  *string
		hits    int
	}{
		{
			name:    "alias in title",
			article: models.Article{Title: "Apple unveils new iPhone", Description: "Shares rise"},
			symbol:  models.String("AAPL"),
			hits:    2,
		},
		{
			name:    "case insensitive",
			article: models.Article{Title: "MICROSOFT beats estimates", Description: "azure growth"},
			symbol:  models.String("MSFT"),
			hits:    2,
		},
		{
			name:    "whole word only",
			article: models.Article{Title: "Pineapple harvest", Description: "Googled results"},
			symbol:  nil,
			hits:    0,
		},
		{
			name:    "no match falls back to hint",
			article: models.Article{Title: "Markets drift", Description: "quiet session", SymbolHint: models.String("TSLA")},
			symbol:  models.String("TSLA"),
			hits:    0,
		},
		{
			name:    "highest count wins over hint",
			article: models.Article{Title: "Alphabet and Google cloud", Description: "Apple mentioned once", SymbolHint: models.String("AAPL")},
			symbol:  models.String("GOOGL"),
			hits:    2,
		},
		{
			name:    "unknown hint matched literally",
			article: models.Article{Title: "NVDA rallies", Description: "chips", SymbolHint: models.String("NVDA")},
			symbol:  models.String("NVDA"),
			hits:    1,
		},
		{
			name:    "missing description",
			article: models.Article{Title: "Azure outage"},
			symbol:  models.String("MSFT"),
			hits:    1,
		},
	}

	l := NewLinker(aliasTable(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.LinkOne(tt.article)
			assert.Equal(t, tt.symbol, got.Symbol)
			assert.Equal(t, tt.hits, got.Hits)
			assert.Equal(t, tt.article, got.Article)
		})
	}
}

func TestLinkTieBreakFollowsTableOrder(t *testing.T) {
	l := NewLinker(aliasTable(t))

	got := l.LinkOne(models.Article{Title: "Microsoft and Apple sign deal"})
	require.NotNil(t, got.Symbol)
	assert.Equal(t, "AAPL", *got.Symbol)
	assert.Equal(t, 1, got.Hits)

	// reordering the table flips the winner
	tbl, err := models.NewAliasTable([]models.AliasEntry{
		{Symbol: "MSFT", Aliases: []string{"Microsoft"}},
		{Symbol: "AAPL", Aliases: []string{"Apple"}},
	})
	require.NoError(t, err)
	got = NewLinker(tbl).LinkOne(models.Article{Title: "Microsoft and Apple sign deal"})
	assert.Equal(t, "MSFT", *got.Symbol)
}

func TestLinkHintWinsTieWhenNotAKey(t *testing.T) {
	l := NewLinker(aliasTable(t))
	got := l.LinkOne(models.Article{Title: "AMZN and Apple", SymbolHint: models.String("AMZN")})
	assert.Equal(t, "AMZN", *got.Symbol)
	assert.Equal(t, 1, got.Hits)
}

func TestLinkHintThatIsAKeyKeepsTablePosition(t *testing.T) {
	l := NewLinker(aliasTable(t))
	got := l.LinkOne(models.Article{Title: "Apple versus Google", SymbolHint: models.String("GOOGL")})
	assert.Equal(t, "AAPL", *got.Symbol)
}

func TestLinkDropsEmptyArticles(t *testing.T) {
	l := NewLinker(aliasTable(t))
	out, dropped, err := l.LinkWithStats([]models.Article{
		{Title: "Apple"},
		{Title: "  ", URL: "https://example.com"},
		{Description: "Google search"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, out, 2)
	assert.Equal(t, "AAPL", *out[0].Symbol)
	assert.Equal(t, "GOOGL", *out[1].Symbol)
}

func TestLinkWithoutAliasTable(t *testing.T) {
	_, err := NewLinker(nil).Link([]models.Article{{Title: "x"}})
	assert.ErrorIs(t, err, ErrAliasTableMissing)
}

func TestLinkNonASCIIAliases(t *testing.T) {
	tbl, err := models.NewAliasTable([]models.AliasEntry{
		{Symbol: "005930.KS", Aliases: []string{"삼성전자"}},
		{Symbol: "NESN", Aliases: []string{"Nestlé"}},
	})
	require.NoError(t, err)
	l := NewLinker(tbl)

	tests := []struct {
		title  string
		symbol *string
		hits   int
	}{
		{"삼성전자 주가 급등", models.String("005930.KS"), 1},
		{"Nestlé shares fall", models.String("NESN"), 1},
		{"NESTLÉ outlook cut", models.String("NESN"), 1},
		{"Nestléville fair", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := l.LinkOne(models.Article{Title: tt.title})
			assert.Equal(t, tt.symbol, got.Symbol)
			assert.Equal(t, tt.hits, got.Hits)
		})
	}
}

func TestLinkHintIsCaseInsensitive(t *testing.T) {
	l := NewLinker(aliasTable(t))

	got := l.LinkOne(models.Article{Title: "AAPL beats estimates", SymbolHint: models.String("aapl")})
	require.NotNil(t, got.Symbol)
	assert.Equal(t, "AAPL", *got.Symbol)
	assert.Equal(t, 1, got.Hits)

	got = l.LinkOne(models.Article{Title: "Markets drift", SymbolHint: models.String(" tsla ")})
	require.NotNil(t, got.Symbol)
	assert.Equal(t, "TSLA", *got.Symbol)
	assert.Equal(t, 0, got.Hits)
}

func TestAliasTableUpperCasesSymbols(t *testing.T) {
	tbl, err := models.NewAliasTable([]models.AliasEntry{{Symbol: " aapl ", Aliases: []string{"Apple"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, tbl.Symbols())
	assert.True(t, tbl.Has("aapl"))
	assert.Equal(t, 1, tbl.CountHits("Aapl", "Apple event"))
}
