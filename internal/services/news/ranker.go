package news

import (
	"math"
	"sort"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/pkg/util"

	"github.com/shopspring/decimal"
)

const (
	// RecencyFloor is the boost for stale or undated articles.
	RecencyFloor = 0.1
	recencyScale = 1.5
	hitWeight    = 1.0
	scorePlaces  = 3
)

// Ranker scores linked articles by hits, source trust and recency.
type Ranker struct {
	trust TrustTable
	now   func() time.Time
}

// RankerOption configures Ranker.
type RankerOption func(*Ranker)

// WithClock overrides the evaluation clock.
func WithClock(now func() time.Time) RankerOption {
	return func(r *Ranker) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRanker(trust TrustTable, opts ...RankerOption) *Ranker {
	if trust == nil {
		trust = TrustTable{}
	}
	r := &Ranker{trust: trust, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every article against a single evaluation instant and sorts
// descending by score. Ties keep input order.
func (r *Ranker) Rank(linked []models.LinkedArticle) []models.RankedArticle {
	now := r.now().UTC()
	out := make([]models.RankedArticle, len(linked))
	for i, a := range linked {
		out[i] = models.RankedArticle{LinkedArticle: a, Score: r.score(a, now)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (r *Ranker) score(a models.LinkedArticle, now time.Time) float64 {
	raw := float64(a.Hits)*hitWeight + r.trust.Lookup(a.Source) + RecencyBoost(a.PublishedAt, now)
	return Round(raw)
}

// RecencyBoost decays with the square root of the article age in hours.
// Ages under one hour count as one hour; unparsable timestamps get the floor.
func RecencyBoost(publishedAt string, now time.Time) float64 {
	t, ok := util.ParseTime(publishedAt)
	if !ok {
		return RecencyFloor
	}
	age := math.Max(1, util.HoursSince(t, now))
	return math.Max(RecencyFloor, recencyScale/math.Sqrt(age))
}

// Round rounds half away from zero to three decimal places.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(scorePlaces).Float64()
	return f
}
