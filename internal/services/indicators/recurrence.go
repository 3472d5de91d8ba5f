package indicators

import "math"

// SMA returns the trailing simple moving average for every index.
// Entries are nil until n observations exist.
func SMA(closes []float64, n int) []*float64 {
	out := make([]*float64, len(closes))
	if n <= 0 {
		return out
	}
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= n {
			sum -= closes[i-n]
		}
		if i+1 >= n {
			v := sum / float64(n)
			out[i] = &v
		}
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1),
// seeded by the first close. There is no minimum period.
func EMA(closes []float64, span int) []*float64 {
	out := make([]*float64, len(closes))
	if span <= 0 || len(closes) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1)
	prev := closes[0]
	for i, c := range closes {
		if i > 0 {
			prev = alpha*c + (1-alpha)*prev
		}
		v := prev
		out[i] = &v
	}
	return out
}

// RSI returns the Wilder-style relative strength index for every index.
// Gains and losses are smoothed with alpha = 1/period starting at the first
// delta; values are nil until period deltas have been observed.
func RSI(closes []float64, period int) []*float64 {
	out := make([]*float64, len(closes))
	if period <= 0 || len(closes) < 2 {
		return out
	}
	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = alpha*gain + (1-alpha)*avgGain
			avgLoss = alpha*loss + (1-alpha)*avgLoss
		}
		if i < period {
			continue
		}
		v := rsiFrom(avgGain, avgLoss)
		out[i] = &v
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	v := 100 - 100/(1+rs)
	// clamp float noise
	return math.Min(100, math.Max(0, v))
}

// Diff returns a-b where both are defined, nil otherwise.
func Diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	v := *a - *b
	return &v
}

func last(xs []*float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	return xs[len(xs)-1]
}
