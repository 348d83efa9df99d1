package indicators

import "math"

// TrueRange returns the per-bar true range; the first bar has no prior close
// and is undefined
func TrueRange(high, low, cl []float64) []float64 {
	out := nans(len(cl))
	if len(high) != len(cl) || len(low) != len(cl) {
		return out
	}
	for i := 1; i < len(cl); i++ {
		if math.IsNaN(high[i]) || math.IsNaN(low[i]) || math.IsNaN(cl[i-1]) {
			continue
		}
		out[i] = trueRange(high[i], low[i], cl[i-1])
	}
	return out
}

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if d := math.Abs(high - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// ATR returns Wilder's average true range over period samples
func ATR(high, low, cl []float64, period int) []float64 {
	out := nans(len(cl))
	if period <= 0 || len(high) != len(cl) || len(low) != len(cl) || len(cl) <= period {
		return out
	}
	tr := TrueRange(high, low, cl)
	var sum float64
	for i := 1; i <= period; i++ {
		if math.IsNaN(tr[i]) {
			return out
		}
		sum += tr[i]
	}
	prev := sum / float64(period)
	out[period] = prev
	for i := period + 1; i < len(cl); i++ {
		if math.IsNaN(tr[i]) {
			return out
		}
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = prev
	}
	return out
}

// BollingerBands returns the upper, middle and lower bands around a simple
// moving average, offset by mult rolling standard deviations
func BollingerBands(values []float64, period int, mult float64) (upper, middle, lower []float64) {
	middle = SMA(values, period)
	dev := StdDev(values, period)
	upper = nans(len(values))
	lower = nans(len(values))
	for i := range values {
		if !Valid(middle[i]) || !Valid(dev[i]) {
			continue
		}
		upper[i] = middle[i] + mult*dev[i]
		lower[i] = middle[i] - mult*dev[i]
	}
	return upper, middle, lower
}

// KeltnerChannels returns the upper, middle and lower channel lines: an EMA
// of the typical price offset by mult average true ranges
func KeltnerChannels(high, low, cl []float64, period int, mult float64) (upper, middle, lower []float64) {
	upper = nans(len(cl))
	lower = nans(len(cl))
	middle = nans(len(cl))
	if len(high) != len(cl) || len(low) != len(cl) {
		return upper, middle, lower
	}
	tp := make([]float64, len(cl))
	for i := range cl {
		tp[i] = (high[i] + low[i] + cl[i]) / 3
	}
	middle = EMA(tp, period)
	atr := ATR(high, low, cl, period)
	for i := range cl {
		if !Valid(middle[i]) || !Valid(atr[i]) {
			continue
		}
		upper[i] = middle[i] + mult*atr[i]
		lower[i] = middle[i] - mult*atr[i]
	}
	return upper, middle, lower
}
