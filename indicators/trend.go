package indicators

import "math"

// MACD returns the moving average convergence divergence line, its signal
// line and the histogram between them
func MACD(values []float64, fast, slow, signal int) (macd, signalLine, histogram []float64) {
	macd = nans(len(values))
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return macd, nans(len(values)), nans(len(values))
	}
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)
	for i := range values {
		if !Valid(fastEMA[i]) || !Valid(slowEMA[i]) {
			continue
		}
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine = EMA(macd, signal)
	histogram = nans(len(values))
	for i := range values {
		if !Valid(macd[i]) || !Valid(signalLine[i]) {
			continue
		}
		histogram[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, histogram
}

// ADX returns Wilder's average directional index over period samples
func ADX(high, low, cl []float64, period int) []float64 {
	out := nans(len(cl))
	if period <= 0 || len(high) != len(cl) || len(low) != len(cl) || len(cl) < 2*period+1 {
		return out
	}
	n := len(cl)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
		tr[i] = trueRange(high[i], low[i], cl[i-1])
	}

	// Wilder smoothing of the directional components
	var smPlus, smMinus, smTR float64
	for i := 1; i <= period; i++ {
		smPlus += plusDM[i]
		smMinus += minusDM[i]
		smTR += tr[i]
	}
	dx := nans(n)
	dx[period] = dxValue(smPlus, smMinus, smTR)
	for i := period + 1; i < n; i++ {
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		smTR = smTR - smTR/float64(period) + tr[i]
		dx[i] = dxValue(smPlus, smMinus, smTR)
	}

	var sum float64
	for i := period; i < 2*period; i++ {
		if math.IsNaN(dx[i]) {
			return out
		}
		sum += dx[i]
	}
	prev := sum / float64(period)
	out[2*period-1] = prev
	for i := 2 * period; i < n; i++ {
		if math.IsNaN(dx[i]) {
			return out
		}
		prev = (prev*float64(period-1) + dx[i]) / float64(period)
		out[i] = prev
	}
	return out
}

func dxValue(plus, minus, tr float64) float64 {
	if tr == 0 {
		return math.NaN()
	}
	pDI := plus / tr * 100
	mDI := minus / tr * 100
	if pDI+mDI == 0 {
		return math.NaN()
	}
	return math.Abs(pDI-mDI) / (pDI + mDI) * 100
}

// SAR returns the parabolic stop-and-reverse sequence using the supplied
// acceleration step and maximum. The first bar has no prior extreme and is
// undefined
func SAR(high, low []float64, step, maximum float64) []float64 {
	out := nans(len(high))
	if len(high) != len(low) || len(high) < 2 || step <= 0 || maximum < step {
		return out
	}

	rising := high[1] >= high[0]
	af := step
	var sar, ep float64
	if rising {
		sar = low[0]
		ep = high[1]
	} else {
		sar = high[0]
		ep = low[1]
	}
	out[1] = sar

	for i := 2; i < len(high); i++ {
		sar += af * (ep - sar)
		if rising {
			if sar > low[i-1] {
				sar = low[i-1]
			}
			if low[i] < sar {
				rising = false
				sar = ep
				ep = low[i]
				af = step
			} else if high[i] > ep {
				ep = high[i]
				af = math.Min(af+step, maximum)
			}
		} else {
			if sar < high[i-1] {
				sar = high[i-1]
			}
			if high[i] > sar {
				rising = true
				sar = ep
				ep = high[i]
				af = step
			} else if low[i] < ep {
				ep = low[i]
				af = math.Min(af+step, maximum)
			}
		}
		out[i] = sar
	}
	return out
}
