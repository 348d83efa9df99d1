package indicators

import "math"

// RSI returns Wilder's relative strength index of values over period samples
func RSI(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 {
		return out
	}
	start := firstValid(values)
	if start < 0 || len(values)-start <= period {
		return out
	}
	if !windowValid(values, start, start+period) {
		return out
	}
	var gain, loss float64
	for i := start + 1; i <= start+period; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[start+period] = rsiValue(avgGain, avgLoss)
	for i := start + period + 1; i < len(values); i++ {
		if math.IsNaN(values[i]) {
			return out
		}
		delta := values[i] - values[i-1]
		var up, down float64
		if delta > 0 {
			up = delta
		} else {
			down = -delta
		}
		avgGain = (avgGain*float64(period-1) + up) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + down) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// Stochastic returns the %K and %D lines of the stochastic oscillator
func Stochastic(high, low, cl []float64, kPeriod, dPeriod int) (k, d []float64) {
	k = nans(len(cl))
	d = nans(len(cl))
	if kPeriod <= 0 || kPeriod > len(cl) || len(high) != len(cl) || len(low) != len(cl) {
		return k, d
	}
	hh := Highest(high, kPeriod)
	ll := Lowest(low, kPeriod)
	for i := range cl {
		if !Valid(hh[i]) || !Valid(ll[i]) || !Valid(cl[i]) {
			continue
		}
		span := hh[i] - ll[i]
		if span == 0 {
			continue
		}
		k[i] = (cl[i] - ll[i]) / span * 100
	}
	d = SMA(k, dPeriod)
	return k, d
}

// CCI returns the commodity channel index over period samples
func CCI(high, low, cl []float64, period int) []float64 {
	out := nans(len(cl))
	if period <= 0 || period > len(cl) || len(high) != len(cl) || len(low) != len(cl) {
		return out
	}
	tp := make([]float64, len(cl))
	for i := range cl {
		tp[i] = (high[i] + low[i] + cl[i]) / 3
	}
	ma := SMA(tp, period)
	for i := period - 1; i < len(cl); i++ {
		if !Valid(ma[i]) || !windowValid(tp, i-period+1, i) {
			continue
		}
		var dev float64
		for j := i - period + 1; j <= i; j++ {
			dev += math.Abs(tp[j] - ma[i])
		}
		dev /= float64(period)
		if dev == 0 {
			continue
		}
		out[i] = (tp[i] - ma[i]) / (0.015 * dev)
	}
	return out
}

// MFI returns the money flow index over period samples
func MFI(high, low, cl, volume []float64, period int) []float64 {
	out := nans(len(cl))
	if period <= 0 || period >= len(cl) ||
		len(high) != len(cl) || len(low) != len(cl) || len(volume) != len(cl) {
		return out
	}
	tp := make([]float64, len(cl))
	for i := range cl {
		tp[i] = (high[i] + low[i] + cl[i]) / 3
	}
	for i := period; i < len(cl); i++ {
		var pos, neg float64
		undefined := false
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(tp[j]) || math.IsNaN(tp[j-1]) || math.IsNaN(volume[j]) {
				undefined = true
				break
			}
			flow := tp[j] * volume[j]
			switch {
			case tp[j] > tp[j-1]:
				pos += flow
			case tp[j] < tp[j-1]:
				neg += flow
			}
		}
		if undefined {
			continue
		}
		if neg == 0 {
			out[i] = 100
			continue
		}
		out[i] = 100 - 100/(1+pos/neg)
	}
	return out
}

// WilliamsR returns Williams %R over period samples, scaled -100..0
func WilliamsR(high, low, cl []float64, period int) []float64 {
	out := nans(len(cl))
	if period <= 0 || period > len(cl) || len(high) != len(cl) || len(low) != len(cl) {
		return out
	}
	hh := Highest(high, period)
	ll := Lowest(low, period)
	for i := range cl {
		if !Valid(hh[i]) || !Valid(ll[i]) || !Valid(cl[i]) {
			continue
		}
		span := hh[i] - ll[i]
		if span == 0 {
			continue
		}
		out[i] = (hh[i] - cl[i]) / span * -100
	}
	return out
}
