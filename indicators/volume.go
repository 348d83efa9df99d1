package indicators

import "math"

// OBV returns on-balance volume. There is no warm-up; the sequence starts at
// zero on the first bar
func OBV(cl, volume []float64) []float64 {
	out := nans(len(cl))
	if len(volume) != len(cl) || len(cl) == 0 {
		return out
	}
	if math.IsNaN(cl[0]) || math.IsNaN(volume[0]) {
		return out
	}
	out[0] = 0
	for i := 1; i < len(cl); i++ {
		if math.IsNaN(cl[i]) || math.IsNaN(volume[i]) {
			return out
		}
		switch {
		case cl[i] > cl[i-1]:
			out[i] = out[i-1] + volume[i]
		case cl[i] < cl[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// AccumulationDistribution returns the accumulation/distribution line. Bars
// with no high-low range contribute zero money flow
func AccumulationDistribution(high, low, cl, volume []float64) []float64 {
	out := nans(len(cl))
	if len(high) != len(cl) || len(low) != len(cl) || len(volume) != len(cl) || len(cl) == 0 {
		return out
	}
	var acc float64
	for i := range cl {
		if math.IsNaN(high[i]) || math.IsNaN(low[i]) || math.IsNaN(cl[i]) || math.IsNaN(volume[i]) {
			return out
		}
		span := high[i] - low[i]
		if span != 0 {
			mfm := ((cl[i] - low[i]) - (high[i] - cl[i])) / span
			acc += mfm * volume[i]
		}
		out[i] = acc
	}
	return out
}
