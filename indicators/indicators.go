// Package indicators implements pure technical-analysis transforms over
// price sequences. Every function returns a slice exactly as long as its
// input; entries that cannot be computed yet (the warm-up prefix, or any
// window touching invalid input) are NaN rather than zero. Consumers must
// treat NaN as "not yet computable" and never as a price of zero.
package indicators

import "math"

// Valid reports whether an indicator value has been computed for a bar
func Valid(f float64) bool {
	return !math.IsNaN(f)
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func windowValid(values []float64, start, end int) bool {
	for i := start; i <= end; i++ {
		if math.IsNaN(values[i]) {
			return false
		}
	}
	return true
}

// SMA returns the simple moving average of values over period samples
func SMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period > len(values) {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		if !windowValid(values, i-period+1, i) {
			continue
		}
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// EMA returns the exponential moving average of values over period samples,
// seeded with the simple average of the first full window of defined input.
// Input is expected to be a (possibly NaN-prefixed) contiguous sequence;
// output past a mid-sequence gap stays NaN
func EMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period > len(values) {
		return out
	}
	start := firstValid(values)
	if start < 0 || len(values)-start < period {
		return out
	}
	seedEnd := start + period - 1
	if !windowValid(values, start, seedEnd) {
		return out
	}
	var sum float64
	for i := start; i <= seedEnd; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[seedEnd] = prev
	alpha := 2 / (float64(period) + 1)
	for i := seedEnd + 1; i < len(values); i++ {
		if math.IsNaN(values[i]) {
			return out
		}
		prev = (values[i]-prev)*alpha + prev
		out[i] = prev
	}
	return out
}

// WMA returns the linearly weighted moving average, most recent sample
// weighted heaviest
func WMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period > len(values) {
		return out
	}
	denom := float64(period*(period+1)) / 2
	for i := period - 1; i < len(values); i++ {
		if !windowValid(values, i-period+1, i) {
			continue
		}
		var sum float64
		for j := 0; j < period; j++ {
			sum += values[i-period+1+j] * float64(j+1)
		}
		out[i] = sum / denom
	}
	return out
}

// VWMA returns the volume weighted moving average over period samples
func VWMA(values, volume []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period > len(values) || len(volume) != len(values) {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		if !windowValid(values, i-period+1, i) || !windowValid(volume, i-period+1, i) {
			continue
		}
		var pv, v float64
		for j := i - period + 1; j <= i; j++ {
			pv += values[j] * volume[j]
			v += volume[j]
		}
		if v == 0 {
			continue
		}
		out[i] = pv / v
	}
	return out
}

// StdDev returns the rolling population standard deviation over period
// samples
func StdDev(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period > len(values) {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		if !windowValid(values, i-period+1, i) {
			continue
		}
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(period)
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(period))
	}
	return out
}

// ROC returns the rate of change over period samples as a percentage
func ROC(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period >= len(values) {
		return out
	}
	for i := period; i < len(values); i++ {
		prev := values[i-period]
		if math.IsNaN(prev) || math.IsNaN(values[i]) || prev == 0 {
			continue
		}
		out[i] = (values[i] - prev) / prev * 100
	}
	return out
}

// Highest returns the highest value within the trailing period window
func Highest(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period > len(values) {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		if !windowValid(values, i-period+1, i) {
			continue
		}
		high := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			if values[j] > high {
				high = values[j]
			}
		}
		out[i] = high
	}
	return out
}

// Lowest returns the lowest value within the trailing period window
func Lowest(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || period > len(values) {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		if !windowValid(values, i-period+1, i) {
			continue
		}
		low := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			if values[j] < low {
				low = values[j]
			}
		}
		out[i] = low
	}
	return out
}

// Crossover reports for each bar whether a crossed strictly above b between
// the previous bar and this one. Bars with undefined input are false
func Crossover(a, b []float64) []bool {
	out := make([]bool, len(a))
	if len(b) != len(a) {
		return out
	}
	for i := 1; i < len(a); i++ {
		if !Valid(a[i]) || !Valid(b[i]) || !Valid(a[i-1]) || !Valid(b[i-1]) {
			continue
		}
		out[i] = a[i] > b[i] && a[i-1] <= b[i-1]
	}
	return out
}

// Crossunder reports for each bar whether a crossed strictly below b between
// the previous bar and this one. Bars with undefined input are false
func Crossunder(a, b []float64) []bool {
	out := make([]bool, len(a))
	if len(b) != len(a) {
		return out
	}
	for i := 1; i < len(a); i++ {
		if !Valid(a[i]) || !Valid(b[i]) || !Valid(a[i-1]) || !Valid(b[i-1]) {
			continue
		}
		out[i] = a[i] < b[i] && a[i-1] >= b[i-1]
	}
	return out
}

func firstValid(values []float64) int {
	for i := range values {
		if !math.IsNaN(values[i]) {
			return i
		}
	}
	return -1
}
