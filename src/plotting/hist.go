package plotting

import "math"

// Bin is one histogram bin over [Low, High); the last bin includes its
// upper edge.
type Bin struct {
	Low   float64
	High  float64
	Count float64
}

// binData bins values into n equal-width bins spanning the data range. A
// degenerate range (all values equal) is widened by half a unit on both
// sides so the single occupied bin still has width.
func binData(values []float64, n int) []Bin {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		min -= 0.5
		max += 0.5
	}
	width := (max - min) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = min + float64(i)*width
		bins[i].High = min + float64(i+1)*width
	}
	bins[n-1].High = max
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}

func maxCount(bins []Bin) float64 {
	m := 0.0
	for _, b := range bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// niceAxisMax rounds max up to a clean increment of its own magnitude,
// leaving a little headroom above the tallest bin.
func niceAxisMax(max float64) float64 {
	if max <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(max)))
	if math.IsInf(mag, 0) || mag <= 0 {
		return max
	}
	return math.Ceil(max*1.05/mag) * mag
}

// logCount maps a bin count onto the log10 axis used for log-scale
// histograms. Empty bins sit on the baseline.
func logCount(c float64) float64 {
	if c < 1 {
		return 0
	}
	return math.Log10(c)
}
