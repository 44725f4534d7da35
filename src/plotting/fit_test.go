package plotting

import (
	"math"
	"testing"
)

// gaussianBins builds a histogram sampled exactly from a gaussian shape.
func gaussianBins(amp, mu, sigma float64, n int, lo, hi float64) []Bin {
	bins := make([]Bin, n)
	width := (hi - lo) / float64(n)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
		c := 0.5 * (bins[i].Low + bins[i].High)
		d := (c - mu) / sigma
		bins[i].Count = amp * math.Exp(-0.5*d*d)
	}
	return bins
}

func TestFitGaussianRecoversParameters(t *testing.T) {
	bins := gaussianBins(120, 0.02, 0.4, 80, -2, 2)
	fit, err := fitGaussianBins(bins)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(fit.Mean-0.02) > 0.02 {
		t.Fatalf("mean off: got %v, want ~0.02", fit.Mean)
	}
	if math.Abs(fit.Sigma-0.4) > 0.04 {
		t.Fatalf("sigma off: got %v, want ~0.4", fit.Sigma)
	}
	if fit.Amp <= 0 {
		t.Fatalf("amplitude must be positive, got %v", fit.Amp)
	}
}

func TestFitGaussianEmptyHistogram(t *testing.T) {
	bins := make([]Bin, 10)
	for i := range bins {
		bins[i].Low = float64(i)
		bins[i].High = float64(i + 1)
	}
	if _, err := fitGaussianBins(bins); err == nil {
		t.Fatalf("expected error for empty histogram")
	}
}

func TestFitGaussianSingleBin(t *testing.T) {
	// All mass in one bin: no usable width seed, the fit must fail
	// gracefully instead of dividing by zero.
	bins := make([]Bin, 10)
	for i := range bins {
		bins[i].Low = float64(i)
		bins[i].High = float64(i + 1)
	}
	bins[4].Count = 250
	if _, err := fitGaussianBins(bins); err == nil {
		t.Fatalf("expected error for degenerate histogram")
	}
}

func TestFitGaussianTooFewBins(t *testing.T) {
	bins := []Bin{{Low: 0, High: 1, Count: 5}, {Low: 1, High: 2, Count: 5}}
	if _, err := fitGaussianBins(bins); err == nil {
		t.Fatalf("expected error for too few bins")
	}
}

func TestSampleFit(t *testing.T) {
	fit := GaussianFit{Amp: 10, Mean: 0, Sigma: 1}
	xs, ys := sampleFit(fit, -1, 1, 21)
	if len(xs) != 21 || len(ys) != 21 {
		t.Fatalf("expected 21 samples, got %d/%d", len(xs), len(ys))
	}
	if xs[0] != -1 || xs[20] != 1 {
		t.Fatalf("sample range wrong: [%v, %v]", xs[0], xs[20])
	}
	// peak at the mean
	if math.Abs(ys[10]-10) > 1e-12 {
		t.Fatalf("expected peak amplitude at the mean, got %v", ys[10])
	}
}
