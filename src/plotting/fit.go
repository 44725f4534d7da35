package plotting

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/stat"
)

// fitGaussianBins fits amp * exp(-(x-mu)^2 / (2 sigma^2)) to the bin counts
// of a histogram. The weighted first and second moments of the bin centers
// seed a Levenberg-Marquardt refinement; a histogram too degenerate to seed
// (all mass in one bin, or empty) is a fit failure, not a panic.
func fitGaussianBins(bins []Bin) (GaussianFit, error) {
	if len(bins) < 3 {
		return GaussianFit{}, fmt.Errorf("need at least 3 bins to fit, got %d", len(bins))
	}
	centers := make([]float64, len(bins))
	counts := make([]float64, len(bins))
	total := 0.0
	amp0 := 0.0
	for i, b := range bins {
		centers[i] = 0.5 * (b.Low + b.High)
		counts[i] = b.Count
		total += b.Count
		if b.Count > amp0 {
			amp0 = b.Count
		}
	}
	if total <= 0 {
		return GaussianFit{}, fmt.Errorf("histogram is empty")
	}

	mu0 := stat.Mean(centers, counts)
	sigma0 := stat.StdDev(centers, counts)
	if math.IsNaN(sigma0) || sigma0 <= 0 {
		return GaussianFit{}, fmt.Errorf("degenerate histogram: sigma seed %g", sigma0)
	}

	f := func(dst, guess []float64) {
		amp, mu, sig := guess[0], guess[1], guess[2]
		for i := range centers {
			d := (centers[i] - mu) / sig
			dst[i] = amp*math.Exp(-0.5*d*d) - counts[i]
		}
	}
	jacobian := lm.NumJac{Func: f}
	problem := lm.LMProblem{
		Dim:        3,
		Size:       len(centers),
		Func:       f,
		Jac:        jacobian.Jac,
		InitParams: []float64{amp0, mu0, sigma0},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}
	results, err := lm.LM(problem, &lm.Settings{Iterations: 100, ObjectiveTol: 1e-16})
	if err != nil {
		return GaussianFit{}, fmt.Errorf("levenberg-marquardt: %w", err)
	}

	amp, mu, sigma := results.X[0], results.X[1], math.Abs(results.X[2])
	for _, v := range []float64{amp, mu, sigma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return GaussianFit{}, fmt.Errorf("fit did not converge to finite parameters")
		}
	}
	if sigma == 0 {
		return GaussianFit{}, fmt.Errorf("fit collapsed to zero width")
	}
	return GaussianFit{Amp: amp, Mean: mu, Sigma: sigma}, nil
}

// sampleFit evaluates the fitted curve at n points across [lo, hi] for the
// overlay line.
func sampleFit(fit GaussianFit, lo, hi float64, n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	xs = make([]float64, n)
	ys = make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		x := lo + float64(i)*step
		d := (x - fit.Mean) / fit.Sigma
		xs[i] = x
		ys[i] = fit.Amp * math.Exp(-0.5*d*d)
	}
	return xs, ys
}
