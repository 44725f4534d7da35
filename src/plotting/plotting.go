// Package plotting renders track comparison figures. The numeric callers
// only see the Factory capability set (scatter, 1-D histogram, overlay
// region, gaussian fit, file write); the rendering backend behind it is
// interchangeable.
package plotting

import "fmt"

// Kind discriminates what a Plot handle holds.
type Kind int

const (
	KindScatter Kind = iota
	KindHist
)

// LegendOptions mirrors the legend styling knobs of the plot helpers:
// anchor location, column count, column spacing and border padding.
type LegendOptions struct {
	Loc           string
	Columns       int
	ColumnSpacing float64
	BorderPad     float64
}

// NewLegendOptions builds legend options in the argument order the callers
// conventionally use.
func NewLegendOptions(loc string, columns int, columnSpacing, borderPad float64) LegendOptions {
	return LegendOptions{Loc: loc, Columns: columns, ColumnSpacing: columnSpacing, BorderPad: borderPad}
}

// ScatterParams describes a scatter figure of one dataset.
type ScatterParams struct {
	FigWidth  float64 // inches
	FigHeight float64 // inches
	X, Y      []float64
	XLabel    string
	YLabel    string
	Label     string
	Color     string
	Alpha     float64
	Stats     string // count annotation, e.g. "3000 rays"
	Legend    LegendOptions
}

// HistParams describes a 1-D histogram figure.
type HistParams struct {
	X      []float64
	Bins   int
	XLabel string
	LogY   bool
	Legend LegendOptions
}

// GaussianFit holds fitted gaussian parameters for a histogram overlay.
type GaussianFit struct {
	Amp   float64
	Mean  float64
	Sigma float64
}

type series struct {
	x, y  []float64
	label string
	color string
	alpha float64
}

// Plot is the transient figure handle produced by Scatter or Hist1D and
// consumed by HighlightRegion, FitGaussian and WritePlot. It owns no
// backend resources; rendering happens at write time.
type Plot struct {
	kind   Kind
	figW   float64
	figH   float64
	xLabel string
	yLabel string
	stats  string
	legend LegendOptions

	series []series

	raw  []float64
	bins []Bin
	logY bool
	fit  *GaussianFit
}

// Kind returns what the handle holds.
func (p *Plot) Kind() Kind { return p.kind }

// Bins returns the computed histogram bins (nil for scatter plots).
func (p *Plot) Bins() []Bin { return p.bins }

// Fit returns the gaussian overlay, if one was fitted.
func (p *Plot) Fit() *GaussianFit { return p.fit }

// Factory is the rendering capability set the comparison routines depend
// on. Implementations are stateless apart from their output directory.
type Factory interface {
	Scatter(p ScatterParams) (*Plot, error)
	Hist1D(p HistParams) (*Plot, error)
	HighlightRegion(pl *Plot, x, y []float64, color, label string) error
	FitGaussian(pl *Plot) (mean, sigma float64, err error)
	WritePlot(pl *Plot, name, format string, dpi int) (string, error)
}

// builder implements the backend-independent half of Factory: it assembles
// Plot handles and runs the fit. Backends embed it and add WritePlot.
type builder struct{}

func (builder) Scatter(p ScatterParams) (*Plot, error) {
	if len(p.X) != len(p.Y) {
		return nil, fmt.Errorf("scatter series length mismatch: %d vs %d", len(p.X), len(p.Y))
	}
	alpha := p.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	figW, figH := p.FigWidth, p.FigHeight
	if figW <= 0 {
		figW = 8
	}
	if figH <= 0 {
		figH = 8
	}
	return &Plot{
		kind:   KindScatter,
		figW:   figW,
		figH:   figH,
		xLabel: p.XLabel,
		yLabel: p.YLabel,
		stats:  p.Stats,
		legend: p.Legend,
		series: []series{{x: p.X, y: p.Y, label: p.Label, color: p.Color, alpha: alpha}},
	}, nil
}

func (builder) Hist1D(p HistParams) (*Plot, error) {
	if len(p.X) == 0 {
		return nil, fmt.Errorf("cannot histogram an empty series")
	}
	nBins := p.Bins
	if nBins <= 0 {
		nBins = 100
	}
	return &Plot{
		kind:   KindHist,
		figW:   8,
		figH:   6,
		xLabel: p.XLabel,
		yLabel: "entries",
		legend: p.Legend,
		raw:    p.X,
		bins:   binData(p.X, nBins),
		logY:   p.LogY,
	}, nil
}

func (builder) HighlightRegion(pl *Plot, x, y []float64, color, label string) error {
	if pl.kind != KindScatter {
		return fmt.Errorf("highlight region requires a scatter plot")
	}
	if len(x) != len(y) {
		return fmt.Errorf("highlight series length mismatch: %d vs %d", len(x), len(y))
	}
	pl.series = append(pl.series, series{x: x, y: y, label: label, color: color, alpha: 1})
	return nil
}

func (builder) FitGaussian(pl *Plot) (float64, float64, error) {
	if pl.kind != KindHist {
		return 0, 0, fmt.Errorf("gaussian fit requires a histogram plot")
	}
	fit, err := fitGaussianBins(pl.bins)
	if err != nil {
		return 0, 0, err
	}
	pl.fit = &fit
	return fit.Mean, fit.Sigma, nil
}
