package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/stephenswat/detray/src/plotting"
	"github.com/stephenswat/detray/src/trackdata"
)

// Dataset pairs a track table with its plot label and color.
type Dataset struct {
	Table *trackdata.Table
	Label string
	Color string
}

var labelSanitizer = strings.NewReplacer(" ", "_", "(", "", ")", "")

// sanitizeLabel makes a dataset label safe for filenames: spaces become
// underscores, parentheses are dropped. Idempotent.
func sanitizeLabel(s string) string { return labelSanitizer.Replace(s) }

func sanitizeDetector(s string) string { return strings.ReplaceAll(s, " ", "_") }

// trackKind names the plotted trajectories after the scan type.
func trackKind(scanType string) string {
	if scanType == "ray" {
		return "rays"
	}
	return "helices"
}

// splitOutliers keeps values with |v| < bound and returns the indices of
// values with |v| > bound. A value exactly at the bound is dropped from the
// histogram but not reported, matching the filter pair this reproduces.
func splitOutliers(values []float64, bound float64) (kept []float64, outliers []int) {
	for i, v := range values {
		a := math.Abs(v)
		switch {
		case a < bound:
			kept = append(kept, v)
		case a > bound:
			outliers = append(outliers, i)
		}
	}
	return kept, outliers
}

func trackID(t *trackdata.Table, row int) int64 {
	if row < len(t.TrackIDs) {
		return t.TrackIDs[row]
	}
	return -1
}

// CompareTrackPosXY overlays the xy positions of two datasets, restricted
// to the configured z-range, and writes
// {detector}_{scanType}_track_pos_{label1}_{label2}_xy.{format}.
func CompareTrackPosXY(opts *Options, detector, scanType string, factory plotting.Factory,
	outFormat string, first, second Dataset) (string, error) {

	nTracks, err := first.Table.NumTracks()
	if err != nil {
		return "", err
	}
	kind := trackKind(scanType)

	minZ, maxZ := opts.ZRange[0], opts.ZRange[1]
	if minZ >= maxZ {
		return "", fmt.Errorf("xy plotting range: min z %g must be smaller than max z %g", minZ, maxZ)
	}

	inRange := func(t *trackdata.Table) (x, y []float64, err error) {
		z, err := t.Column("z")
		if err != nil {
			return nil, nil, err
		}
		sub := t.Filter(func(i int) bool { return z[i] > minZ && z[i] < maxZ })
		if x, err = sub.Column("x"); err != nil {
			return nil, nil, err
		}
		if y, err = sub.Column("y"); err != nil {
			return nil, nil, err
		}
		return x, y, nil
	}

	firstX, firstY, err := inRange(first.Table)
	if err != nil {
		return "", err
	}
	secondX, secondY, err := inRange(second.Table)
	if err != nil {
		return "", err
	}

	pl, err := factory.Scatter(plotting.ScatterParams{
		FigWidth:  8,
		FigHeight: 8,
		X:         firstX,
		Y:         firstY,
		XLabel:    "x [mm]",
		YLabel:    "y [mm]",
		Label:     first.Label,
		Color:     first.Color,
		Alpha:     1,
		Stats:     fmt.Sprintf("%d %s", nTracks, kind),
		Legend:    plotting.NewLegendOptions("upper center", 4, 0.4, 0.005),
	})
	if err != nil {
		return "", err
	}
	if err := factory.HighlightRegion(pl, secondX, secondY, second.Color, second.Label); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_track_pos_%s_%s_xy",
		sanitizeDetector(detector), scanType, sanitizeLabel(first.Label), sanitizeLabel(second.Label))
	// High dpi so the individual points stay visible at full resolution.
	return factory.WritePlot(pl, name, outFormat, 600)
}

// CompareTrackPosRZ overlays the rz view (cylinder radius vs. z) of two
// datasets and writes
// {detector}_{scanType}_track_pos_{label1}_{label2}_rz.{format}.
func CompareTrackPosRZ(opts *Options, detector, scanType string, factory plotting.Factory,
	outFormat string, first, second Dataset) (string, error) {

	nTracks, err := first.Table.NumTracks()
	if err != nil {
		return "", err
	}
	kind := trackKind(scanType)

	radial := func(t *trackdata.Table) (z, r []float64, err error) {
		x, err := t.Column("x")
		if err != nil {
			return nil, nil, err
		}
		y, err := t.Column("y")
		if err != nil {
			return nil, nil, err
		}
		if z, err = t.Column("z"); err != nil {
			return nil, nil, err
		}
		r = make([]float64, len(x))
		for i := range r {
			r[i] = math.Hypot(x[i], y[i])
		}
		return z, r, nil
	}

	firstZ, firstR, err := radial(first.Table)
	if err != nil {
		return "", err
	}
	secondZ, secondR, err := radial(second.Table)
	if err != nil {
		return "", err
	}

	pl, err := factory.Scatter(plotting.ScatterParams{
		FigWidth:  12,
		FigHeight: 6,
		X:         firstZ,
		Y:         firstR,
		XLabel:    "z [mm]",
		YLabel:    "r [mm]",
		Label:     first.Label,
		Color:     first.Color,
		Alpha:     1,
		Stats:     fmt.Sprintf("%d %s", nTracks, kind),
		Legend:    plotting.NewLegendOptions("upper center", 4, 0.8, 0.005),
	})
	if err != nil {
		return "", err
	}
	if err := factory.HighlightRegion(pl, secondZ, secondR, second.Color, second.Label); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_track_pos_%s_%s_rz",
		sanitizeDetector(detector), scanType, sanitizeLabel(first.Label), sanitizeLabel(second.Label))
	return factory.WritePlot(pl, name, outFormat, 600)
}

// PlotTrackPosDist histograms the pointwise 3-D distance between two
// row-aligned datasets on a log scale. Distances beyond sqrt(3) times the
// per-axis tolerance are excluded and reported individually.
func PlotTrackPosDist(opts *Options, detector, scanType string, factory plotting.Factory,
	outFormat string, first, second Dataset) (string, error) {

	dist, err := trackdata.Distances(first.Table, second.Table)
	if err != nil {
		return "", err
	}

	// Isotropic 3-D bound from the per-axis tolerance.
	bound := math.Sqrt(3) * opts.Outlier
	kept, outliers := splitOutliers(dist, bound)
	if len(outliers) > 0 {
		trackdata.Warnf("removed outliers (dist):")
		for _, i := range outliers {
			trackdata.Warnf("track %d: %v", trackID(first.Table, i), dist[i])
		}
	}

	pl, err := factory.Hist1D(plotting.HistParams{
		X:      kept,
		Bins:   100,
		XLabel: "d [mm]",
		LogY:   true,
		Legend: plotting.NewLegendOptions("upper right", 4, 0.8, 0.005),
	})
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_dist_%s_%s",
		sanitizeDetector(detector), scanType, sanitizeLabel(first.Label), sanitizeLabel(second.Label))
	return factory.WritePlot(pl, name, outFormat, 0)
}

// PlotTrackPosRes histograms the per-variable residual between two
// row-aligned datasets and overlays a gaussian fit. Residuals beyond the
// tolerance are excluded and reported individually; a failed fit is a
// warning, the plot is still written.
func PlotTrackPosRes(opts *Options, detector, scanType string, factory plotting.Factory,
	outFormat string, first, second Dataset, variable string) (string, error) {

	kind := trackKind(scanType)

	res, err := trackdata.Residuals(first.Table, second.Table, variable)
	if err != nil {
		return "", err
	}

	kept, outliers := splitOutliers(res, opts.Outlier)
	if len(outliers) > 0 {
		firstVals, _ := first.Table.Column(variable)
		secondVals, _ := second.Table.Column(variable)
		trackdata.Warnf("removed outliers (%s):", variable)
		for _, i := range outliers {
			trackdata.Warnf("track %d: %v - %v = %v",
				trackID(first.Table, i), firstVals[i], secondVals[i], res[i])
		}
	}

	pl, err := factory.Hist1D(plotting.HistParams{
		X:      kept,
		Bins:   100,
		XLabel: fmt.Sprintf("res %s [mm]", variable),
		LogY:   false,
		Legend: plotting.NewLegendOptions("upper right", 4, 0.8, 0.005),
	})
	if err != nil {
		return "", err
	}

	if _, _, err := factory.FitGaussian(pl); err != nil {
		trackdata.Warnf("fit failed (res (%s): %s - %s): %v", kind, first.Label, second.Label, err)
	}

	name := fmt.Sprintf("%s_%s_res_%s_%s_%s",
		sanitizeDetector(detector), scanType, variable, sanitizeLabel(first.Label), sanitizeLabel(second.Label))
	return factory.WritePlot(pl, name, outFormat, 0)
}
