// Track position validation entrypoint.
//
// Loads two CSV sets of recorded track positions (a reference propagation
// and a compared navigation method) and renders their agreement plots:
// an xy scatter overlay restricted to a z-range, an rz overlay, a log-scale
// histogram of the pointwise 3-D distance, and per-variable residual
// histograms with a gaussian fit.
//
// Design notes:
//   - Tolerances (z_range, outlier) come from a YAML config; explicit -zmin,
//     -zmax and -outlier flags win over the file.
//   - The rendering backend is selectable; both backends write the same
//     deterministic file names, so downstream tooling does not care which
//     one produced an image.
//   - Any plot error is fatal: a validation run with a missing figure is not
//     a validation run.
package main

import (
	"flag"
	"strings"
	"time"

	"github.com/stephenswat/detray/src/plotting"
	"github.com/stephenswat/detray/src/trackdata"
	"github.com/stephenswat/detray/src/validation"
)

func main() {
	defaults := validation.DefaultOptions()

	firstFile := flag.String("first", "", "Reference track position CSV (e.g. truth ray scan)")
	secondFile := flag.String("second", "", "Compared track position CSV (e.g. navigation)")
	firstLabel := flag.String("first-label", "truth", "Legend label for the first dataset")
	secondLabel := flag.String("second-label", "navigation", "Legend label for the second dataset")
	firstColor := flag.String("first-color", "blue", "Point color for the first dataset")
	secondColor := flag.String("second-color", "red", "Point color for the second dataset")
	detector := flag.String("detector", "detector", "Detector name encoded into output file names")
	scanType := flag.String("scan-type", "ray", "Scan type: ray or helix")
	configPath := flag.String("config", "", "YAML options file with z_range and outlier tolerances")
	zMin := flag.Float64("zmin", defaults.ZRange[0], "Lower z bound for the xy comparison (mm)")
	zMax := flag.Float64("zmax", defaults.ZRange[1], "Upper z bound for the xy comparison (mm)")
	outlier := flag.Float64("outlier", defaults.Outlier, "Per-axis outlier tolerance (mm)")
	outDir := flag.String("outdir", ".", "Directory for the plot files")
	outFormat := flag.String("format", "png", "Output format (png|svg)")
	backend := flag.String("backend", "chart", "Rendering backend (chart|gonum)")
	resVars := flag.String("res-vars", "x,y,z", "Comma separated variables for residual plots")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	trackdata.SetLogLevel(*logLevel)
	defer trackdata.TimeTrack(time.Now(), "track position validation")

	opts := validation.DefaultOptions()
	if *configPath != "" {
		loaded, err := validation.LoadOptions(*configPath)
		if err != nil {
			trackdata.Fatalf("load options: %v", err)
		}
		opts = loaded
	}
	// Explicit tolerance flags override the config file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "zmin":
			opts.ZRange[0] = *zMin
		case "zmax":
			opts.ZRange[1] = *zMax
		case "outlier":
			opts.Outlier = *outlier
		}
	})

	df1, err := trackdata.ReadTrackData(*firstFile)
	if err != nil {
		trackdata.Fatalf("read first dataset: %v", err)
	}
	df2, err := trackdata.ReadTrackData(*secondFile)
	if err != nil {
		trackdata.Fatalf("read second dataset: %v", err)
	}

	var factory plotting.Factory
	switch *backend {
	case "chart":
		factory = plotting.NewChartFactory(*outDir)
	case "gonum":
		factory = plotting.NewGonumFactory(*outDir)
	default:
		trackdata.Fatalf("unknown backend %q (want chart or gonum)", *backend)
	}

	first := validation.Dataset{Table: df1, Label: *firstLabel, Color: *firstColor}
	second := validation.Dataset{Table: df2, Label: *secondLabel, Color: *secondColor}

	path, err := validation.CompareTrackPosXY(opts, *detector, *scanType, factory, *outFormat, first, second)
	if err != nil {
		trackdata.Fatalf("xy comparison: %v", err)
	}
	trackdata.Infof("wrote %s", path)

	path, err = validation.CompareTrackPosRZ(opts, *detector, *scanType, factory, *outFormat, first, second)
	if err != nil {
		trackdata.Fatalf("rz comparison: %v", err)
	}
	trackdata.Infof("wrote %s", path)

	path, err = validation.PlotTrackPosDist(opts, *detector, *scanType, factory, *outFormat, first, second)
	if err != nil {
		trackdata.Fatalf("distance histogram: %v", err)
	}
	trackdata.Infof("wrote %s", path)

	for _, v := range strings.Split(*resVars, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		path, err = validation.PlotTrackPosRes(opts, *detector, *scanType, factory, *outFormat, first, second, v)
		if err != nil {
			trackdata.Fatalf("residual histogram (%s): %v", v, err)
		}
		trackdata.Infof("wrote %s", path)
	}
}
