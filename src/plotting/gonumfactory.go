package plotting

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// GonumFactory renders plots with gonum/plot. It honors the requested DPI
// for PNG output through a vgimg canvas; SVG is resolution independent and
// goes through plot.Save.
type GonumFactory struct {
	builder
	OutDir string
}

// NewGonumFactory returns a factory writing into outDir.
func NewGonumFactory(outDir string) *GonumFactory {
	return &GonumFactory{OutDir: outDir}
}

func rgbaFor(name string) color.RGBA {
	if strings.HasPrefix(name, "#") {
		c := colorFor(name)
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	switch strings.ToLower(name) {
	case "blue":
		return color.RGBA{R: 0, G: 116, B: 217, A: 255}
	case "red":
		return color.RGBA{R: 255, G: 65, B: 54, A: 255}
	case "green":
		return color.RGBA{R: 46, G: 204, B: 64, A: 255}
	case "black":
		return color.RGBA{A: 255}
	case "gray", "grey":
		return color.RGBA{R: 136, G: 136, B: 136, A: 255}
	case "orange":
		return color.RGBA{R: 255, G: 165, B: 0, A: 255}
	case "purple":
		return color.RGBA{R: 128, G: 0, B: 128, A: 255}
	case "yellow":
		return color.RGBA{R: 255, G: 220, B: 0, A: 255}
	case "cyan":
		return color.RGBA{R: 0, G: 190, B: 190, A: 255}
	default:
		return color.RGBA{R: 0, G: 116, B: 217, A: 255}
	}
}

func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha <= 0 || alpha > 1 {
		return c
	}
	c.A = uint8(float64(c.A) * alpha)
	return c
}

func toXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// WritePlot renders the plot and writes <name>.<format> into OutDir.
func (f *GonumFactory) WritePlot(pl *Plot, name, format string, dpi int) (string, error) {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	if format != "png" && format != "svg" {
		return "", fmt.Errorf("unsupported output format %q", format)
	}

	p := plot.New()
	p.X.Label.Text = pl.xLabel
	p.Y.Label.Text = pl.yLabel
	if pl.stats != "" {
		p.Title.Text = pl.stats
	}

	switch pl.kind {
	case KindScatter:
		for _, s := range pl.series {
			sc, err := plotter.NewScatter(toXYs(s.x, s.y))
			if err != nil {
				return "", fmt.Errorf("scatter series %q: %w", s.label, err)
			}
			sc.GlyphStyle.Color = withAlpha(rgbaFor(s.color), s.alpha)
			sc.GlyphStyle.Radius = vg.Points(1.5)
			sc.GlyphStyle.Shape = vgdraw.CircleGlyph{}
			p.Add(sc)
			if s.label != "" {
				p.Legend.Add(s.label, sc)
			}
		}
		p.Legend.Top = true
	case KindHist:
		if err := addHistogram(p, pl); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown plot kind %d", pl.kind)
	}

	if f.OutDir != "" {
		if err := os.MkdirAll(f.OutDir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(f.OutDir, name+"."+format)
	w := vg.Length(pl.figW) * vg.Inch
	h := vg.Length(pl.figH) * vg.Inch

	if format == "svg" {
		if err := p.Save(w, h, path); err != nil {
			return "", fmt.Errorf("save plot: %w", err)
		}
		return path, nil
	}

	canvas := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(vgdraw.New(canvas))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write plot: %w", err)
	}
	defer out.Close()
	pngCanvas := vgimg.PngCanvas{Canvas: canvas}
	if _, err := pngCanvas.WriteTo(out); err != nil {
		return "", fmt.Errorf("encode plot: %w", err)
	}
	return path, nil
}

func addHistogram(p *plot.Plot, pl *Plot) error {
	fill := withAlpha(rgbaFor("blue"), 0.5)
	if pl.logY {
		// gonum's log scale rejects empty bins, so log-scale histograms use
		// the same log10-count step outline as the go-chart backend.
		xs, ys := stepPoints(pl.bins, true)
		line, err := plotter.NewLine(toXYs(xs, ys))
		if err != nil {
			return fmt.Errorf("histogram outline: %w", err)
		}
		line.FillColor = fill
		line.LineStyle.Color = rgbaFor("blue")
		p.Add(line)
		maxDecade := math.Ceil(logCount(maxCount(pl.bins)))
		if maxDecade < 1 {
			maxDecade = 1
		}
		var ticks []plot.Tick
		for k := 0.0; k <= maxDecade; k++ {
			ticks = append(ticks, plot.Tick{Value: k, Label: fmt.Sprintf("%.0f", math.Pow(10, k))})
		}
		p.Y.Tick.Marker = plot.ConstantTicks(ticks)
		p.Y.Max = maxDecade
		p.Y.Min = 0
	} else {
		hist, err := plotter.NewHist(plotter.Values(pl.raw), len(pl.bins))
		if err != nil {
			return fmt.Errorf("histogram: %w", err)
		}
		hist.FillColor = fill
		p.Add(hist)
		p.Y.Min = 0
	}
	if pl.fit != nil {
		fx, fy := sampleFit(*pl.fit, pl.bins[0].Low, pl.bins[len(pl.bins)-1].High, 200)
		if pl.logY {
			for i := range fy {
				fy[i] = logCount(fy[i])
			}
		}
		line, err := plotter.NewLine(toXYs(fx, fy))
		if err != nil {
			return fmt.Errorf("fit overlay: %w", err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = rgbaFor("red")
		p.Add(line)
		p.Legend.Add("gaussian fit", line)
		p.Legend.Top = true
	}
	return nil
}
