package plotting

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const defaultDPI = 100

// ChartFactory renders plots with go-chart. PNG output additionally gets
// the stats annotation stamped onto the image, since go-chart has no
// free-text element.
type ChartFactory struct {
	builder
	OutDir string
}

// NewChartFactory returns a factory writing into outDir.
func NewChartFactory(outDir string) *ChartFactory {
	return &ChartFactory{OutDir: outDir}
}

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color, alpha float64) chart.Style {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col.WithAlpha(uint8(alpha * 255)),
	}
}

// colorFor maps the caller-facing color names onto drawing colors. Hex
// strings pass through; unknown names fall back to blue.
func colorFor(name string) drawing.Color {
	if strings.HasPrefix(name, "#") {
		return drawing.ColorFromHex(strings.TrimPrefix(name, "#"))
	}
	switch strings.ToLower(name) {
	case "blue":
		return chart.ColorBlue
	case "red":
		return chart.ColorRed
	case "green":
		return chart.ColorGreen
	case "black":
		return chart.ColorBlack
	case "gray", "grey":
		return chart.ColorAlternateGray
	case "orange":
		return drawing.Color{R: 255, G: 165, B: 0, A: 255}
	case "purple":
		return drawing.Color{R: 128, G: 0, B: 128, A: 255}
	case "yellow":
		return chart.ColorYellow
	case "cyan":
		return chart.ColorCyan
	default:
		return chart.ColorBlue
	}
}

// WritePlot renders the plot and writes <name>.<format> into OutDir.
func (f *ChartFactory) WritePlot(pl *Plot, name, format string, dpi int) (string, error) {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	var provider chart.RendererProvider
	switch format {
	case "png":
		provider = chart.PNG
	case "svg":
		provider = chart.SVG
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}

	var ch chart.Chart
	switch pl.kind {
	case KindScatter:
		ch = scatterChart(pl, dpi)
	case KindHist:
		ch = histChart(pl, dpi)
	default:
		return "", fmt.Errorf("unknown plot kind %d", pl.kind)
	}
	// SVG cannot be stamped, so the stats annotation rides on the title.
	if format == "svg" && pl.stats != "" {
		ch.Title = pl.stats
	}

	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	out := buf.Bytes()
	if format == "png" && pl.stats != "" {
		stamped, err := stampStats(out, pl.stats)
		if err != nil {
			return "", fmt.Errorf("annotate %s: %w", name, err)
		}
		out = stamped
	}

	if f.OutDir != "" {
		if err := os.MkdirAll(f.OutDir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(f.OutDir, name+"."+format)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("write plot: %w", err)
	}
	return path, nil
}

func scatterChart(pl *Plot, dpi int) chart.Chart {
	ch := chart.Chart{
		Width:      int(pl.figW * float64(dpi)),
		Height:     int(pl.figH * float64(dpi)),
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 24}},
		XAxis:      chart.XAxis{Name: pl.xLabel},
		YAxis:      chart.YAxis{Name: pl.yLabel},
	}
	for _, s := range pl.series {
		xs, ys := s.x, s.y
		// go-chart cannot draw a zero-width x range; pad single points.
		if len(xs) == 1 {
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    s.label,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(colorFor(s.color), s.alpha),
		})
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func histChart(pl *Plot, dpi int) chart.Chart {
	xs, ys := stepPoints(pl.bins, pl.logY)
	fill := chart.ColorBlue
	ch := chart.Chart{
		Width:      int(pl.figW * float64(dpi)),
		Height:     int(pl.figH * float64(dpi)),
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 24}},
		XAxis:      chart.XAxis{Name: pl.xLabel},
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 1,
				StrokeColor: fill,
				FillColor:   fill.WithAlpha(90),
			},
		}},
	}
	if pl.logY {
		maxDecade := math.Ceil(logCount(maxCount(pl.bins)))
		if maxDecade < 1 {
			maxDecade = 1
		}
		var ticks []chart.Tick
		for k := 0.0; k <= maxDecade; k++ {
			ticks = append(ticks, chart.Tick{Value: k, Label: strconv.FormatFloat(math.Pow(10, k), 'f', -1, 64)})
		}
		ch.YAxis = chart.YAxis{
			Name:  "entries",
			Range: &chart.ContinuousRange{Min: 0, Max: maxDecade},
			Ticks: ticks,
		}
	} else {
		ch.YAxis = chart.YAxis{
			Name:  "entries",
			Range: &chart.ContinuousRange{Min: 0, Max: niceAxisMax(maxCount(pl.bins))},
		}
	}
	if pl.fit != nil {
		fx, fy := sampleFit(*pl.fit, pl.bins[0].Low, pl.bins[len(pl.bins)-1].High, 200)
		if pl.logY {
			for i := range fy {
				fy[i] = logCount(fy[i])
			}
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    "gaussian fit",
			XValues: fx,
			YValues: fy,
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: chart.ColorRed},
		})
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

// stepPoints turns bins into the outline of a filled step histogram.
func stepPoints(bins []Bin, logY bool) (xs, ys []float64) {
	for _, b := range bins {
		y := b.Count
		if logY {
			y = logCount(y)
		}
		xs = append(xs, b.Low, b.High)
		ys = append(ys, y, y)
	}
	return xs, ys
}

// stampStats draws the stats annotation into the bottom-left corner of a
// rendered PNG, white on a translucent dark box for readability.
func stampStats(pngBytes []byte, text string) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
