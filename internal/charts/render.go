package charts

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

// Shared palette so categories keep the same color across chart kinds.
var (
	colorIncome  = color.RGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF}
	colorExpense = color.RGBA{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF}
	colorNet     = color.RGBA{R: 0x15, G: 0x65, B: 0xC0, A: 0xFF}
	colorAccent  = color.RGBA{R: 0x6A, G: 0x5A, B: 0xCD, A: 0xFF}

	donutPalette = []color.Color{
		colorIncome, colorExpense, colorNet, colorAccent,
		color.RGBA{R: 0xF9, G: 0xA8, B: 0x25, A: 0xFF},
		color.RGBA{R: 0x00, G: 0x83, B: 0x8F, A: 0xFF},
		color.RGBA{R: 0x8D, G: 0x6E, B: 0x63, A: 0xFF},
		color.RGBA{R: 0x78, G: 0x90, B: 0x9C, A: 0xFF},
	}
)

// Options tune the preparers behind Render.
type Options struct {
	Title           string
	TopN            int
	MovingAvgWindow int
}

// Renderer turns prepared series into PNG images.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a renderer with the default figure size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 8 * vg.Inch, Height: 4.5 * vg.Inch}
}

// Render draws the given chart kind for the transaction set and snapshot,
// returning PNG bytes. Charts with no underlying data render an empty
// titled figure rather than failing.
func (r *Renderer) Render(kind Kind, txs []core.Transaction, snap metrics.Snapshot, opts Options) ([]byte, error) {
	var (
		p   *plot.Plot
		err error
	)
	switch kind {
	case KindBar:
		p, err = r.bar(PrepareBar(snap), opts)
	case KindDonut:
		p, err = r.donut(PrepareDonut(snap, opts.TopN), opts)
	case KindFlow:
		p, err = r.flow(PrepareFlow(snap, opts.MovingAvgWindow), opts)
	case KindWaterfall:
		p, err = r.waterfall(PrepareWaterfall(snap), opts)
	case KindBoxplot:
		p, err = r.boxplot(PrepareBoxplot(txs, snap), opts)
	case KindPareto:
		p, err = r.pareto(PreparePareto(snap), opts)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s chart: %w", kind, err)
	}
	return r.encode(p)
}

func (r *Renderer) encode(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return buf.Bytes(), nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Add(plotter.NewGrid())
	return p
}

func (r *Renderer) bar(s BarSeries, opts Options) (*plot.Plot, error) {
	p := newPlot(titled("Income vs Expense", opts))
	p.Y.Label.Text = "USD"

	if len(s.Values) > 0 {
		incBar, err := plotter.NewBarChart(plotter.Values{s.Values[0], 0}, vg.Points(40))
		if err != nil {
			return nil, err
		}
		incBar.Color = colorIncome
		incBar.LineStyle.Width = 0

		expBar, err := plotter.NewBarChart(plotter.Values{0, s.Values[1]}, vg.Points(40))
		if err != nil {
			return nil, err
		}
		expBar.Color = colorExpense
		expBar.LineStyle.Width = 0

		net, err := plotter.NewLine(plotter.XYs{{X: -0.4, Y: s.Net}, {X: 1.4, Y: s.Net}})
		if err != nil {
			return nil, err
		}
		net.LineStyle.Color = colorNet
		net.LineStyle.Width = vg.Points(2)
		net.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

		p.Add(incBar, expBar, net)
		p.Legend.Add(fmt.Sprintf("Net: %.2f", s.Net), net)
		p.NominalX(s.Labels...)
	}
	return p, nil
}

func (r *Renderer) flow(s FlowSeries, opts Options) (*plot.Plot, error) {
	p := newPlot(titled(fmt.Sprintf("Daily Flow, Moving Avg (%d) and Cumulative", s.Window), opts))
	p.Y.Label.Text = "USD"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	if len(s.Days) == 0 {
		return p, nil
	}
	add := func(vals []float64, c color.Color, width vg.Length, dashes []vg.Length, label string) error {
		xys := make(plotter.XYs, len(vals))
		for i, v := range vals {
			xys[i] = plotter.XY{X: float64(s.Days[i].Unix()), Y: v}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.LineStyle.Color = c
		l.LineStyle.Width = width
		l.LineStyle.Dashes = dashes
		p.Add(l)
		p.Legend.Add(label, l)
		return nil
	}
	if err := add(s.Net, colorAccent, vg.Points(1.8), nil, "daily net"); err != nil {
		return nil, err
	}
	if err := add(s.MovingAvg, colorIncome, vg.Points(2.2), []vg.Length{vg.Points(6), vg.Points(3)}, "moving avg"); err != nil {
		return nil, err
	}
	if err := add(s.Cumulative, colorNet, vg.Points(2.2), []vg.Length{vg.Points(2), vg.Points(3)}, "cumulative"); err != nil {
		return nil, err
	}
	p.Legend.Top = true
	return p, nil
}

func (r *Renderer) waterfall(s WaterfallSeries, opts Options) (*plot.Plot, error) {
	p := newPlot(titled("Monthly Net Waterfall", opts))
	p.Y.Label.Text = "USD"

	if len(s.Steps) == 0 {
		return p, nil
	}
	n := len(s.Steps)
	bottoms := make(plotter.Values, n)
	rises := make(plotter.Values, n)
	falls := make(plotter.Values, n)
	labels := make([]string, n)
	for i, step := range s.Steps {
		bottoms[i] = step.Bottom
		labels[i] = step.Month
		if step.Rising {
			rises[i] = step.Height
		} else {
			falls[i] = step.Height
		}
	}

	width := vg.Points(30)
	base, err := plotter.NewBarChart(bottoms, width)
	if err != nil {
		return nil, err
	}
	base.Color = color.Transparent
	base.LineStyle.Width = 0

	rise, err := plotter.NewBarChart(rises, width)
	if err != nil {
		return nil, err
	}
	rise.Color = colorIncome
	rise.LineStyle.Width = 0
	rise.StackOn(base)

	fall, err := plotter.NewBarChart(falls, width)
	if err != nil {
		return nil, err
	}
	fall.Color = colorExpense
	fall.LineStyle.Width = 0
	fall.StackOn(base)

	p.Add(base, rise, fall)
	p.Legend.Add("gain", rise)
	p.Legend.Add("loss", fall)
	p.NominalX(labels...)
	return p, nil
}

func (r *Renderer) boxplot(s BoxplotSeries, opts Options) (*plot.Plot, error) {
	p := newPlot(titled("Expense Distribution by Category", opts))
	p.Y.Label.Text = "USD"

	labels := make([]string, 0, len(s.Groups))
	for i, g := range s.Groups {
		labels = append(labels, g.Category)
		if len(g.Values) == 0 {
			continue
		}
		vals := make(plotter.Values, len(g.Values))
		copy(vals, g.Values)
		box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), vals)
		if err != nil {
			return nil, err
		}
		box.MedianStyle.Color = colorNet
		p.Add(box)
	}
	if len(labels) > 0 {
		p.NominalX(labels...)
	}
	return p, nil
}

func (r *Renderer) pareto(s ParetoSeries, opts Options) (*plot.Plot, error) {
	p := newPlot(titled("Expense Pareto by Category", opts))
	p.Y.Label.Text = "% of total expense"
	p.Y.Max = 110

	if len(s.Points) == 0 {
		return p, nil
	}
	bars := make(plotter.Values, len(s.Points))
	cum := make(plotter.XYs, len(s.Points))
	labels := make([]string, len(s.Points))
	for i, pt := range s.Points {
		bars[i] = pt.Pct
		cum[i] = plotter.XY{X: float64(i), Y: pt.CumulativePct}
		labels[i] = pt.Category
	}

	bar, err := plotter.NewBarChart(bars, vg.Points(28))
	if err != nil {
		return nil, err
	}
	bar.Color = colorExpense
	bar.LineStyle.Width = 0

	line, err := plotter.NewLine(cum)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = colorNet
	line.LineStyle.Width = vg.Points(2)

	dots, err := plotter.NewScatter(cum)
	if err != nil {
		return nil, err
	}
	dots.GlyphStyle.Color = colorNet
	dots.GlyphStyle.Radius = vg.Points(2.5)
	dots.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(bar, line, dots)
	p.Legend.Add("cumulative %", line)
	p.NominalX(labels...)
	return p, nil
}

func titled(base string, opts Options) string {
	if opts.Title == "" {
		return base
	}
	return base + " (" + opts.Title + ")"
}
