package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// donutPlot is a custom plotter drawing the category share ring. gonum/plot
// has no pie chart, so the wedges are filled arc paths on the raw canvas.
type donutPlot struct {
	slices []DonutSlice
	hole   float64 // inner radius as a fraction of the outer
}

func (d *donutPlot) Plot(c draw.Canvas, plt *plot.Plot) {
	if len(d.slices) == 0 {
		return
	}
	var total float64
	for _, s := range d.slices {
		total += s.Value
	}
	if total <= 0 {
		return
	}

	center := vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: (c.Min.Y + c.Max.Y) / 2,
	}
	outer := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < outer {
		outer = h
	}
	outer = outer / 2 * 0.85
	inner := outer * vg.Length(d.hole)

	// Start at 12 o'clock and sweep clockwise.
	angle := math.Pi / 2
	for i, s := range d.slices {
		delta := -2 * math.Pi * s.Value / total

		var pth vg.Path
		pth.Move(arcPoint(center, outer, angle))
		pth.Arc(center, outer, angle, delta)
		pth.Line(arcPoint(center, inner, angle+delta))
		pth.Arc(center, inner, angle+delta, -delta)
		pth.Close()

		c.SetColor(donutPalette[i%len(donutPalette)])
		c.Fill(pth)

		angle += delta
	}
}

func arcPoint(center vg.Point, radius vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + radius*vg.Length(math.Cos(angle)),
		Y: center.Y + radius*vg.Length(math.Sin(angle)),
	}
}

// swatch is a legend thumbnail filled with a single color.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	var pth vg.Path
	pth.Move(vg.Point{X: c.Min.X, Y: c.Min.Y})
	pth.Line(vg.Point{X: c.Max.X, Y: c.Min.Y})
	pth.Line(vg.Point{X: c.Max.X, Y: c.Max.Y})
	pth.Line(vg.Point{X: c.Min.X, Y: c.Max.Y})
	pth.Close()
	c.SetColor(s.color)
	c.Fill(pth)
}

func (r *Renderer) donut(s DonutSeries, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = titled("Expense Share by Category", opts)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.HideAxes()

	p.Add(&donutPlot{slices: s.Slices, hole: 0.55})
	for i, slice := range s.Slices {
		label := fmt.Sprintf("%s (%.1f%%)", slice.Label, slice.Pct)
		p.Legend.Add(label, swatch{color: donutPalette[i%len(donutPalette)]})
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}
