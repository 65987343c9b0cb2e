// Package plotconv renders a window's convergence-measure history to a PNG,
// an optional diagnostic on top of the mandatory CSV convergence log.
package plotconv

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one measure's per-iteration values across a window.
type Series struct {
	Name   string
	Values []float64
}

// RenderHistory draws one line per series (x = iteration index) and writes
// a PNG to path.
func RenderHistory(title, path string, series []Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "measure value"

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j].X = float64(j + 1)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plotconv: building line for %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plotconv: saving %s: %w", path, err)
	}
	return nil
}
