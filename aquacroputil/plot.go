/*
Copyright © 2019 the AquaCrop-Go authors.
This file is part of AquaCrop-Go.

AquaCrop-Go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

AquaCrop-Go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with AquaCrop-Go.  If not, see <http://www.gnu.org/licenses/>.
*/


package aquacroputil

import (
	"fmt"
	"os"

	"github.com/spatialmodel/aquacrop"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot draws time series of the named daily variables and saves them
// to file, whose extension (.png, .svg, .pdf, ...) sets the format.
// Names are looked up first among the derived variables and then among
// the built-in ones.
func Plot(out *aquacrop.Outputs, derived map[string][]float64, vars []string, file string) error {
	if len(vars) == 0 {
		return fmt.Errorf("aquacrop: no variables to plot; set plot.Vars")
	}
	if out.Len() == 0 {
		return fmt.Errorf("aquacrop: there are no outputs to plot")
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.Legend.Top = true
	for i, name := range vars {
		y, ok := derived[name]
		units := ""
		if !ok {
			v, err := aquacrop.LookupVariable(name)
			if err != nil {
				return err
			}
			if y, err = out.Series(name); err != nil {
				return err
			}
			units = " [" + v.Units + "]"
		}
		pts := make(plotter.XYs, out.Len())
		for j := range pts {
			pts[j].X = float64(out.Flux[j].Date.Unix())
			pts[j].Y = y[j]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(name+units, l)
	}
	if len(vars) == 1 {
		p.Y.Label.Text = vars[0]
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, os.ExpandEnv(file)); err != nil {
		return fmt.Errorf("aquacrop: saving plot: %v", err)
	}
	return nil
}
