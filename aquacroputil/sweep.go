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
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/spatialmodel/aquacrop"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// sweepParams hold the setters for the parameters that can be swept.
var sweepParams = map[string]func(m *aquacrop.Model, v float64){
	"SMT": func(m *aquacrop.Model, v float64) {
		m.Irrigation.SMT = [4]float64{v, v, v, v}
	},
	"MaxIrr":       func(m *aquacrop.Model, v float64) { m.Irrigation.MaxIrr = v },
	"MaxIrrSeason": func(m *aquacrop.Model, v float64) { m.Irrigation.MaxIrrSeason = v },
	"AppEff":       func(m *aquacrop.Model, v float64) { m.Irrigation.AppEff = v },
	"NetIrrSMT":    func(m *aquacrop.Model, v float64) { m.Irrigation.NetIrrSMT = v },
	"IrrInterval":  func(m *aquacrop.Model, v float64) { m.Irrigation.Interval = int(math.Round(v)) },
	"IrrDepth":     func(m *aquacrop.Model, v float64) { m.Irrigation.Depth = v },
	"CO2":          func(m *aquacrop.Model, v float64) { m.CO2.Current = v },
	"zBund": func(m *aquacrop.Model, v float64) {
		m.Field.Bunds, m.Field.ZBund = v > 0, v
	},
	"MulchPct": func(m *aquacrop.Model, v float64) {
		m.Field.Mulches, m.Field.MulchPct = v > 0, v
	},
}

// SweepParams returns the names of the parameters that can be swept.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for n := range sweepParams {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SweepResult holds the outcome of one simulation in a sweep.
type SweepResult struct {
	Value     float64
	MeanYield float64 // [t/ha]
	StdYield  float64 // [t/ha]
	MeanIrr   float64 // seasonal gross irrigation [mm]
	Seasons   []aquacrop.SeasonSummary
}

// Sweep runs one simulation for each value of the named parameter,
// using at most workers simulations at a time. build must return a new,
// independent model each time it is called. Results are in the order
// of values.
func Sweep(ctx context.Context, build func() (*aquacrop.Model, error), param string, values []float64, workers int) ([]SweepResult, error) {
	set, ok := sweepParams[param]
	if !ok {
		return nil, fmt.Errorf("aquacrop: parameter %q cannot be swept; choose one of %v", param, SweepParams())
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("aquacrop: no values given for the sweep")
	}
	if workers < 1 {
		workers = 1
	}
	results := make([]SweepResult, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := build()
			if err != nil {
				return err
			}
			set(m, v)
			if _, err := Simulate(m, nil, nil, false); err != nil {
				return fmt.Errorf("aquacrop: sweep %s=%g: %v", param, v, err)
			}
			r := SweepResult{Value: v, Seasons: m.Outputs.Seasons}
			r.MeanYield, r.StdYield = m.Outputs.YieldStats()
			if n := len(r.Seasons); n > 0 {
				for _, s := range r.Seasons {
					r.MeanIrr += s.Irr
				}
				r.MeanIrr /= float64(n)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SweepRegression fits a line through the mean yields as a function of
// the swept parameter value. It returns NaN values when there are fewer
// than two results.
func SweepRegression(res []SweepResult) (slope, intercept, rsquared float64) {
	if len(res) < 2 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	x := make([]float64, len(res))
	y := make([]float64, len(res))
	for i, r := range res {
		x[i], y[i] = r.Value, r.MeanYield
	}
	slope, intercept, rsquared, _, _, _ = stats.LinearRegression(x, y)
	return slope, intercept, rsquared
}

// printSweep writes a table of sweep results followed by the yield
// quartiles and the regression of yield on the parameter value.
func printSweep(w io.Writer, param string, res []SweepResult) {
	fmt.Fprintf(w, "%12s %12s %12s %12s\n", param, "MeanYield", "StdYield", "MeanIrr")
	y := make([]float64, len(res))
	for i, r := range res {
		fmt.Fprintf(w, "%12g %12.3f %12.3f %12.1f\n", r.Value, r.MeanYield, r.StdYield, r.MeanIrr)
		y[i] = r.MeanYield
	}
	sort.Float64s(y)
	fmt.Fprintf(w, "yield quartiles: %.3f %.3f %.3f\n",
		stat.Quantile(0.25, stat.Empirical, y, nil),
		stat.Quantile(0.5, stat.Empirical, y, nil),
		stat.Quantile(0.75, stat.Empirical, y, nil))
	if slope, intercept, r2 := SweepRegression(res); !math.IsNaN(slope) {
		fmt.Fprintf(w, "yield = %.4g × %s + %.4g (R² = %.3f)\n", slope, param, intercept, r2)
	}
}
