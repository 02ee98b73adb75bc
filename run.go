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

package aquacrop

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Log writes simulation status messages to l: one debug record per day
// and one info record per harvest.
func Log(l logrus.FieldLogger) DayManipulator {
	startTime := time.Now()
	harvests := 0
	return func(m *Model) error {
		if m.Day == 0 {
			return nil
		}
		f := m.Today
		l.WithFields(logrus.Fields{
			"day":    m.Day,
			"date":   f.Date.Format(dateFormat),
			"season": f.Season,
			"dap":    f.DAP,
			"cc":     fmt.Sprintf("%.3f", m.State.CC),
			"tr":     fmt.Sprintf("%.2f", f.Tr),
			"es":     fmt.Sprintf("%.2f", f.Es),
		}).Debug("aquacrop: day complete")
		if len(m.Outputs.Seasons) > harvests {
			harvests = len(m.Outputs.Seasons)
			sum := m.Outputs.Seasons[harvests-1]
			l.WithFields(logrus.Fields{
				"season":   sum.Season,
				"crop":     sum.Crop,
				"harvest":  sum.HarvestDate.Format(dateFormat),
				"yield":    fmt.Sprintf("%.3f", sum.Yield),
				"irr":      fmt.Sprintf("%.1f", sum.Irr),
				"walltime": time.Since(startTime).Round(time.Millisecond),
			}).Info("aquacrop: harvest")
		}
		return nil
	}
}

// CheckInvariants returns a function that checks the state after each
// day against its physical bounds.
func CheckInvariants() DayManipulator {
	const tol = 1e-9
	var dead bool
	season := -1
	return func(m *Model) error {
		s := m.State
		fail := func(format string, args ...interface{}) error {
			return &SimulationError{
				Kind: ErrStateInvariant,
				Step: "check invariants",
				Day:  m.Day - 1,
				Date: m.Date,
				Err:  fmt.Errorf(format, args...),
			}
		}
		for i, c := range m.Soil.Comp {
			th := s.Th[i]
			if math.IsNaN(th) || th < c.ThDry-tol || th > c.ThS+tol {
				return fail("compartment %d water content %g outside [%g, %g]", i, th, c.ThDry, c.ThS)
			}
		}
		if math.IsNaN(s.CC) || s.CC < 0 || s.CC > 1 {
			return fail("canopy cover %g outside [0, 1]", s.CC)
		}
		if s.SurfaceStorage < -tol {
			return fail("negative surface storage %g", s.SurfaceStorage)
		}
		if m.Season != season {
			season = m.Season
			dead = false
		}
		if dead && s.GrowingSeason && !s.CropDead {
			return fail("crop came back to life")
		}
		dead = dead || s.CropDead
		if irr := m.Today.Irr; irr > m.Irrigation.MaxIrr+tol {
			return fail("irrigation %g exceeds the daily maximum %g", irr, m.Irrigation.MaxIrr)
		}
		if s.IrrCum > m.Irrigation.MaxIrrSeason+tol {
			return fail("seasonal irrigation %g exceeds the maximum %g", s.IrrCum, m.Irrigation.MaxIrrSeason)
		}
		for _, v := range []float64{s.B, s.Y, s.Zroot, m.Today.Es, m.Today.Tr} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &SimulationError{Kind: ErrNumericGuard, Step: "check invariants", Day: m.Day - 1, Date: m.Date}
			}
		}
		return nil
	}
}
