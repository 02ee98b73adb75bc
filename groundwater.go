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
	"math"
	"sort"
	"time"
)

// WaterTableDepth returns the water table depth [m] on day t, linearly
// interpolated between the dated entries of g. It returns -999 when
// there is no water table.
func (g *GroundwaterConfig) WaterTableDepth(t time.Time) float64 {
	if !g.Present || len(g.Depths) == 0 {
		return -999
	}
	dates := make([]time.Time, 0, len(g.Depths))
	for d := range g.Depths {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	xs := make([]float64, len(dates))
	ys := make([]float64, len(dates))
	for i, d := range dates {
		xs[i] = float64(d.Unix())
		ys[i] = g.Depths[d]
	}
	return interpolate(xs, ys, float64(dateOnly(t).Unix()))
}

// CheckGroundwaterTable sets today's water table depth zGW [m], raises
// compartments below it to saturation and adjusts field capacity in the
// capillary fringe. It returns the water added to the profile [mm].
func CheckGroundwaterTable(s *DailyState, p *SoilProfile, waterTable bool, zGW float64) float64 {
	if !waterTable {
		return 0
	}
	s.ZGW = zGW
	s.WTInSoil = zGW >= 0 && zGW <= p.Comp[p.NComp()-1].ZMid
	added := saturateBelowTable(s, p)

	i := p.NComp() - 1
	for i >= 0 {
		c := &p.Comp[i]
		var xMax float64
		switch {
		case c.ThFC <= 0.1:
			xMax = 1
		case c.ThFC >= 0.3:
			xMax = 2
		default:
			pF := 2 + 0.3*(c.ThFC-0.1)/0.2
			xMax = math.Pow(10, pF) / 100
		}
		if zGW < 0 || zGW-c.ZMid >= xMax {
			for j := 0; j <= i; j++ {
				s.ThFCAdj[j] = p.Comp[j].ThFC
			}
			break
		}
		switch {
		case c.ThFC >= c.ThS:
			s.ThFCAdj[i] = c.ThFC
		case c.ZMid >= zGW:
			s.ThFCAdj[i] = c.ThS
		default:
			dV := c.ThS - c.ThFC
			dFC := (dV / (xMax * xMax)) * math.Pow(c.ZMid-(zGW-xMax), 2)
			s.ThFCAdj[i] = c.ThFC + dFC
		}
		i--
	}
	return added
}

// GroundwaterInflow refills to saturation every compartment whose
// midpoint is below the water table, returning the inflow [mm].
func GroundwaterInflow(s *DailyState, p *SoilProfile) float64 {
	if !s.WTInSoil {
		return 0
	}
	return saturateBelowTable(s, p)
}

func saturateBelowTable(s *DailyState, p *SoilProfile) float64 {
	if !s.WTInSoil {
		return 0
	}
	var in float64
	for i := range p.Comp {
		c := &p.Comp[i]
		if c.ZMid >= s.ZGW && s.Th[i] < c.ThS {
			in += c.mm(c.ThS - s.Th[i])
			s.Th[i] = c.ThS
		}
	}
	return in
}
