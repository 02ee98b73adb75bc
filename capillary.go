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

import "math"

// maxCapillaryRise returns the upward flux [mm/day] that a water table
// at depth zGW can supply to a compartment whose midpoint is at zMid.
func maxCapillaryRise(c *Compartment, zGW, zMid float64) float64 {
	if c.Ksat <= 0 || zGW <= 0 || zGW-zMid >= 4 {
		return 0
	}
	if zMid >= zGW {
		return 99
	}
	if c.ACR == 0 {
		return 0
	}
	cr := math.Exp((math.Log(zGW-zMid) - c.BCR) / c.ACR)
	return math.Min(cr, 99)
}

// CapillaryRise moves water up from a shallow water table into the
// compartments, starting at the bottom of the profile and stopping at
// the first compartment that already drained or received infiltration
// today. It updates s.Th and returns the total rise [mm].
func CapillaryRise(s *DailyState, p *SoilProfile, fluxOut []float64, waterTable bool) float64 {
	if !waterTable || s.ZGW < 0 {
		return 0
	}
	n := p.NComp()
	zGW := s.ZGW
	zBot := p.Depth()
	bottom := &p.Comp[n-1]
	maxCR := maxCapillaryRise(bottom, zGW, bottom.ZMid)

	var total float64
	for i := n - 1; i >= 0 && math.Round(maxCR*1000) > 0 && math.Round(fluxOut[i]*1000) == 0; i-- {
		c := &p.Comp[i]
		fcAdj := s.ThFCAdj[i]

		df := 1.0
		if s.Th[i] >= c.ThWP && p.FShape > 0 && fcAdj > c.ThWP {
			df = 1 - math.Pow((s.Th[i]-c.ThWP)/(fcAdj-c.ThWP), p.FShape)
			df = clamp(df, 0, 1)
		}
		krel := 1.0
		thThr := (c.ThWP + c.ThFC) / 2
		if s.Th[i] < thThr {
			if s.Th[i] <= c.ThWP || thThr <= c.ThWP {
				krel = 0
			} else {
				krel = (s.Th[i] - c.ThWP) / (thThr - c.ThWP)
			}
		}

		dth := fcAdj - s.Th[i]
		if dth > 0 && zBot-c.Dz/2 < zGW {
			dthMax := krel * df * c.theta(maxCR)
			var cr float64
			if dth >= dthMax {
				s.Th[i] += dthMax
				cr = c.mm(dthMax)
				maxCR = 0
			} else {
				s.Th[i] = fcAdj
				cr = c.mm(dth)
				maxCR = krel*maxCR - cr
			}
			total += cr
		}
		zBot -= c.Dz
		if i > 0 {
			lim := maxCapillaryRise(&p.Comp[i-1], zGW, zBot-p.Comp[i-1].Dz/2)
			if maxCR > lim {
				maxCR = lim
			}
		}
	}
	return total
}
