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

// InfiltrationResult holds the daily totals after infiltration.
type InfiltrationResult struct {
	DeepPerc float64 // total deep percolation including drainage [mm]
	Runoff   float64 // total surface runoff including rainfall runoff [mm]
	Infl     float64 // net infiltration [mm]
}

// Infiltration routes the rain infiltration infl and the irrigation irr
// [mm] through surface storage and into the profile. deepPerc0 and
// runoff0 are the drainage and rainfall runoff already computed today.
// s.Th, s.SurfaceStorage and fluxOut are updated in place.
func Infiltration(s *DailyState, p *SoilProfile, fm *FieldManagement, appEff, infl, irr, deepPerc0, runoff0 float64, fluxOut []float64) InfiltrationResult {
	if s.GrowingSeason {
		infl += irr * (appEff / 100)
	}
	ksatTop := p.Comp[0].Ksat
	zBund := fm.ZBund * 1000

	var toStore, runoffIni float64
	switch {
	case fm.bunded():
		inflTot := infl + s.SurfaceStorage
		if inflTot > 0 {
			if inflTot > ksatTop {
				toStore = ksatTop
				s.SurfaceStorage = inflTot - ksatTop
			} else {
				toStore = inflTot
				s.SurfaceStorage = 0
			}
			if s.SurfaceStorage > zBund {
				runoffIni = s.SurfaceStorage - zBund
				s.SurfaceStorage = zBund
			}
		}
	default:
		if infl > ksatTop {
			toStore = ksatTop
			runoffIni = infl - ksatTop
		} else {
			toStore = infl
		}
		// Water left behind removed bunds runs off.
		runoffIni += s.SurfaceStorage
		s.SurfaceStorage = 0
	}

	var runoff, deepPerc float64
	for i := 0; toStore > 0 && i < p.NComp(); i++ {
		c := &p.Comp[i]
		fcAdj := s.ThFCAdj[i]
		dthdtS := c.Tau * (c.ThS - c.ThFC)

		var theta0, drainMax float64
		if dthdtS <= 0 {
			theta0 = c.ThS
		} else {
			factor := c.Ksat / (dthdtS * 1000 * c.Dz)
			dthdt0 := c.theta(toStore)
			if dthdt0 < dthdtS {
				theta0 = thetaForRate(dthdt0, c, fcAdj)
				if theta0 > c.ThS {
					theta0 = c.ThS
				} else if theta0 <= fcAdj {
					theta0 = fcAdj
					dthdt0 = 0
				}
			} else {
				theta0 = c.ThS
				dthdt0 = dthdtS
			}
			drainMax = factor * c.mm(dthdt0)
			if drainMax+fluxOut[i] > c.Ksat {
				drainMax = c.Ksat - fluxOut[i]
			}
			if drainMax < 0 {
				drainMax = 0
			}
		}

		if theta0-s.Th[i] > 0 {
			s.Th[i] += c.theta(toStore)
			if s.Th[i] > theta0 {
				toStore = c.mm(s.Th[i] - theta0)
				s.Th[i] = theta0
			} else {
				toStore = 0
			}
		}
		fluxOut[i] += toStore

		excess := toStore - drainMax
		if excess < 0 {
			excess = 0
		}
		toStore -= excess
		for j := i; excess > 0 && j >= 0; j-- {
			cj := &p.Comp[j]
			fluxOut[j] -= excess
			s.Th[j] += cj.theta(excess)
			if s.Th[j] > cj.ThS {
				excess = cj.mm(s.Th[j] - cj.ThS)
				s.Th[j] = cj.ThS
			} else {
				excess = 0
			}
		}
		runoff += excess
	}
	deepPerc = toStore

	runoff += runoffIni
	if runoff > runoffIni && fm.bunded() {
		s.SurfaceStorage += runoff - runoffIni
		if s.SurfaceStorage > zBund {
			runoff = runoffIni + (s.SurfaceStorage - zBund)
			s.SurfaceStorage = zBund
		} else {
			runoff = runoffIni
		}
	}
	return InfiltrationResult{
		DeepPerc: deepPerc + deepPerc0,
		Runoff:   runoff + runoff0,
		Infl:     infl - runoff,
	}
}
