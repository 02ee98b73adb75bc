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

// evapSubSteps is the number of intraday steps of stage-2 evaporation.
const evapSubSteps = 20

// resetEvaporation shrinks the evaporation layer to its minimum depth
// and records its relative wetness as the start of stage 2.
func (s *DailyState) resetEvaporation(p *SoilProfile) {
	s.Stage2 = false
	s.EvapZ = p.EvapZMin
	s.setWstage2(p)
}

// setWstage2 records the current wetness of the evaporation layer as the
// reference for stage-2 evaporation.
func (s *DailyState) setWstage2(p *SoilProfile) {
	act, sat, fc, _, _, _ := zoneSums(p, s.Th, s.EvapZ, 0)
	s.Wstage2 = 0
	if d := sat - (fc - p.REW); d > 0 {
		s.Wstage2 = math.Max(round((act-(fc-p.REW))/d, 100), 0)
	}
}

// SoilEvaporation removes evaporation from the ponded surface and the
// soil and returns the actual and potential evaporation [mm]. infl,
// precip and irr are today's infiltration, rainfall and irrigation.
func SoilEvaporation(s *DailyState, p *SoilProfile, c *Crop, fm *FieldManagement, ic *IrrigationConfig,
	et0, infl, precip, irr float64) (esAct, esPot float64) {

	if s.DAP == 1 {
		s.resetEvaporation(p)
	}
	if (precip > 0 || (irr > 0 && ic.Method != NetIrrigation)) && infl > 0 {
		s.resetEvaporation(p)
		s.Wsurf = math.Min(infl, p.REW)
	}

	esPot = potentialEvaporation(s, p, c, et0)
	s.Epot = esPot

	esPotMul := esPot
	if fm.Mulches {
		esPotMul = esPot * (1 - fm.FMulch*(fm.MulchPct/100))
	}
	esPotIrr := esPot
	if irr > 0 && ic.Method != NetIrrigation && precip <= 1 && s.SurfaceStorage == 0 {
		esPotIrr = esPot * (ic.WetSurf / 100)
	}
	esPot = math.Min(esPotMul, esPotIrr)

	if s.SurfaceStorage > 0 {
		if s.SurfaceStorage > esPot {
			s.SurfaceStorage -= esPot
			return esPot, esPot
		}
		esAct = s.SurfaceStorage
		s.SurfaceStorage = 0
		s.Wsurf = p.REW
		s.Wstage2 = 0
		s.EvapZ = p.EvapZMin
		s.Stage2 = false
	}

	// Stage 1.
	if !s.Stage2 && esAct < esPot && s.Wsurf > 0 {
		want := math.Min(esPot-esAct, s.Wsurf)
		got := extractEvaporation(p, s.Th, p.EvapZMin, want)
		esAct += got
		s.Wsurf -= got
		if s.Wsurf < 0.0001 {
			s.Wsurf = 0
			s.Stage2 = true
			s.setWstage2(p)
		}
	}
	if s.Wsurf <= 0 {
		s.Stage2 = true
	}

	// Stage 2.
	if s.Stage2 && esAct < esPot {
		dEs := (esPot - esAct) / evapSubSteps
		for j := 0; j < evapSubSteps; j++ {
			wrel := stage2Wetness(s, p)
			if p.EvapZMax > p.EvapZMin {
				for s.EvapZ < p.EvapZMax && wrel < p.FWrelExp*((p.EvapZMax-s.EvapZ)/(p.EvapZMax-p.EvapZMin)) {
					s.EvapZ = math.Min(s.EvapZ+0.001, p.EvapZMax)
					wrel = stage2Wetness(s, p)
				}
			}
			kr := math.Min((math.Exp(p.FEvap*wrel)-1)/(math.Exp(p.FEvap)-1), 1)
			esAct += extractEvaporation(p, s.Th, s.EvapZ, kr*dEs)
		}
	}
	return esAct, esPot
}

// potentialEvaporation returns the potential soil evaporation [mm]
// under today's canopy. Late in the season the residual effect of the
// withered canopy limits it, but never below the evaporation under the
// largest canopy of the season.
func potentialEvaporation(s *DailyState, p *SoilProfile, c *Crop, et0 float64) float64 {
	if !s.GrowingSeason {
		return p.Kex * et0
	}
	esPot := p.Kex * (1 - s.CCadj) * et0
	esPotMax := p.Kex * et0 * (1 - s.CCxW*(p.FWCC/100))
	if c.tAdj(s) > c.Senescence && s.CCxAct > 0 {
		mult := 1.0
		if s.CC > s.CCxAct/2 {
			if s.CC > s.CCxAct {
				mult = 0
			} else {
				mult = (s.CCxAct - s.CC) / (s.CCxAct / 2)
			}
		}
		esPot *= 1 - s.CCxAct*(p.FWCC/100)*mult
		esPotMin := math.Max(p.Kex*(1-microAdvective(s.CCxAct))*et0, 0)
		esPot = clamp(esPot, esPotMin, esPotMax)
	}
	if s.PrematSenes {
		esPot = math.Min(esPot, esPotMax)
	}
	return math.Max(esPot, 0)
}

// stage2Wetness returns the wetness of the evaporation layer relative to
// its value at the start of stage 2.
func stage2Wetness(s *DailyState, p *SoilProfile) float64 {
	act, sat, fc, _, dry, _ := zoneSums(p, s.Th, s.EvapZ, 0)
	upper := s.Wstage2*(sat-(fc-p.REW)) + (fc - p.REW)
	if upper <= dry {
		return 0
	}
	return clamp((act-dry)/(upper-dry), 0, 1)
}

// extractEvaporation removes up to want [mm] from the compartments above
// depth z, top down, without drying any below air-dry. It returns the
// amount removed.
func extractEvaporation(p *SoilProfile, th []float64, z, want float64) float64 {
	var got float64
	n := p.compartmentsTo(z)
	for i := 0; i < n && want > 0; i++ {
		c := &p.Comp[i]
		avail := math.Max(c.mm(th[i])-c.mm(c.ThDry), 0) * c.fraction(z)
		take := math.Min(avail, want)
		th[i] -= c.theta(take)
		want -= take
		got += take
	}
	return got
}
