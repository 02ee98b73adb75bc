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

// HIRefCurrentDay advances the reference harvest index: logistic growth
// from the start of yield formation, switching to linear growth for
// fruit and grain crops. It stops increasing once the canopy has
// collapsed below c.CCmin of its maximum.
func HIRefCurrentDay(s *DailyState, c *Crop) {
	if !s.GrowingSeason {
		s.YieldForm = false
		s.HIref = 0
		s.PctLagPhase = 0
		return
	}
	s.YieldForm = c.tAdj(s) > c.HIStart
	tHI := float64(s.DAP-s.DelayedCDs) - c.HIStartCD - 1
	if tHI <= 0 {
		s.HIref = 0
		s.PctLagPhase = 0
		return
	}
	if s.CCprev <= c.CCmin*c.CCx {
		return
	}
	logistic := func(t float64) float64 {
		return (c.HIini * c.HI0) / (c.HIini + (c.HI0-c.HIini)*math.Exp(-c.HIGC*t))
	}
	switch {
	case c.CropType != FruitGrain:
		s.PctLagPhase = 100
		s.HIref = logistic(tHI)
		if s.HIref >= 0.9799*c.HI0 {
			s.HIref = c.HI0
		}
	case tHI < c.TLinSwitch:
		s.PctLagPhase = 100 * (tHI / c.TLinSwitch)
		s.HIref = logistic(tHI)
	default:
		s.PctLagPhase = 100
		s.HIref = logistic(c.TLinSwitch) + c.DHILinear*(tHI-c.TLinSwitch)
	}
	switch {
	case s.HIref > c.HI0:
		s.HIref = c.HI0
	case s.HIref <= c.HIini+0.004:
		s.HIref = 0
	case c.HI0-s.HIref < 0.004:
		s.HIref = c.HI0
	}
}

// HarvestIndex adjusts today's reference harvest index for water stress
// before anthesis, failure of pollination and water stress after
// anthesis.
func HarvestIndex(s *DailyState, p *SoilProfile, c *Crop, et0, tmax, tmin, gdd float64) {
	hit := float64(s.DAP-s.DelayedCDs) - c.HIStartCD - 1
	if !s.GrowingSeason || !s.YieldForm || hit < 0 {
		return
	}
	rz := RootZoneWater(p, s.Th, s.Zroot, c.Zmin, c.Aer)
	dr, taw := rz.stressZone()
	ksw := WaterStress(c, s.TEarlySen, dr, taw, et0, true)
	kst := TemperatureStress(c, tmax, tmin, gdd)
	hii := s.HIref
	if c.CropType == LeafyVegetable {
		s.HI, s.HIadj = hii, hii
		return
	}
	if !s.PreAdj {
		s.PreAdj = true
		s.Fpre = preAnthesisFactor(s, c)
	}
	hiMax := c.HI0
	if c.CropType == FruitGrain {
		if hit > 0 && hit <= c.FloweringCD {
			pollination(s, c, ksw, kst, hit)
		}
		hiMax = s.Fpol * c.HI0
	}
	if hit > 0 {
		postAnthesis(s, c, ksw)
	}
	mult := math.Min(s.Fpre*s.Fpost, 1+c.DHI0/100)
	s.HI = hii
	s.HIadj = mult * math.Min(hii, hiMax)
}

// preAnthesisFactor compares the biomass to the no-stress biomass at
// the start of yield formation. Mild stress raises the harvest index.
func preAnthesisFactor(s *DailyState, c *Crop) float64 {
	if s.CC <= 0.01 {
		return 0
	}
	if c.DHIPre <= 0 || s.BNS <= 0 {
		return 1
	}
	br := s.B / s.BNS
	rng := math.Log(c.DHIPre) / 5.62
	upp := 1.0
	low := 1 - rng
	top := upp - rng/3
	switch {
	case br >= low && br < top:
		r := (br - low) / (top - low)
		return 1 + ((1+math.Sin((1.5-r)*math.Pi))/2)*(c.DHIPre/100)
	case br > top && br <= upp:
		r := (br - top) / (upp - top)
		return 1 + ((1+math.Sin((0.5+r)*math.Pi))/2)*(c.DHIPre/100)
	}
	return 1
}

// fractionFlowering returns the cumulative fraction of flowers at day t
// of a flowering period of the given length.
func fractionFlowering(t, length float64) float64 {
	if t <= 0 {
		return 0
	}
	pct := math.Min(100*(t/length), 100)
	return math.Max(0.00558*math.Exp(0.63*math.Log(pct))-0.000969*pct-0.00383, 0)
}

// pollination accumulates the fraction of successfully pollinated
// flowers on day hit of flowering.
func pollination(s *DailyState, c *Crop, ksw Ksw, kst Kst, hit float64) {
	f1 := fractionFlowering(hit-1, c.FloweringCD)
	f2 := fractionFlowering(hit, c.FloweringCD)
	var f float64
	if math.Abs(f1-f2) >= 1e-7 {
		f = 100 * ((f1 + f2) / 2) / c.FloweringCD
	}
	var dF float64
	if s.CC >= 0.01 {
		ks := math.Min(ksw.Pol, math.Min(kst.PolC, kst.PolH))
		dF = ks * f * (1 + c.Exc/100)
	}
	s.Fpol = math.Min(s.Fpol+dF, 1)
}

// postAnthesis accumulates the corrections for leaf expansion and
// stomatal stress during yield formation and combines them.
func postAnthesis(s *DailyState, c *Crop, ksw Ksw) {
	dap := float64(s.DAP - s.DelayedCDs)
	dayCor := dap - 1 - c.HIStartCD
	tmax1 := math.Max(c.CanopyDevEndCD-c.HIStartCD, 0)
	tmax2 := math.Max(c.YldFormCD, 0)
	if dayCor > 0 && s.Fpre > 0.99 && s.CC > 0.001 {
		if dap <= c.CanopyDevEndCD+1 && tmax1 > 0 && c.AHI > 0 {
			s.SCor1 += (1 + (1-ksw.Exp)/c.AHI) / tmax1
			s.FpostUpp = (tmax1 / dayCor) * s.SCor1
		}
		if dap <= c.HIEndCD+1 && tmax2 > 0 && c.BHI > 0 {
			s.SCor2 += math.Pow(ksw.Sto, 0.1) * (1 - (1-ksw.Sto)/c.BHI) / tmax2
			s.FpostDwn = (tmax2 / dayCor) * s.SCor2
		}
	}
	switch {
	case tmax1 == 0 && tmax2 == 0:
		s.Fpost = 1
	case tmax2 == 0:
		s.Fpost = s.FpostUpp
	case tmax1 == 0:
		s.Fpost = s.FpostDwn
	case tmax1 <= tmax2:
		s.Fpost = s.FpostDwn * ((tmax1*s.FpostUpp + (tmax2 - tmax1)) / tmax2)
	default:
		s.Fpost = s.FpostUpp * ((tmax2*s.FpostDwn + (tmax1 - tmax2)) / tmax1)
	}
}
