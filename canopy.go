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

// Canopy development modes.
const (
	ccGrowth  = iota // exponential then asymptotic increase
	ccDecline        // senescence
)

// ccDevelopment returns the canopy cover dt time units after the start
// of the growth or decline phase. ccx0 is the reference maximum used to
// scale the decline rate.
func ccDevelopment(cc0, ccx, cgc, cdc, dt float64, mode int, ccx0 float64) float64 {
	var cc float64
	if mode == ccGrowth {
		cc = cc0 * math.Exp(cgc*dt)
		if cc > ccx/2 {
			cc = ccx - 0.25*(ccx/cc0)*ccx*math.Exp(-cgc*dt)
		}
		cc = math.Min(cc, ccx)
	} else {
		if ccx < 0.001 {
			return 0
		}
		k := dt * cdc * 3.33 * ((ccx + 2.29) / (ccx0 + 2.29)) / (ccx + 2.29)
		cc = ccx * (1 - 0.05*(math.Exp(k)-1))
	}
	return clamp(cc, 0, 1)
}

// ccRequiredTime inverts ccDevelopment: it returns the time needed to
// reach ccPrev with the given coefficients.
func ccRequiredTime(ccPrev, cc0, ccx, cgc, cdc float64, mode int) float64 {
	if mode == ccGrowth {
		var x float64
		if ccPrev <= ccx/2 {
			x = math.Log(ccPrev / cc0)
		} else {
			x = math.Log((0.25 * ccx * ccx / cc0) / (ccx - ccPrev))
		}
		return x / cgc
	}
	return math.Log(1+(1-ccPrev/ccx)/0.05) / (cdc / ccx)
}

// adjustCCx returns the maximum canopy cover that can still be reached
// by the end of canopy development when growing with cgc from ccPrev.
func adjustCCx(c *Crop, ccPrev, cc0, cgc, dt, t float64) float64 {
	tReq := ccRequiredTime(ccPrev, cc0, c.CCx, cgc, c.CDC, ccGrowth)
	if tReq <= 0 {
		return 0
	}
	tReq += (c.CanopyDevEnd - t) + dt
	return ccDevelopment(cc0, c.CCx, cgc, c.CDC, tReq, ccGrowth, c.CCx)
}

// updateCCxCDC back-calculates the maximum canopy cover and decline
// coefficient consistent with a canopy of ccPrev dt units into decline.
func updateCCxCDC(ccPrev, cdc, ccx, dt float64) (ccxAdj, cdcAdj float64) {
	ccxAdj = ccPrev / (1 - 0.05*(math.Exp(dt*((cdc*3.33)/(ccx+2.29)))-1))
	cdcAdj = cdc * ((ccxAdj + 2.29) / (ccx + 2.29))
	return
}

// CanopyCover advances the actual and the non-stressed canopy cover by
// one day. Water stress slows canopy expansion and, when severe, starts
// early senescence; a canopy that falls below 0.1 % kills the crop.
func CanopyCover(s *DailyState, p *SoilProfile, c *Crop, gdd, et0 float64) {
	s.CCprev = s.CC
	if !s.GrowingSeason {
		s.CC, s.CCadj, s.CCNS, s.CCadjNS = 0, 0, 0, 0
		s.CCxW, s.CCxWNS, s.CCxAct, s.CCxActNS = 0, 0, 0, 0
		return
	}
	dt := c.step(gdd)
	tNow := c.tNow(s)
	t := c.tAdj(s)
	potentialCanopy(s, c, tNow, dt)

	rz := RootZoneWater(p, s.Th, s.Zroot, c.Zmin, c.Aer)
	dr, taw := rz.stressZone()
	ksw := WaterStress(c, s.TEarlySen, dr, taw, et0, true)

	ccPrev := s.CCprev
	switch {
	case s.CropDead:
		s.CC = 0
	case t < c.Emergence || math.Round(t) > c.Maturity:
		s.CC = 0
		s.CC0adj = c.CC0
	case t < c.CanopyDevEnd:
		switch {
		case ccPrev <= s.CC0adj || (s.ProtectedSeed && ccPrev <= 1.25*s.CC0adj):
			// Seedlings grow without leaf expansion stress.
			s.CC = math.Max(ccPrev, s.CC0adj) * math.Exp(c.CGC*dt)
			s.ProtectedSeed = true
		case ccPrev < 0.9799*c.CCx:
			s.CC = stressedGrowth(s, c, ccPrev, ksw.Exp, dt, t)
		default:
			// Close to CCx: follow the unstressed curve.
			s.CC = ccDevelopment(c.CC0, c.CCx, c.CGC, c.CDC, t-c.Emergence, ccGrowth, c.CCx)
			s.CC0adj = c.CC0
		}
		if s.CC > 1.25*s.CC0adj {
			s.ProtectedSeed = false
		}
		s.CCxAct = math.Max(s.CCxAct, s.CC)
	case t > c.CanopyDevEnd:
		if t < c.Senescence {
			s.CC = ccPrev
			s.CCxAct = math.Max(s.CCxAct, s.CC)
		} else {
			cdc := c.CDC * (s.CCxAct + 2.29) / (c.CCx + 2.29)
			s.CC = ccDevelopment(s.CC0adj, s.CCxAct, c.CGC, cdc, t-c.Senescence, ccDecline, s.CCxAct)
		}
		s.checkDeath()
	}

	if !s.CropDead && t >= c.Emergence && (t < c.Senescence || s.TEarlySen > 0) {
		if ksw.Sen < 1 && !s.ProtectedSeed {
			earlySenescence(s, c, ccPrev, dr, taw, et0, dt, t)
			s.checkDeath()
		} else {
			s.PrematSenes = false
			if t > c.Senescence && s.TEarlySen > 0 {
				rewater(s, c, ccPrev, dt, t)
				s.checkDeath()
			}
			s.TEarlySen = 0
		}
	}
	if s.CropDead {
		s.CC = 0
	}
	s.CC = clamp(s.CC, 0, 1)

	if s.CCNS < s.CC {
		s.CCNS = s.CC
		if tNow < c.CanopyDevEnd {
			s.CCxActNS = s.CCNS
		}
	}
	s.CCadj = microAdvective(s.CC)
	s.CCadjNS = microAdvective(s.CCNS)
	s.CCxW = math.Max(s.CCxW, s.CC)
	s.CCxWNS = math.Max(s.CCxWNS, s.CCNS)
}

// checkDeath ends crop growth once the actual canopy is negligible.
func (s *DailyState) checkDeath() {
	if s.CC < 0.001 && !s.CropDead {
		s.CC = 0
		s.CropDead = true
	}
}

// potentialCanopy advances the canopy the crop would have without water
// stress or germination delay.
func potentialCanopy(s *DailyState, c *Crop, t, dt float64) {
	switch {
	case t < c.Emergence || math.Round(t) > c.Maturity:
		s.CCNS = 0
	case t < c.CanopyDevEnd:
		if s.CCNS <= c.CC0 {
			s.CCNS = c.CC0 * math.Exp(c.CGC*dt)
		} else {
			s.CCNS = ccDevelopment(c.CC0, 0.98*c.CCx, c.CGC, c.CDC, t-c.Emergence, ccGrowth, c.CCx)
		}
		s.CCxActNS = s.CCNS
	case t > c.CanopyDevEnd:
		if t < c.Senescence {
			s.CCxActNS = s.CCNS
		} else {
			s.CCNS = ccDevelopment(c.CC0, s.CCxActNS, c.CGC, c.CDC, t-c.Senescence, ccDecline, s.CCxActNS)
		}
	}
}

// stressedGrowth grows the canopy from ccPrev with the canopy growth
// coefficient reduced by the leaf expansion stress ksExp.
func stressedGrowth(s *DailyState, c *Crop, ccPrev, ksExp, dt, t float64) float64 {
	cgc := c.CGC * ksExp
	if cgc <= 0 {
		if ccPrev > s.CC0adj {
			s.CC0adj = c.CC0
		} else {
			s.CC0adj = ccPrev
		}
		return ccPrev
	}
	ccx := adjustCCx(c, ccPrev, s.CC0adj, cgc, dt, t)
	switch {
	case ccx < 0:
		return ccPrev
	case math.Abs(ccPrev-0.9799*c.CCx) < 0.001:
		return ccDevelopment(c.CC0, c.CCx, c.CGC, c.CDC, t-c.Emergence, ccGrowth, c.CCx)
	}
	tReq := ccRequiredTime(ccPrev, s.CC0adj, ccx, cgc, c.CDC, ccGrowth)
	if !(tReq > 0) {
		return ccPrev
	}
	return ccDevelopment(s.CC0adj, ccx, cgc, c.CDC, tReq+dt, ccGrowth, c.CCx)
}

// earlySenescence applies canopy decline caused by water stress. The
// decline rate uses the senescence stress without the early senescence
// threshold shift.
func earlySenescence(s *DailyState, c *Crop, ccPrev, dr, taw, et0, dt, t float64) {
	s.PrematSenes = true
	if s.TEarlySen == 0 {
		s.CCxEarlySen = ccPrev
	}
	s.TEarlySen += dt
	ksSen := WaterStress(c, s.TEarlySen, dr, taw, et0, false).Sen
	cdc := 0.0001
	if ksSen <= 0.99999 {
		cdc = (1 - math.Pow(ksSen, 8)) * c.CDC
	}
	var ccSen float64
	if s.CCxEarlySen >= 0.001 {
		r := (cdc * 3.33) / (s.CCxEarlySen + 2.29)
		tReq := math.Log(1+(1-ccPrev/s.CCxEarlySen)/0.05) / r
		ccSen = s.CCxEarlySen * (1 - 0.05*(math.Exp((tReq+dt)*r)-1))
		ccSen = math.Max(ccSen, 0)
	}
	if t < c.Senescence {
		ccSen = math.Min(ccSen, c.CCx)
		s.CC = math.Min(ccSen, ccPrev)
		s.CCxAct = s.CC
		if s.CC < c.CC0 {
			s.CC0adj = s.CC
		} else {
			s.CC0adj = c.CC0
		}
	} else if ccSen < s.CC {
		s.CC = ccSen
	}
}

// rewater restarts the late-season decline from the current canopy once
// stress that caused early senescence is relieved.
func rewater(s *DailyState, c *Crop, ccPrev, dt, t float64) {
	ccxAdj, cdcAdj := updateCCxCDC(ccPrev, c.CDC, c.CCx, t-dt-c.Senescence)
	s.CCxAct = ccxAdj
	s.CC = ccDevelopment(s.CC0adj, ccxAdj, c.CGC, cdcAdj, t-c.Senescence, ccDecline, ccxAdj)
}

// microAdvective adjusts canopy cover for micro-advective effects.
func microAdvective(cc float64) float64 {
	return clamp(1.72*cc-cc*cc+0.3*cc*cc*cc, 0, 1)
}
