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

// TranspirationResult is the outcome of one day of crop transpiration.
type TranspirationResult struct {
	TrAct   float64 // actual transpiration [mm]
	TrPot   float64 // potential transpiration given past stress [mm]
	TrPotNS float64 // potential transpiration without stress [mm]
	IrrNet  float64 // net irrigation added to the root zone [mm]
}

// Transpiration extracts crop transpiration first from ponded water and
// then from the root zone. In net irrigation mode the root zone is
// topped up to the net irrigation target instead of rationing
// transpiration for stomatal stress.
func Transpiration(s *DailyState, p *SoilProfile, c *Crop, ic *IrrigationConfig, co2 CO2, et0, gdd float64) TranspirationResult {
	var r TranspirationResult
	if !s.GrowingSeason {
		s.IrrNetCum = 0
		s.Tpot = 0
		return r
	}
	net := ic.Method == NetIrrigation

	dapAdj := float64(s.DAP - s.DelayedCDs)
	if dapAdj > c.MaxCanopyCD {
		s.AgeDaysNS = dapAdj - c.MaxCanopyCD
		s.AgeDays = s.AgeDaysNS
	}
	r.TrPotNS = potentialTranspiration(c, co2, s.AgeDaysNS, s.CCNS, s.CCadjNS, s.CCxWNS, et0)
	trPot0 := potentialTranspiration(c, co2, s.AgeDays, s.CC, s.CCadj, s.CCxW, et0)
	if c.TrColdStress {
		ks := gddStress(c, gdd)
		trPot0 *= ks
		r.TrPotNS *= ks
	}
	s.Tpot = trPot0
	r.TrPot = trPot0

	// Submerged roots.
	var trSurf float64
	trPot := trPot0
	if s.SurfaceStorage > 0 && s.DaySubmerged < c.LagAer {
		s.DaySubmerged++
		for i := range s.AerDaysComp {
			if s.AerDaysComp[i] < c.LagAer {
				s.AerDaysComp[i]++
			}
		}
		fSub := 1 - float64(s.DaySubmerged)/float64(lagFor(c.LagAer))
		// Ponded water supplies only the fraction fSub of the demand;
		// the roots make up for a shortfall of ponded water.
		if s.SurfaceStorage > fSub*trPot0 {
			trSurf = fSub * trPot0
			trPot = 0
		} else {
			trSurf = s.SurfaceStorage
			trPot = trPot0 - trSurf
		}
		s.SurfaceStorage -= trSurf
	}

	rz := RootZoneWater(p, s.Th, s.Zroot, c.Zmin, c.Aer)
	dr, taw := rz.stressZone()
	ksw := WaterStress(c, s.TEarlySen, dr, taw, et0, true)
	ksa, aerDays := AerationStress(s.AerDays, c.LagAer, rz.Th)
	s.AerDays = aerDays
	if !net {
		trPot *= math.Min(ksw.StoLin, ksa)
	}

	rootDepth := round(math.Max(s.Zroot, c.Zmin), 100)
	n := p.compartmentsTo(rootDepth)
	sink := sinkTerms(p, c, rootDepth, s.RCor, n, net)

	want := trPot
	var trAct float64
	for i := 0; i < n && want > 0; i++ {
		cp := &p.Comp[i]
		ks := compartmentStomatalStress(c, cp, s.Th[i], et0)
		aer := s.compartmentAeration(c, cp, i)
		var sx float64
		if net {
			sx = aer * sink[i]
		} else {
			sx = math.Min(ks, aer) * sink[i]
		}
		sx = math.Min(sx, (want/1000)/cp.Dz)
		sx = math.Max(math.Min(sx, s.Th[i]-cp.ThDry), 0)
		s.Th[i] -= sx
		w := sx * 1000 * cp.Dz
		want -= w
		trAct += w
	}

	if net && trPot > 0 {
		r.IrrNet = netIrrigation(s, p, c, ic, rootDepth, n)
		s.IrrNetCum += r.IrrNet
	} else if !net {
		s.IrrNetCum = 0
	}

	r.TrAct = trAct + trSurf
	if s.CC-s.CCprev > 0.005 && r.TrAct == 0 {
		s.CC = s.CCprev
		s.CCadj = microAdvective(s.CC)
	}
	s.TrRatio = 1
	if trPot0 > 0 && r.TrAct < trPot0 {
		s.TrRatio = clamp(r.TrAct/trPot0, 0, 1)
	}
	return r
}

// potentialTranspiration applies the crop coefficient, corrected for
// canopy ageing and CO2, to the canopy cover.
func potentialTranspiration(c *Crop, co2 CO2, ageDays, cc, ccAdj, ccxW, et0 float64) float64 {
	kcb := c.Kcb
	if ageDays > 5 {
		kcb -= (ageDays - 5) * (c.Fage / 100) * ccxW
	}
	if co2.Current > co2.Ref {
		kcb *= 1 - 0.05*((co2.Current-co2.Ref)/(550-co2.Ref))
	}
	tr := math.Max(kcb, 0) * ccAdj * et0
	if cc < ccxW && ccxW > 0.001 && cc > 0.001 {
		tr *= math.Pow(cc/ccxW, c.ATr)
	}
	return tr
}

// sinkTerms returns the maximum root water uptake per compartment
// [m³/m³/day] for the n compartments in a root zone of the given depth.
func sinkTerms(p *SoilProfile, c *Crop, rootDepth, rCor float64, n int, net bool) []float64 {
	sink := make([]float64, n)
	bot := c.SxTop
	for i := 0; i < n; i++ {
		cp := &p.Comp[i]
		if net {
			sink[i] = (c.SxTop + c.SxBot) / 2
		} else {
			top := bot
			if cp.DzSum <= rootDepth {
				bot = c.SxBot*rCor + (c.SxTop-c.SxBot*rCor)*((rootDepth-cp.DzSum)/rootDepth)
			} else {
				bot = c.SxBot * rCor
			}
			sink[i] = (top + bot) / 2
		}
		sink[i] *= cp.fraction(rootDepth)
	}
	return sink
}

// compartmentStomatalStress returns the stomatal stress for water
// content th in compartment cp.
func compartmentStomatalStress(c *Crop, cp *Compartment, th, et0 float64) float64 {
	taw := cp.ThFC - cp.ThWP
	pUp := c.PUp[iSto]
	if c.ETAdj {
		pUp = etAdjust(pUp, et0)
	}
	switch {
	case th >= cp.ThFC-taw*pUp:
		return 1
	case th <= cp.ThWP:
		return 0
	}
	wrel := (cp.ThFC - th) / taw
	prel := (wrel - c.PUp[iSto]) / (c.PLo[iSto] - c.PUp[iSto])
	switch {
	case prel <= 0:
		return 1
	case prel >= 1:
		return 0
	}
	return shapeStress(prel, c.FShapeW[iSto])
}

// compartmentAeration updates the waterlogging counter of compartment i
// and returns its aeration stress factor.
func (s *DailyState) compartmentAeration(c *Crop, cp *Compartment, i int) float64 {
	aerTh := cp.ThS - c.Aer/100
	switch {
	case s.DaySubmerged >= c.LagAer:
		return 0
	case s.Th[i] > aerTh:
		s.AerDaysComp[i]++
		fAer := 1.0
		if s.AerDaysComp[i] >= c.LagAer {
			s.AerDaysComp[i] = c.LagAer
			fAer = 0
		}
		aer := 1.0
		if cp.ThS > aerTh {
			aer = math.Max((cp.ThS-s.Th[i])/(cp.ThS-aerTh), 0)
		}
		d := fAer + float64(s.AerDaysComp[i]-1)
		if d <= 0 {
			return aer
		}
		return (fAer + float64(s.AerDaysComp[i]-1)*aer) / d
	default:
		s.AerDaysComp[i] = 0
		return 1
	}
}

// netIrrigation raises every rooted compartment that is drier than the
// net irrigation target to that target and returns the water added [mm].
func netIrrigation(s *DailyState, p *SoilProfile, c *Crop, ic *IrrigationConfig, rootDepth float64, n int) float64 {
	rz := RootZoneWater(p, s.Th, s.Zroot, c.Zmin, c.Aer)
	s.Depletion, s.TAW = rz.Dr.Rz, rz.TAW.Rz
	if rz.Th.Act >= rz.Th.WP+(ic.NetIrrSMT/100)*(rz.Th.FC-rz.Th.WP) {
		return 0
	}
	var irr float64
	for i := 0; i < n; i++ {
		cp := &p.Comp[i]
		thCrit := cp.ThWP + (ic.NetIrrSMT/100)*(cp.ThFC-cp.ThWP)
		dw := cp.fraction(rootDepth) * cp.mm(thCrit-s.Th[i])
		if dw <= 0 {
			continue
		}
		s.Th[i] += cp.theta(dw)
		irr += dw
	}
	return irr
}
