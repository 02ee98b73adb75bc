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

// GrowingDegreeDay returns the growing degree days for a day with the
// given temperature extremes, using one of three methods of clipping to
// the base and upper temperatures.
func GrowingDegreeDay(method int, tupp, tbase, tmax, tmin float64) float64 {
	var tmean float64
	switch method {
	case 1:
		tmean = clamp((tmax+tmin)/2, tbase, tupp)
	case 2:
		tmax = clamp(tmax, tbase, tupp)
		tmin = clamp(tmin, tbase, tupp)
		tmean = (tmax + tmin) / 2
	default:
		tmax = clamp(tmax, tbase, tupp)
		tmin = math.Min(tmin, tupp)
		tmean = math.Max((tmax+tmin)/2, tbase)
	}
	return tmean - tbase
}

// Germination sets s.Germination once the water content of the
// germination layer, relative to the range between wilting point and
// field capacity, reaches c.GermThr. Until then the delay counters are
// incremented.
func Germination(s *DailyState, p *SoilProfile, c *Crop, gdd float64) {
	if !s.GrowingSeason {
		s.Germination = false
		s.DelayedCDs, s.DelayedGDDs = 0, 0
		return
	}
	if s.Germination {
		return
	}
	act, _, fc, wp, _, _ := zoneSums(p, s.Th, p.ZGerm, 0)
	act = math.Max(act, 0)
	prop := 1.0
	if fc > wp {
		prop = 1 - (fc-act)/(fc-wp)
	}
	if prop >= c.GermThr {
		s.Germination = true
		return
	}
	s.DelayedCDs++
	s.DelayedGDDs += gdd
}

// GrowthStage classifies the development time into the four growth
// stages used for irrigation targets; it is zero outside the season.
func GrowthStage(s *DailyState, c *Crop) {
	if !s.GrowingSeason {
		s.GrowthStage = 0
		return
	}
	t := c.tAdj(s)
	switch {
	case t <= c.Canopy10Pct:
		s.GrowthStage = 1
	case t <= c.MaxCanopy:
		s.GrowthStage = 2
	case t <= c.Senescence:
		s.GrowthStage = 3
	default:
		s.GrowthStage = 4
	}
}

// potentialRootDepth returns the unstressed root depth [m] at
// development time t.
func potentialRootDepth(c *Crop, t float64) float64 {
	zIni := c.Zmin * (c.PctZmin / 100)
	t0 := math.Round(c.Emergence / 2)
	tMax := c.MaxRooting
	var z float64
	switch {
	case t <= t0:
		z = zIni
	case t >= tMax:
		z = c.Zmax
	default:
		z = zIni + (c.Zmax-zIni)*math.Pow((t-t0)/(tMax-t0), 1/c.FShapeR)
	}
	return clamp(z, c.Zmin, c.Zmax)
}

// RootDevelopment expands the root zone for one day. The potential
// increment is reduced by the transpiration ratio, by dry soil at the
// root front and by layers of low penetrability, and expansion stops
// at restrictive layers and at the water table.
func RootDevelopment(s *DailyState, p *SoilProfile, c *Crop, gdd float64, waterTable bool) {
	if !s.GrowingSeason {
		s.Zroot = 0
		return
	}
	t := c.tAdj(s)
	tOld := t - c.step(gdd)
	dZ := potentialRootDepth(c, t) - potentialRootDepth(c, math.Max(tOld, 0))
	if !s.Germination || s.CropDead {
		dZ = 0
	}
	if dZ > 0 && s.TrRatio < 0.9999 {
		if c.FShapeEx >= 0 {
			dZ *= s.TrRatio
		} else {
			dZ *= (math.Exp(s.TrRatio*c.FShapeEx) - 1) / (math.Exp(c.FShapeEx) - 1)
		}
	}
	if dZ > 0 {
		// Dry soil at the root front.
		i := max(p.compartmentsTo(s.Zroot)-1, 0)
		cp := &p.Comp[i]
		if taw := cp.ThFC - cp.ThWP; taw > 0 {
			drel := relativeDepletion(cp.ThFC-s.Th[i], taw, c.PUp[iSto], c.PLo[iSto])
			dZ *= shapeStress(drel, c.FShapeW[iSto])
		}
		if pen := p.Layers[cp.Layer].Penetrability; pen > 0 && pen < 100 {
			dZ *= pen / 100
		}
	}
	s.Zroot += math.Max(dZ, 0)
	if p.ZRes > 0 && s.Zroot > p.ZRes {
		s.RCor = (2*(s.Zroot/p.ZRes)*((c.SxTop+c.SxBot)/2) - c.SxTop) / c.SxBot
		s.Zroot = p.ZRes
	}
	if waterTable && s.ZGW > 0 && s.Zroot > s.ZGW {
		s.Zroot = math.Max(s.ZGW, c.Zmin)
	}
	s.Zroot = math.Min(s.Zroot, p.Depth())
}
