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

// ZoneWater holds water quantities [mm] for the root zone (Rz) and the
// topsoil slab (Zt).
type ZoneWater struct {
	Rz, Zt float64
}

// ZoneTheta holds mean water contents [m³/m³] over the root zone.
type ZoneTheta struct {
	Act, S, FC, WP, Dry, Aer float64
}

// RootZone is the result of RootZoneWater.
type RootZone struct {
	WrAct float64   // actual stored water in the root zone [mm]
	Dr    ZoneWater // depletion below field capacity
	TAW   ZoneWater // total available water
	Th    ZoneTheta
}

// RootZoneWater integrates the compartment water contents th over the
// rooted depth max(zRoot, zMin) and over the topsoil slab p.ZTop.
// aer is the aeration threshold below saturation [%]. It does not
// modify its inputs.
func RootZoneWater(p *SoilProfile, th []float64, zRoot, zMin, aer float64) RootZone {
	rootDepth := math.Round(math.Max(zRoot, zMin)*100) / 100
	var rz RootZone
	wrAct, wrS, wrFC, wrWP, wrDry, wrAer := zoneSums(p, th, rootDepth, aer)
	if wrAct < 0 {
		wrAct = 0
	}
	rz.WrAct = wrAct
	rz.Dr.Rz = math.Max(0, wrFC-wrAct)
	rz.TAW.Rz = math.Max(0, wrFC-wrWP)
	d := rootDepth * 1000
	rz.Th = ZoneTheta{
		Act: wrAct / d,
		S:   wrS / d,
		FC:  wrFC / d,
		WP:  wrWP / d,
		Dry: wrDry / d,
		Aer: wrAer / d,
	}
	if rootDepth > p.ZTop {
		act, _, fc, wp, _, _ := zoneSums(p, th, p.ZTop, aer)
		rz.Dr.Zt = math.Max(0, fc-math.Max(0, act))
		rz.TAW.Zt = math.Max(0, fc-wp)
	} else {
		rz.Dr.Zt = rz.Dr.Rz
		rz.TAW.Zt = rz.TAW.Rz
	}
	return rz
}

// zoneSums returns actual, saturated, field-capacity, wilting-point,
// air-dry and aeration-threshold water [mm] above depth z.
func zoneSums(p *SoilProfile, th []float64, z, aer float64) (act, s, fc, wp, dry, wAer float64) {
	n := p.compartmentsTo(z)
	for i := 0; i < n; i++ {
		c := &p.Comp[i]
		f := c.fraction(z)
		act += f * c.mm(th[i])
		s += f * c.mm(c.ThS)
		fc += f * c.mm(c.ThFC)
		wp += f * c.mm(c.ThWP)
		dry += f * c.mm(c.ThDry)
		wAer += f * c.mm(c.ThS-aer/100)
	}
	return
}

// stressZone chooses whichever of the topsoil and the root zone is
// wetter, relative to its available water, for stress calculations.
func (rz RootZone) stressZone() (dr, taw float64) {
	relRz, relZt := relDepletion(rz.Dr.Rz, rz.TAW.Rz), relDepletion(rz.Dr.Zt, rz.TAW.Zt)
	if relRz <= relZt {
		return rz.Dr.Rz, rz.TAW.Rz
	}
	return rz.Dr.Zt, rz.TAW.Zt
}

func relDepletion(dr, taw float64) float64 {
	if taw <= 0 {
		return 1
	}
	return dr / taw
}
